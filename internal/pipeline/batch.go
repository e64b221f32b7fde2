package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/labelkit/internal/model"
)

// DefaultConcurrency is the number of reagents processed at once when
// no concurrency is configured.
const DefaultConcurrency = 4

// BatchProcessor runs a fresh pipeline for each reagent of a batch,
// with bounded concurrency.
type BatchProcessor struct {
	// pipelineFactory creates the pipeline for one reagent.
	pipelineFactory func() *Pipeline

	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of reagents processed at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Concurrency returns the configured concurrency limit.
func (bp *BatchProcessor) Concurrency() int {
	return bp.concurrency
}

// ProcessBatch processes the reagents concurrently and returns one
// report per reagent, in input order. Step failures are recorded on the
// reports and do not stop the batch. Reagents interrupted or not started
// because the context was cancelled get a report marked Cancelled, and
// the context error is returned.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, reagents []model.Reagent) ([]*model.LabelReport, error) {
	bp.logger.Info("starting batch processing",
		"total_reagents", len(reagents),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.LabelReport, len(reagents))

	err := bp.run(ctx, reagents, func(report *model.LabelReport, index int) {
		results[index] = report
	})

	FillCancelled(results, reagents)

	bp.logger.Info("batch processing complete",
		"total_reagents", len(reagents),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback processes the reagents and calls callback for
// each finished report with the reagent's index. The callback is called
// from worker goroutines and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	reagents []model.Reagent,
	callback func(report *model.LabelReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_reagents", len(reagents),
		"concurrency", bp.concurrency,
	)

	return bp.run(ctx, reagents, callback)
}

// FillCancelled replaces nil entries of results, which must be indexed
// like reagents, with reports marked Cancelled.
func FillCancelled(results []*model.LabelReport, reagents []model.Reagent) {
	for i, report := range results {
		if report == nil {
			report = model.NewLabelReport(reagents[i])
			report.Cancelled = true
			results[i] = report
		}
	}
}

func (bp *BatchProcessor) run(
	ctx context.Context,
	reagents []model.Reagent,
	done func(report *model.LabelReport, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, reagent := range reagents {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewLabelReport(reagent)
			err := bp.pipelineFactory().Execute(ctx, report)
			done(report, i)

			if report.Cancelled {
				return ctx.Err()
			}
			if err != nil {
				bp.logger.Warn("reagent failed",
					"reagent", reagent.Name,
					"error", err,
				)
			}
			return nil
		})
	}

	return g.Wait()
}
