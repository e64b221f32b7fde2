package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/labelkit/internal/config"
	"github.com/nao1215/labelkit/internal/database"
	"github.com/nao1215/labelkit/internal/ghs"
	"github.com/nao1215/labelkit/internal/log"
	"github.com/nao1215/labelkit/internal/model"
	"github.com/nao1215/labelkit/internal/pipeline"
	"github.com/nao1215/labelkit/internal/report"
)

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <manifest>",
		Short: "Normalize and classify every reagent of a manifest",
		Long: `Process runs a batch of reagents through normalization and GHS
classification, prints a report and stores the results.

The manifest is a YAML file listing reagents:

  reagents:
    - name: acetone
      labelFile: labels/acetone.html
      hazards:
        - Highly flammable liquid and vapour
        - Causes serious eye irritation
    - name: water
      label: "<b>Water</b>"

Label files are resolved relative to the manifest. Settings from the
.labelkit file (see 'labelkit init') add default hazard phrases, replace
labels or skip reagents.

Examples:
  # Process and print a text report
  labelkit process reagents.yaml

  # Markdown report into a file, without touching the database
  labelkit process --markdown -o report/labels.md --no-save reagents.yaml

  # JSON report with 8 workers
  labelkit process --json --batch-size 8 reagents.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runProcessCmd,
	}

	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Number of reagents processed concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Settings file path (default: .labelkit in current directory, XDG config, or home)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the label database")
	cmd.Flags().Bool("no-save", false,
		"Do not store results in the database")
	cmd.Flags().Bool("fail-fast", false,
		"Stop processing a reagent at its first failing step")
	cmd.Flags().Int("elide", config.DefaultElideLength,
		"Maximum length of values in log output")
	cmd.Flags().Bool("log-json", false,
		"Write log records to stderr as JSON lines")
	cmd.Flags().BoolP("progress", "p", false,
		"Print a line to stderr as each reagent finishes")

	return cmd
}

func runProcessCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.ElideLength)
	if cfg.LogJSON {
		logger = log.NewJSONLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.ElideLength)
	}
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runProcess(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig creates a Config from cobra flags and the settings file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if len(args) > 0 {
		cfg.ManifestPath = args[0]
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.BatchSize, err = flags.GetInt("batch-size"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.ElideLength, err = flags.GetInt("elide"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.Progress, err = flags.GetBool("progress"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	failFast, err := flags.GetBool("fail-fast")
	if err != nil {
		return nil, err
	}
	cfg.ContinueOnError = !failFast

	// An explicitly named settings file must exist; otherwise a missing
	// file just means no settings.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		settings, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Apply(settings, flags.Changed)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// runProcess loads the manifest, runs the batch, writes the report and
// stores the run summary. Progress lines go to stderr.
func runProcess(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) error {
	reagents, err := config.LoadManifest(cfg.ManifestPath, cfg.Settings)
	if err != nil {
		return err
	}

	logger.Info("starting processing",
		"manifest", cfg.ManifestPath,
		"reagents", len(reagents),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.LabelDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	newPipeline := func() *pipeline.Pipeline { return newLabelPipeline(cfg, db, logger) }
	logger.Debug("pipeline", "steps", newPipeline().StepNames())

	startTime := time.Now()
	bp := pipeline.NewBatchProcessor(
		newPipeline,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var (
		mu       sync.Mutex
		finished int
	)
	reports := make([]*model.LabelReport, len(reagents))
	batchErr := bp.ProcessBatchWithCallback(ctx, reagents, func(r *model.LabelReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		reports[index] = r
		finished++
		if cfg.Progress {
			fmt.Fprintf(stderr, "[%d/%d] %s: %s\n", finished, len(reagents), r.Reagent, report.Status(r))
		}
	})
	pipeline.FillCancelled(reports, reagents)
	logger.Info("processing finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	summary := model.NewSummary(reports, hazardName)

	if err := outputSummary(cfg, stdout, summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if db != nil && batchErr == nil {
		if _, err := db.SaveSummary(ctx, summary); err != nil {
			logger.Error("failed to save run summary", "error", err)
		}
	}

	if batchErr != nil {
		return batchErr
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d reagents failed", summary.Failed, summary.Total)
	}
	return nil
}

// newLabelPipeline builds the per-reagent pipeline. db may be nil.
func newLabelPipeline(cfg *config.Config, db *database.LabelDB, logger *slog.Logger) *pipeline.Pipeline {
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(cfg.ContinueOnError),
	)
	p.AddSteps(
		pipeline.NewNormalizeStep(logger),
		pipeline.NewClassifyStep(logger),
	)
	if db != nil {
		p.AddStep(pipeline.NewPersistStep(db, logger))
	}
	return p
}

// hazardName maps a code string to its catalog name.
func hazardName(code string) string {
	return ghs.Code(code).Name()
}

// outputSummary writes the summary in the configured format to the
// report file or stdout.
func outputSummary(cfg *config.Config, stdout io.Writer, summary *model.Summary) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newReportWriter(cfg, output).WriteSummary(summary)
	return err
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
