package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/labelkit/internal/ghs"
	"github.com/nao1215/labelkit/internal/label"
	"github.com/nao1215/labelkit/internal/model"
)

// Step names.
const (
	NormalizeStepName = "normalize"
	ClassifyStepName  = "classify"
	PersistStepName   = "persist"
)

// NormalizeStep normalizes the label markup and derives its plain text
// and digest.
type NormalizeStep struct {
	logger *slog.Logger
}

// NewNormalizeStep creates a normalization step.
func NewNormalizeStep(logger *slog.Logger) *NormalizeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &NormalizeStep{logger: logger}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return NormalizeStepName
}

// Do fills Label, PlainText and Digest. It never fails.
func (s *NormalizeStep) Do(_ context.Context, report *model.LabelReport) error {
	report.Label = label.Normalize(report.Markup)
	report.PlainText = label.PlainText(report.Label)
	report.Digest = label.Digest(report.Label)

	if report.Label == "" && report.Markup != "" {
		s.logger.Debug("label has no visible text", "reagent", report.Reagent, "markup", report.Markup)
	} else {
		s.logger.Debug("label normalized", "reagent", report.Reagent, "label", report.Label)
	}
	return nil
}

// ClassifyStep maps the report's hazard phrases to GHS codes.
type ClassifyStep struct {
	logger *slog.Logger
}

// NewClassifyStep creates a classification step.
func NewClassifyStep(logger *slog.Logger) *ClassifyStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyStep{logger: logger}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return ClassifyStepName
}

// Do fills Hazards and Matches. It never fails.
func (s *ClassifyStep) Do(_ context.Context, report *model.LabelReport) error {
	matches := ghs.MatchAll(report.Phrases)

	report.Hazards = make([]string, 0, len(matches))
	report.Matches = make([]model.HazardMatch, 0, len(matches))
	for _, m := range matches {
		report.Hazards = append(report.Hazards, string(m.Code))
		report.Matches = append(report.Matches, model.HazardMatch{
			Code:    string(m.Code),
			Name:    m.Code.Name(),
			Keyword: m.Keyword,
			Phrase:  m.Phrase,
		})
	}

	if len(report.Hazards) == 0 && len(report.Phrases) > 0 {
		s.logger.Warn("no hazard code matched", "reagent", report.Reagent, "phrases", len(report.Phrases))
	}
	return nil
}

// Store is the storage used by PersistStep.
type Store interface {
	// GetDigest returns the stored digest of a reagent's label and
	// whether a label is stored at all.
	GetDigest(ctx context.Context, reagent string) (string, bool, error)

	// SaveReport stores the report's label and hazard codes.
	SaveReport(ctx context.Context, report *model.LabelReport) error
}

// PersistStep stores processed reports. Reports whose label digest
// matches the stored one are marked Unchanged; their hazard codes are
// still rewritten since the phrases may differ.
type PersistStep struct {
	store  Store
	logger *slog.Logger
}

// NewPersistStep creates a persistence step.
func NewPersistStep(store Store, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return PersistStepName
}

// Do saves the report. Failed reports are not stored.
func (s *PersistStep) Do(ctx context.Context, report *model.LabelReport) error {
	if report.Failed() {
		s.logger.Debug("skipping failed report", "reagent", report.Reagent)
		return nil
	}

	digest, ok, err := s.store.GetDigest(ctx, report.Reagent)
	if err != nil {
		return fmt.Errorf("failed to read stored label: %w", err)
	}
	report.Unchanged = ok && digest == report.Digest

	if err := s.store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	s.logger.Debug("report stored", "reagent", report.Reagent, "unchanged", report.Unchanged)
	return nil
}
