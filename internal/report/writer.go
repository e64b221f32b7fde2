package report

import (
	"io"
	"strings"

	"github.com/nao1215/labelkit/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs a single reagent report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.LabelReport) (int, error)

	// WriteSummary outputs a batch summary with its reports.
	WriteSummary(summary *model.Summary) (int, error)
}

// MultiWriter writes to multiple Writers in order and stops at the
// first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
func (m *MultiWriter) Write(report *model.LabelReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Status returns a one-word state of a report.
func Status(r *model.LabelReport) string {
	switch {
	case r.Cancelled:
		return "cancelled"
	case r.Failed():
		return "failed"
	case !r.HasLabel():
		return "empty"
	case r.Unchanged:
		return "unchanged"
	default:
		return "ok"
	}
}

// codeList joins the unique codes of a report, or returns "-".
func codeList(r *model.LabelReport) string {
	codes := r.UniqueHazards()
	if len(codes) == 0 {
		return "-"
	}
	return strings.Join(codes, ", ")
}

// truncateString shortens s to maxLen characters with an ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
