package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/labelkit/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
type SimpleWriter struct {
	baseWriter

	// showEmpty lists empty sections instead of skipping them.
	showEmpty bool

	// verbose adds the normalized markup and matched phrases.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single report.
func (w *SimpleWriter) Write(report *model.LabelReport) (int, error) {
	var sb strings.Builder
	w.writeReagent(&sb, report)
	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs the batch header, counts, code table and one
// block per reagent.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeCodes(&sb, summary)

	if len(summary.Reports) > 0 || w.showEmpty {
		section(&sb, "REAGENTS")
		for _, r := range summary.Reports {
			w.writeReagent(&sb, r)
		}
	}

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                         LABELKIT REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
	fmt.Fprintf(sb, "Generated:    %s\n", summary.DateGenerated.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Reagents:     %d\n\n", summary.Total)
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.Summary) {
	section(sb, "SUMMARY")
	fmt.Fprintf(sb, "  Labeled:      %d\n", summary.Labeled)
	fmt.Fprintf(sb, "  Empty:        %d\n", summary.Empty)
	fmt.Fprintf(sb, "  Failed:       %d\n", summary.Failed)
	fmt.Fprintf(sb, "  Cancelled:    %d\n", summary.Cancelled)
	fmt.Fprintf(sb, "  Unclassified: %d\n\n", summary.Unclassified)
}

func (w *SimpleWriter) writeCodes(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasHazards() && !w.showEmpty {
		return
	}

	section(sb, "HAZARD CODES")
	if !summary.HasHazards() {
		sb.WriteString("  No hazard codes\n\n")
		return
	}
	for _, c := range summary.Codes {
		fmt.Fprintf(sb, "  %-6s %-20s %d\n", c.Code, c.Name, c.Count)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeReagent(sb *strings.Builder, r *model.LabelReport) {
	fmt.Fprintf(sb, "[%s] %s\n", Status(r), r.Reagent)

	if r.PlainText != "" {
		fmt.Fprintf(sb, "    Text:    %s\n", r.PlainText)
	}
	fmt.Fprintf(sb, "    Hazards: %s\n", codeList(r))

	if r.ErrorMessage != "" {
		fmt.Fprintf(sb, "    Error:   %s\n", r.ErrorMessage)
	}

	if w.verbose {
		if r.Label != "" {
			fmt.Fprintf(sb, "    Label:   %s\n", r.Label)
		}
		if r.Digest != "" {
			fmt.Fprintf(sb, "    Digest:  %s\n", r.Digest)
		}
		for _, m := range r.Matches {
			fmt.Fprintf(sb, "    %s %-20s <- %q\n", m.Code, m.Name, m.Phrase)
		}
	}
	sb.WriteString("\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}
