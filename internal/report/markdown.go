package report

import (
	"io"
	"slices"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/labelkit/internal/model"
)

// severeCodes are the codes the summary alert escalates on:
// explosive (GHS01) and acute toxicity (GHS06).
var severeCodes = []string{"GHS01", "GHS06"}

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a single report.
func (w *MarkdownWriter) Write(report *model.LabelReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(report.Reagent)
	md.PlainText("")
	w.writeReagent(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the summary, a chart of codes and a section per
// reagent.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCodes(md, summary)
	w.writeReagentTable(md, summary)

	for _, r := range summary.Reports {
		md.H3(r.Reagent)
		md.PlainText("")
		w.writeReagent(md, r)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Label Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", summary.DateGenerated.Format("2006-01-02 15:04:05 MST")},
			{"Reagents", strconv.Itoa(summary.Total)},
			{"Labeled", strconv.Itoa(summary.Labeled)},
			{"Empty", strconv.Itoa(summary.Empty)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Cancelled", strconv.Itoa(summary.Cancelled)},
			{"Unclassified", strconv.Itoa(summary.Unclassified)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	severe := 0
	for _, c := range summary.Codes {
		if slices.Contains(severeCodes, c.Code) {
			severe += c.Count
		}
	}

	switch {
	case summary.Failed > 0:
		md.Cautionf("%d reagent(s) failed to process.", summary.Failed)
	case summary.Cancelled > 0:
		md.Cautionf("%d reagent(s) were cancelled before processing finished.", summary.Cancelled)
	case severe > 0:
		md.Warningf("%d reagent(s) are explosive or acutely toxic.", severe)
	case summary.Unclassified > 0:
		md.Importantf("%d reagent(s) have no hazard code.", summary.Unclassified)
	case summary.HasHazards():
		md.Note("All reagents are classified.")
	default:
		md.Tip("No reagents to report.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeCodes(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Hazard Codes")
	md.PlainText("")

	if !summary.HasHazards() {
		md.PlainText("No hazard codes assigned.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Codes))
	for i, c := range summary.Codes {
		rows[i] = []string{"`" + c.Code + "`", c.Name, strconv.Itoa(c.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Code", "Hazard", "Reagents"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Hazard Code Distribution"),
		piechart.WithShowData(true),
	)
	for _, c := range summary.Codes {
		chart.LabelAndIntValue(c.Code+" "+c.Name, uint64(c.Count)) //nolint:gosec // Count is never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeReagentTable(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Reagents")
	md.PlainText("")

	if len(summary.Reports) == 0 {
		md.PlainText("No reagents processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Reports))
	for i, r := range summary.Reports {
		text := r.PlainText
		if text == "" {
			text = "-"
		}
		rows[i] = []string{r.Reagent, Status(r), codeList(r), truncateString(text, 50)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Reagent", "Status", "Codes", "Label Text"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeReagent(md *markdown.Markdown, r *model.LabelReport) {
	if r.ErrorMessage != "" {
		md.Cautionf("Processing failed: %s", r.ErrorMessage)
		md.PlainText("")
	}

	if len(r.Matches) > 0 {
		rows := make([][]string, len(r.Matches))
		for i, m := range r.Matches {
			rows[i] = []string{"`" + m.Code + "`", m.Name, m.Keyword, m.Phrase}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Code", "Hazard", "Keyword", "Phrase"},
			Rows:   rows,
		})
		md.PlainText("")
	} else {
		md.PlainText("No hazard codes.")
		md.PlainText("")
	}

	if r.Label != "" {
		md.CodeBlocks(markdown.SyntaxHighlight("html"), r.Label)
		md.PlainText("")
	}
	if r.Digest != "" {
		md.Details("Digest", r.Digest)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [labelkit](https://github.com/nao1215/labelkit)*")
}
