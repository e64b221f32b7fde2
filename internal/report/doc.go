// Package report writes label reports and batch summaries.
//
// Writers for different output formats:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid pie chart
//     of hazard codes
//
// All writers implement the Writer interface and can be combined with
// MultiWriter.
package report
