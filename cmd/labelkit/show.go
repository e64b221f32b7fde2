package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/labelkit/internal/config"
	"github.com/nao1215/labelkit/internal/database"
	"github.com/nao1215/labelkit/internal/ghs"
	"github.com/nao1215/labelkit/internal/report"
)

// ErrReagentNotFound is returned when show is asked for an unknown reagent.
var ErrReagentNotFound = errors.New("reagent not found in database")

// storedLabel is the JSON shape of a stored reagent.
type storedLabel struct {
	Reagent   string                  `json:"reagent"`
	Label     string                  `json:"label"`
	PlainText string                  `json:"plain_text"`
	Digest    string                  `json:"digest"`
	Updated   string                  `json:"updated"`
	Hazards   []database.HazardRecord `json:"hazards"`
}

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [reagent]",
		Short: "Show stored labels and hazard codes",
		Long: `Show reads the label database written by 'labelkit process'.

Examples:
  # Show the stored label and hazard codes of a reagent
  labelkit show acetone

  # List all stored reagents
  labelkit show --list

  # List reagents carrying a code
  labelkit show --code GHS02

  # Print the report of the latest run
  labelkit show --last-run --markdown

  # List all runs
  labelkit show --runs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().BoolP("list", "l", false, "List all stored reagents with their hazard codes")
	cmd.Flags().String("code", "", "List reagents carrying a GHS code")
	cmd.Flags().Bool("runs", false, "List processing runs, newest first")
	cmd.Flags().Bool("last-run", false, "Print the report of the latest run")
	cmd.Flags().Bool("delete", false, "Delete the stored label of the reagent")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (with --last-run)")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the label database")

	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	list, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	codeFlag, err := flags.GetString("code")
	if err != nil {
		return err
	}
	runs, err := flags.GetBool("runs")
	if err != nil {
		return err
	}
	lastRun, err := flags.GetBool("last-run")
	if err != nil {
		return err
	}
	deleteLabel, err := flags.GetBool("delete")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	// Validate before opening the database so that usage errors do not
	// create an empty database file.
	var code ghs.Code
	if codeFlag != "" {
		if code, err = ghs.Parse(codeFlag); err != nil {
			return err
		}
	}
	needsReagent := !list && code == "" && !runs && !lastRun
	if needsReagent && len(args) == 0 {
		return errors.New("reagent name is required (use --list to see stored reagents)")
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case list:
		return listReagents(ctx, db, out, jsonOutput)
	case code != "":
		names, err := db.FindByCode(ctx, string(code))
		if err != nil {
			return err
		}
		return printNames(out, names, jsonOutput)
	case runs:
		return listRuns(ctx, db, out, jsonOutput)
	case lastRun:
		return showLastRun(ctx, db, out, jsonOutput, markdownOutput)
	case deleteLabel:
		if err := db.DeleteLabel(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %s\n", args[0])
		return nil
	default:
		return showReagent(ctx, db, out, args[0], jsonOutput)
	}
}

func printNames(out io.Writer, names []string, jsonOutput bool) error {
	if jsonOutput {
		if names == nil {
			names = []string{}
		}
		return json.NewEncoder(out).Encode(names)
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

// reagentCodes is the JSON shape of a --list entry.
type reagentCodes struct {
	Reagent string   `json:"reagent"`
	Codes   []string `json:"codes"`
}

func listReagents(ctx context.Context, db *database.LabelDB, out io.Writer, jsonOutput bool) error {
	names, err := db.ListReagents(ctx)
	if err != nil {
		return err
	}

	entries := make([]reagentCodes, 0, len(names))
	for _, name := range names {
		codes, err := db.HazardCodes(ctx, name)
		if err != nil {
			return err
		}
		if codes == nil {
			codes = []string{}
		}
		entries = append(entries, reagentCodes{Reagent: name, Codes: codes})
	}

	if jsonOutput {
		return json.NewEncoder(out).Encode(entries)
	}
	for _, e := range entries {
		codes := "-"
		if len(e.Codes) > 0 {
			codes = strings.Join(e.Codes, ",")
		}
		fmt.Fprintf(out, "%s  %s\n", e.Reagent, codes)
	}
	return nil
}

func showReagent(ctx context.Context, db *database.LabelDB, out io.Writer, name string, jsonOutput bool) error {
	record, err := db.GetLabel(ctx, name)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: %s", ErrReagentNotFound, name)
	}

	hazards, err := db.GetHazards(ctx, name)
	if err != nil {
		return err
	}

	if jsonOutput {
		if hazards == nil {
			hazards = []database.HazardRecord{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(storedLabel{
			Reagent:   record.Reagent,
			Label:     record.Label,
			PlainText: record.PlainText,
			Digest:    record.Digest,
			Updated:   record.Timestamp.Format("2006-01-02 15:04:05"),
			Hazards:   hazards,
		})
	}

	fmt.Fprintf(out, "Reagent: %s\n", record.Reagent)
	fmt.Fprintf(out, "Updated: %s\n", record.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Text:    %s\n", record.PlainText)
	fmt.Fprintf(out, "Label:   %s\n", record.Label)
	fmt.Fprintf(out, "Digest:  %s\n", record.Digest)
	if len(hazards) == 0 {
		fmt.Fprintln(out, "Hazards: none")
		return nil
	}
	fmt.Fprintln(out, "Hazards:")
	for _, h := range hazards {
		fmt.Fprintf(out, "  %s %-20s %s\n", h.Code, ghs.Code(h.Code).Name(), h.Phrase)
	}
	return nil
}

func listRuns(ctx context.Context, db *database.LabelDB, out io.Writer, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		if runs == nil {
			runs = []database.RunRecord{}
		}
		return json.NewEncoder(out).Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	fmt.Fprintf(out, "%-6s %-20s %6s %6s\n", "ID", "DATE", "TOTAL", "FAILED")
	for _, r := range runs {
		fmt.Fprintf(out, "%-6d %-20s %6d %6d\n", r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Total, r.Failed)
	}
	return nil
}

func showLastRun(ctx context.Context, db *database.LabelDB, out io.Writer, jsonOutput, markdownOutput bool) error {
	summary, err := db.GetLatestSummary(ctx)
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	var w report.Writer
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out)
	}
	_, err = w.WriteSummary(summary)
	return err
}
