package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/labelkit/internal/config"
	"github.com/nao1215/labelkit/internal/database"
	"github.com/nao1215/labelkit/internal/ghs"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [phrase...]",
		Short: "Map hazard phrases to GHS codes",
		Long: `Classify maps free-text hazard phrases to GHS pictogram codes.

Every keyword found in a phrase contributes one code, so a phrase that is
both "irritant" and "harmful" yields GHS07 twice. Use --unique to print
each code once; with --explain only the first match of each code is shown.

Phrases are taken from the arguments, or one per line from standard
input when no argument is given.

Examples:
  labelkit classify "Highly flammable liquid" "Toxic if swallowed"
  labelkit classify --explain "Irritant and harmful"
  cut -f3 hazards.tsv | labelkit classify --unique --json
  labelkit classify --save acetone "Highly flammable liquid"`,
		RunE: runClassifyCmd,
	}

	cmd.Flags().BoolP("unique", "u", false, "Print each code once, in first-match order")
	cmd.Flags().BoolP("explain", "e", false, "Show the keyword and phrase behind each code")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().StringP("save", "s", "", "Replace the stored hazard codes of this reagent")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the label database (with --save)")

	return cmd
}

func runClassifyCmd(cmd *cobra.Command, args []string) error {
	unique, err := cmd.Flags().GetBool("unique")
	if err != nil {
		return err
	}
	explain, err := cmd.Flags().GetBool("explain")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	saveAs, err := cmd.Flags().GetString("save")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	phrases := args
	if len(phrases) == 0 {
		phrases, err = readLines(cmd)
		if err != nil {
			return err
		}
	}

	matches := ghs.MatchAll(phrases)
	if name := strings.TrimSpace(saveAs); name != "" {
		if err := saveHazards(cmd, dbDir, name, matches); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()

	if explain {
		if unique {
			matches = firstMatches(matches)
		}
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		}
		for _, m := range matches {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", m.Code, m.Code.Name(), m.Keyword, m.Phrase)
		}
		return nil
	}

	codes := ghs.Classify(phrases)
	if unique {
		codes = ghs.Dedup(codes)
	}

	if jsonOutput {
		return json.NewEncoder(out).Encode(codes)
	}
	for _, c := range codes {
		fmt.Fprintln(out, c)
	}
	return nil
}

// firstMatches keeps the first match of every code.
func firstMatches(matches []ghs.Match) []ghs.Match {
	seen := make(map[ghs.Code]bool, len(matches))
	out := make([]ghs.Match, 0, len(matches))
	for _, m := range matches {
		if seen[m.Code] {
			continue
		}
		seen[m.Code] = true
		out = append(out, m)
	}
	return out
}

func saveHazards(cmd *cobra.Command, dbDir, name string, matches []ghs.Match) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records := make([]database.HazardRecord, len(matches))
	for i, m := range matches {
		records[i] = database.HazardRecord{Reagent: name, Code: string(m.Code), Phrase: m.Phrase}
	}
	return db.SaveHazards(ctx, name, records)
}

// readLines reads non-blank lines from the command's stdin.
func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read phrases: %w", err)
	}
	return lines, nil
}
