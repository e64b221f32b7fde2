package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/labelkit/internal/charmap"
)

// NewCharsCmd creates the chars command.
func NewCharsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chars [query]",
		Short: "Show the special characters available for labels",
		Long: `Chars prints the special characters offered by the label editor's
character picker: Greek letters, arrows, hazard symbols and common
scientific signs.

Without a query the characters are printed as a grid. With a query, the
characters whose Unicode name contains it are listed.

Examples:
  labelkit chars
  labelkit chars --columns 12
  labelkit chars greek small
  labelkit chars --lookup "greek small letter alpha"
  labelkit chars --list`,
		RunE: runCharsCmd,
	}

	cmd.Flags().IntP("columns", "n", 0, "Grid width (default: square grid)")
	cmd.Flags().BoolP("list", "l", false, "List every character with its code point and name")
	cmd.Flags().String("lookup", "", "Print the character with this exact Unicode name")

	return cmd
}

func runCharsCmd(cmd *cobra.Command, args []string) error {
	columns, err := cmd.Flags().GetInt("columns")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	lookup, err := cmd.Flags().GetString("lookup")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if lookup != "" {
		c, ok := charmap.Lookup(strings.TrimSpace(lookup))
		if !ok {
			return fmt.Errorf("no character is named %q", lookup)
		}
		fmt.Fprintf(out, "%s  %s  %s\n", c, c.CodePoint(), c.Name)
		return nil
	}

	if len(args) > 0 || list {
		chars := charmap.All()
		if len(args) > 0 {
			query := strings.Join(args, " ")
			chars = charmap.Search(query)
			if len(chars) == 0 {
				return fmt.Errorf("no character matches %q", query)
			}
		}
		for _, c := range chars {
			fmt.Fprintf(out, "%s  %s  %s\n", c, c.CodePoint(), c.Name)
		}
		return nil
	}

	for _, row := range charmap.Grid(columns) {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.String()
		}
		fmt.Fprintln(out, strings.Join(cells, " "))
	}
	return nil
}
