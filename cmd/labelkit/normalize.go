package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/labelkit/internal/config"
	"github.com/nao1215/labelkit/internal/database"
	"github.com/nao1215/labelkit/internal/label"
)

// ErrEmptyLabel is returned by normalize --strict for labels without
// visible text.
var ErrEmptyLabel = errors.New("label has no visible text")

// NewNormalizeCmd creates the normalize command.
func NewNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize label markup",
		Long: `Normalize reduces label editor markup to a portable label.

The document is cut to its body content, editor fonts and indentation are
removed from style attributes, and sub/superscripts gain a smaller font
size. A label without visible text normalizes to nothing.

The markup is read from the file argument, or from standard input when
the argument is missing or "-".

Examples:
  # Normalize a saved label
  labelkit normalize acetone.html

  # Normalize from a pipe and print the visible text
  cat acetone.html | labelkit normalize --text

  # Wrap plain text in the editor's default span first
  echo "H2O" | labelkit normalize --wrap

  # Store the result as the label of a reagent
  labelkit normalize --save acetone acetone.html

  # Fail when the label has no visible text
  labelkit normalize --strict acetone.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runNormalizeCmd,
	}

	cmd.Flags().BoolP("text", "t", false, "Print the visible text instead of the markup")
	cmd.Flags().BoolP("digest", "d", false, "Also print the SHA3-256 digest of the label")
	cmd.Flags().BoolP("wrap", "w", false, "Treat input as plain text and wrap it in the default span")
	cmd.Flags().Bool("strict", false, "Fail when the label has no visible text")
	cmd.Flags().StringP("save", "s", "", "Store the normalized label under this reagent name")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the label database (with --save)")

	return cmd
}

func runNormalizeCmd(cmd *cobra.Command, args []string) error {
	textOnly, err := cmd.Flags().GetBool("text")
	if err != nil {
		return err
	}
	withDigest, err := cmd.Flags().GetBool("digest")
	if err != nil {
		return err
	}
	wrap, err := cmd.Flags().GetBool("wrap")
	if err != nil {
		return err
	}
	strict, err := cmd.Flags().GetBool("strict")
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

	markup, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if wrap {
		markup = label.Wrap(markup)
	}
	if strict && label.IsEmpty(markup) {
		return ErrEmptyLabel
	}

	normalized := label.Normalize(markup)

	if name := strings.TrimSpace(saveAs); name != "" {
		if err := saveLabel(cmd, dbDir, name, markup, normalized); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if textOnly {
		fmt.Fprintln(out, label.PlainText(normalized))
	} else {
		fmt.Fprintln(out, normalized)
	}
	if withDigest {
		fmt.Fprintln(out, label.Digest(normalized))
	}

	return nil
}

// saveLabel stores a normalized label. Stored hazard codes of the
// reagent are left alone.
func saveLabel(cmd *cobra.Command, dbDir, name, markup, normalized string) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return db.SaveLabel(ctx, &database.LabelRecord{
		Reagent:   name,
		Markup:    markup,
		Label:     normalized,
		PlainText: label.PlainText(normalized),
		Digest:    label.Digest(normalized),
	})
}

// readInput reads the file named by args[0], or stdin when there is no
// argument or it is "-". A single trailing newline is dropped.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var data []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0]) //nolint:gosec // User-provided input path is intentional
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	s := string(data)
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	return s, nil
}
