package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for labelkit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labelkit",
		Short: "Normalize reagent labels and classify GHS hazards",
		Long: `labelkit prepares reagent labels for printing and storage.

It strips editor styling from label markup, keeps the formatting that
matters (bold, colors, sub- and superscripts), and maps free-text hazard
phrases from safety data to GHS pictogram codes (GHS01 to GHS09).

Processed labels and their hazard codes are stored in a SQLite database
in the XDG data directory.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewNormalizeCmd())
	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewCodesCmd())
	cmd.AddCommand(NewCharsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
