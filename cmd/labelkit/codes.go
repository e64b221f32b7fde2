package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/labelkit/internal/ghs"
)

// NewCodesCmd creates the codes command.
func NewCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes [code]",
		Short: "List the GHS pictogram codes",
		Long: `Codes prints the GHS pictogram catalog, or the name of one code.

Examples:
  labelkit codes
  labelkit codes ghs06`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCodesCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

func runCodesCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	hazards := ghs.Catalog()
	if len(args) == 1 {
		code, err := ghs.Parse(args[0])
		if err != nil {
			return err
		}
		h, _ := ghs.Lookup(code)
		hazards = []ghs.Hazard{h}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return json.NewEncoder(out).Encode(hazards)
	}
	for _, h := range hazards {
		fmt.Fprintf(out, "%s  %s\n", h.Code, h.Name)
	}
	return nil
}
