package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/cli/helpers"
)

var calleesFormats = []helpers.OutputFormat{helpers.FormatText, helpers.FormatJSON}

type calleesOutput struct {
	Function   string   `json:"function"`
	Transitive bool     `json:"transitive"`
	Callees    []string `json:"callees"`
}

func newCalleesCmd(flags *helpers.AnalysisFlags) *cobra.Command {
	var (
		transitive bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "callees BINARY FUNCTION",
		Short: "List the functions a function calls",
		Long: `Print the direct callees of FUNCTION, one per line, sorted by name.

With --transitive, print every function reachable from FUNCTION instead.
FUNCTION itself appears only when it can reach itself through recursion.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, calleesFormats); err != nil {
				return err
			}

			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			res, err := s.build(cmd)
			if err != nil {
				return err
			}

			result := calleesOutput{
				Function:   args[1],
				Transitive: transitive,
				Callees:    res.CalleesOf(args[1], transitive),
			}

			out := cmd.OutOrStdout()
			if helpers.OutputFormat(format) == helpers.FormatJSON {
				return (&helpers.JSONFormatter{}).Format(result, out)
			}
			for _, name := range result.Callees {
				if _, err := fmt.Fprintln(out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&transitive, "transitive", false, "Print every reachable function, not just direct callees")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatText, calleesFormats)

	return cmd
}
