package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/cli/helpers"
)

var callersFormats = []helpers.OutputFormat{helpers.FormatText, helpers.FormatJSON}

func newCallersCmd(flags *helpers.AnalysisFlags) *cobra.Command {
	var (
		root   string
		target string
		format string
	)

	cmd := &cobra.Command{
		Use:   "callers BINARY",
		Short: "List direct callers of a function that are reachable from a root",
		Long: `Compute every function reachable from --root by following call edges,
then print those that call --target directly.

The root defaults to query.root from the config file, then to the function
containing the program entry point. The target defaults to query.target.

Examples:
  callgraph callers ./git --root get_oid --target die
  callgraph callers ./prog --target abort -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, callersFormats); err != nil {
				return err
			}

			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			if target == "" {
				target = s.cfg.Query.Target
			}
			if target == "" {
				return fmt.Errorf("--target is required")
			}

			res, err := s.build(cmd)
			if err != nil {
				return err
			}
			root, err := s.resolveRoot(res, root)
			if err != nil {
				return err
			}

			report := res.CallersFrom(root, target)
			out := cmd.OutOrStdout()
			if helpers.OutputFormat(format) == helpers.FormatJSON {
				return (&helpers.JSONFormatter{}).Format(report, out)
			}

			_, err = fmt.Fprintf(out, "%s %s\n",
				helpers.Heading(out, fmt.Sprintf("callers of '%s' reachable from '%s':", report.Target, report.Root)),
				strings.Join(report.Callers, ", "))
			return err
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Function the reachable set starts from")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Function whose direct callers are listed")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatText, callersFormats)

	return cmd
}
