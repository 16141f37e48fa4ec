package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/cli/helpers"
)

const maxTreeDepth = 64

var treeFormats = []helpers.OutputFormat{helpers.FormatText, helpers.FormatJSON}

func newTreeCmd(flags *helpers.AnalysisFlags) *cobra.Command {
	var (
		depth  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "tree BINARY [ROOT]",
		Short: "Render the calls made from a function as a tree",
		Long: `Render the callees of ROOT as a tree, expanding each function once.

ROOT defaults like the callers command: query.root, then the entry function.
Markers: "↺ recursive" for calls back into the current path, "(see above)"
for functions already expanded, "…" where --depth cut the tree.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, treeFormats); err != nil {
				return err
			}
			if depth < 1 || depth > maxTreeDepth {
				return fmt.Errorf("depth must be between 1 and %d", maxTreeDepth)
			}

			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			res, err := s.build(cmd)
			if err != nil {
				return err
			}

			var explicit string
			if len(args) == 2 {
				explicit = args[1]
			}
			root, err := s.resolveRoot(res, explicit)
			if err != nil {
				return err
			}

			tree := res.CallTree(root, depth)
			out := cmd.OutOrStdout()
			if helpers.OutputFormat(format) == helpers.FormatJSON {
				return (&helpers.JSONFormatter{}).Format(tree, out)
			}
			_, err = fmt.Fprint(out, helpers.RenderCallTree(tree))
			return err
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 6, "Maximum tree depth")
	helpers.AddFormatFlag(cmd, &format, helpers.FormatText, treeFormats)

	return cmd
}
