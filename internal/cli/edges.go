package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/callgraph"
	"github.com/coral-mesh/callgraph/internal/cli/helpers"
	cgerrors "github.com/coral-mesh/callgraph/internal/errors"
)

var edgesFormats = []helpers.OutputFormat{helpers.FormatTable, helpers.FormatCSV, helpers.FormatJSON, helpers.FormatDOT}

// writeDOT writes edges as a Graphviz digraph.
func writeDOT(w io.Writer, edges []callgraph.Edge) error {
	if _, err := fmt.Fprintln(w, "digraph callgraph {"); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "  %s -> %s;\n", strconv.Quote(e.Caller), strconv.Quote(e.Callee)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func newEdgesCmd(flags *helpers.AnalysisFlags) *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "edges BINARY",
		Short: "List every caller -> callee edge",
		Long: `List every distinct edge of the call graph, ordered by caller then callee.

Examples:
  callgraph edges ./prog -o csv
  callgraph edges ./prog -o dot --out prog.dot && dot -Tsvg prog.dot > prog.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, edgesFormats); err != nil {
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
			edges := res.Graph.Edges()

			out := cmd.OutOrStdout()
			if outPath != "" {
				//nolint:gosec // G304: output path is chosen by the user.
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer cgerrors.DeferClose(s.logger, f, "failed to close output file")
				out = f
			}

			if helpers.OutputFormat(format) == helpers.FormatDOT {
				return writeDOT(out, edges)
			}
			formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
			if err != nil {
				return err
			}
			return formatter.Format(edges, out)
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, edgesFormats)
	cmd.Flags().StringVar(&outPath, "out", "", "Write to this file instead of stdout")
	cgerrors.Must(cmd.MarkFlagFilename("out"), "mark --out as filename flag")

	return cmd
}
