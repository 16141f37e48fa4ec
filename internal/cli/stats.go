package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/analysis"
	"github.com/coral-mesh/callgraph/internal/cli/helpers"
	"github.com/coral-mesh/callgraph/internal/symtab"
)

var statsFormats = []helpers.OutputFormat{helpers.FormatText, helpers.FormatJSON}

type statsOutput struct {
	Binary        string `json:"binary"`
	Backend       string `json:"backend"`
	EntryPoint    string `json:"entry_point,omitempty"`
	EntryFunction string `json:"entry_function,omitempty"`
	Fingerprint   string `json:"fingerprint"`
	analysis.Stats
}

func collectStats(res *analysis.Result, binary, backend string) (statsOutput, error) {
	out := statsOutput{
		Binary:      binary,
		Backend:     backend,
		Fingerprint: fmt.Sprintf("%016x", res.Graph.Fingerprint()),
		Stats:       res.Stats,
	}

	entry, err := res.Symbols.EntryPoint()
	switch {
	case errors.Is(err, symtab.ErrUnsetValue):
		return out, nil
	case err != nil:
		return out, err
	}
	out.EntryPoint = fmt.Sprintf("0x%x", entry)
	if name, ok := res.Symbols.Lookup(entry); ok {
		out.EntryFunction = name
	}
	return out, nil
}

func writeStatsText(w io.Writer, st statsOutput) error {
	entry := "-"
	if st.EntryPoint != "" {
		entry = st.EntryPoint
		if st.EntryFunction != "" {
			entry += " (" + st.EntryFunction + ")"
		}
	}

	_, err := fmt.Fprintf(w, "%s\n"+
		"  Backend:       %s\n"+
		"  Entry point:   %s\n"+
		"  Symbols:       %d\n"+
		"  Call sites:    %d (%d unresolved, %d duplicate)\n"+
		"  Functions:     %d\n"+
		"  Edges:         %d\n"+
		"  Fingerprint:   %s\n",
		helpers.Heading(w, st.Binary),
		st.Backend,
		entry,
		st.Symbols,
		st.Instructions, st.Unresolved, st.Duplicates,
		st.Nodes,
		st.Edges,
		helpers.Dim(w, st.Fingerprint),
	)
	return err
}

func newStatsCmd(flags *helpers.AnalysisFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats BINARY",
		Short: "Summarize the symbol table and call graph of a binary",
		Long: `Print symbol, call site and edge counts, the entry point, and a fingerprint
of the edge set. Two builds with the same fingerprint produced the same graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, statsFormats); err != nil {
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

			st, err := collectStats(res, args[0], string(s.opts.Backend))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if helpers.OutputFormat(format) == helpers.FormatJSON {
				return (&helpers.JSONFormatter{}).Format(st, out)
			}
			return writeStatsText(out, st)
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatText, statsFormats)

	return cmd
}
