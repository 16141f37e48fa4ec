package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/cli/helpers"
	"github.com/coral-mesh/callgraph/internal/symtab"
)

var lookupFormats = []helpers.OutputFormat{helpers.FormatTable, helpers.FormatJSON, helpers.FormatCSV}

type lookupRow struct {
	Address string `json:"address" header:"Address"`
	Symbol  string `json:"symbol" header:"Symbol"`
	Found   bool   `json:"found" header:"Found"`
}

// parseAddress accepts 0x-prefixed hex, 0-prefixed octal and decimal.
func parseAddress(s string) (uint64, error) {
	addr, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: use 0x for hex", s)
	}
	return addr, nil
}

func lookupRows(tbl *symtab.Table, addrs []string) ([]lookupRow, error) {
	rows := make([]lookupRow, 0, len(addrs))
	for _, a := range addrs {
		addr, err := parseAddress(a)
		if err != nil {
			return nil, err
		}
		name, ok := tbl.Lookup(addr)
		rows = append(rows, lookupRow{
			Address: fmt.Sprintf("0x%x", addr),
			Symbol:  name,
			Found:   ok,
		})
	}
	return rows, nil
}

func newLookupCmd(flags *helpers.AnalysisFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lookup BINARY ADDRESS...",
		Short: "Resolve addresses to the functions containing them",
		Long: `Resolve each ADDRESS to the symbol with the greatest address at or below it.
Only the symbol table is read; the binary is not disassembled.

Examples:
  callgraph lookup ./prog 0x401130 0x401150
  callgraph lookup ./prog 0x401130 -o json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(format, lookupFormats); err != nil {
				return err
			}

			s, err := newSession(cmd, flags, args[0])
			if err != nil {
				return err
			}
			tbl, err := s.symbols(cmd)
			if err != nil {
				return err
			}

			rows, err := lookupRows(tbl, args[1:])
			if err != nil {
				return err
			}

			formatter, err := helpers.NewFormatter(helpers.OutputFormat(format))
			if err != nil {
				return err
			}
			return formatter.Format(rows, cmd.OutOrStdout())
		},
	}

	helpers.AddFormatFlag(cmd, &format, helpers.FormatTable, lookupFormats)

	return cmd
}
