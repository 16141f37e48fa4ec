// Package analysis builds a call graph from symbol and instruction records.
//
// Construction runs in two strict phases. The symbol source is drained
// completely before the first instruction is resolved, because floor lookup
// against a partially populated table can attribute an instruction to the
// wrong function. Once Build returns, the table and the graph are read-only.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/callgraph/internal/callgraph"
	"github.com/coral-mesh/callgraph/internal/source"
	"github.com/coral-mesh/callgraph/internal/symtab"
)

// Stats summarizes a build.
type Stats struct {
	Symbols      int `json:"symbols"`
	Instructions int `json:"instructions"`
	Edges        int `json:"edges"`
	Nodes        int `json:"nodes"`
	// Unresolved counts control transfers whose source or target lies below
	// every known symbol.
	Unresolved int `json:"unresolved"`
	// Duplicates counts control transfers that produced an existing edge.
	Duplicates int `json:"duplicates"`
}

// Result is the output of Build.
type Result struct {
	Symbols *symtab.Table
	Graph   *callgraph.Graph
	Stats   Stats
}

// EntryFunction returns the name of the function containing the entry point.
// It fails with symtab.ErrUnsetValue when no entry point was recorded and
// returns false when the entry point lies below every symbol.
func (r *Result) EntryFunction() (string, bool, error) {
	entry, err := r.Symbols.EntryPoint()
	if err != nil {
		return "", false, err
	}
	name, ok := r.Symbols.Lookup(entry)
	return name, ok, nil
}

// Build drains symbols into a table, then instructions into a graph.
func Build(ctx context.Context, logger zerolog.Logger, symbols source.SymbolSource, instructions source.InstructionSource) (*Result, error) {
	logger = logger.With().Str("component", "builder").Logger()

	res := &Result{
		Symbols: symtab.New(),
		Graph:   callgraph.New(),
	}

	start := time.Now()
	if err := loadSymbols(ctx, res.Symbols, symbols); err != nil {
		return nil, err
	}
	res.Stats.Symbols = res.Symbols.Len()

	logger.Debug().
		Int("symbol_count", res.Stats.Symbols).
		Dur("elapsed", time.Since(start)).
		Msg("Symbol phase completed")

	start = time.Now()
	if err := loadEdges(ctx, res, instructions); err != nil {
		return nil, err
	}
	res.Stats.Edges = res.Graph.EdgeCount()
	res.Stats.Nodes = len(res.Graph.Names())

	logger.Debug().
		Int("instruction_count", res.Stats.Instructions).
		Int("edge_count", res.Stats.Edges).
		Int("unresolved", res.Stats.Unresolved).
		Dur("elapsed", time.Since(start)).
		Msg("Call graph phase completed")

	if res.Stats.Symbols == 0 {
		logger.Warn().Msg("No symbols found (stripped binary?)")
	}

	return res, nil
}

// LoadSymbols drains symbols into a new table. It is the first phase of
// Build and is enough on its own for address lookups.
func LoadSymbols(ctx context.Context, symbols source.SymbolSource) (*symtab.Table, error) {
	tbl := symtab.New()
	if err := loadSymbols(ctx, tbl, symbols); err != nil {
		return nil, err
	}
	return tbl, nil
}

func loadSymbols(ctx context.Context, tbl *symtab.Table, symbols source.SymbolSource) error {
	err := symbols.ReadSymbols(ctx, func(rec source.SymbolRecord) error {
		if rec.Entry {
			return tbl.SetEntryPoint(rec.Address)
		}
		tbl.Add(rec.Address, rec.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read symbols: %w", err)
	}
	return nil
}

func loadEdges(ctx context.Context, res *Result, instructions source.InstructionSource) error {
	err := instructions.ReadInstructions(ctx, func(rec source.InstructionRecord) error {
		if !rec.ControlTransfer {
			return nil
		}
		res.Stats.Instructions++

		caller, ok := res.Symbols.Lookup(rec.Address)
		if !ok {
			res.Stats.Unresolved++
			return nil
		}
		callee, ok := res.Symbols.Lookup(rec.Target)
		if !ok {
			res.Stats.Unresolved++
			return nil
		}
		if !res.Graph.Add(caller, callee) {
			res.Stats.Duplicates++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read instructions: %w", err)
	}
	return nil
}
