package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/callgraph/internal/source"
	"github.com/coral-mesh/callgraph/internal/symtab"
	"github.com/coral-mesh/callgraph/internal/testutil"
)

type fakeSymbols struct {
	records []source.SymbolRecord
	err     error
	drained bool
}

func (f *fakeSymbols) ReadSymbols(_ context.Context, fn source.SymbolFunc) error {
	for _, r := range f.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	f.drained = true
	return f.err
}

type fakeInstructions struct {
	records  []source.InstructionRecord
	onRecord func()
}

func (f *fakeInstructions) ReadInstructions(_ context.Context, fn source.InstructionFunc) error {
	for _, r := range f.records {
		if f.onRecord != nil {
			f.onRecord()
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func call(from, to uint64) source.InstructionRecord {
	return source.InstructionRecord{Address: from, Target: to, ControlTransfer: true}
}

func sampleSymbols() *fakeSymbols {
	return &fakeSymbols{records: []source.SymbolRecord{
		{Address: 0x100, Entry: true},
		{Address: 0x100, Name: "main"},
		{Address: 0x200, Name: "helper"},
		{Address: 0x300, Name: "die"},
	}}
}

func TestBuild_EndToEnd(t *testing.T) {
	insts := &fakeInstructions{records: []source.InstructionRecord{
		call(0x110, 0x200), // main -> helper
		call(0x120, 0x200), // main -> helper again
		call(0x250, 0x300), // helper -> die
		call(0x50, 0x300),  // below every symbol
		call(0x260, 0x10),  // target below every symbol
		{Address: 0x130, Target: 0x300},
	}}

	res, err := Build(context.Background(), testutil.NewTestLogger(t), sampleSymbols(), insts)
	require.NoError(t, err)

	assert.Equal(t, []string{"helper"}, res.Graph.CalleesOf("main"))
	assert.Equal(t, []string{"die"}, res.Graph.CalleesOf("helper"))
	assert.Equal(t, Stats{
		Symbols:      3,
		Instructions: 5,
		Edges:        2,
		Nodes:        3,
		Unresolved:   2,
		Duplicates:   1,
	}, res.Stats)

	report := res.CallersFrom("main", "die")
	assert.Equal(t, []string{"helper"}, report.Callers)
	assert.Equal(t, 2, report.Reachable)

	assert.Equal(t, []string{"die", "helper"}, res.CalleesOf("main", true))
	assert.Equal(t, []string{"helper"}, res.CalleesOf("main", false))

	name, ok, err := res.EntryFunction()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "main", name)
}

func TestBuild_SymbolPhaseCompletesFirst(t *testing.T) {
	syms := sampleSymbols()
	var drained []bool
	insts := &fakeInstructions{
		records: []source.InstructionRecord{call(0x110, 0x200), call(0x250, 0x300)},
		onRecord: func() {
			drained = append(drained, syms.drained)
		},
	}

	_, err := Build(context.Background(), testutil.NewTestLogger(t), syms, insts)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, drained)
}

func TestBuild_DuplicateEntryPoint(t *testing.T) {
	syms := sampleSymbols()
	syms.records = append(syms.records, source.SymbolRecord{Address: 0x400, Entry: true})

	_, err := Build(context.Background(), testutil.NewTestLogger(t), syms, &fakeInstructions{})
	require.ErrorIs(t, err, symtab.ErrDuplicateWrite)
}

func TestBuild_SymbolSourceError(t *testing.T) {
	boom := errors.New("readelf crashed")
	syms := &fakeSymbols{err: boom}

	_, err := Build(context.Background(), testutil.NewTestLogger(t), syms, &fakeInstructions{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to read symbols")
}

func TestResult_EntryFunction_Unset(t *testing.T) {
	syms := &fakeSymbols{records: []source.SymbolRecord{{Address: 0x100, Name: "main"}}}

	res, err := Build(context.Background(), testutil.NewTestLogger(t), syms, &fakeInstructions{})
	require.NoError(t, err)

	_, _, err = res.EntryFunction()
	require.ErrorIs(t, err, symtab.ErrUnsetValue)
}

func TestBuild_FromReports(t *testing.T) {
	readelfReport, objdumpReport := testutil.WriteReports(t)

	syms, insts, err := source.Open(source.Options{
		ReadelfReport: readelfReport,
		ObjdumpReport: objdumpReport,
	})
	require.NoError(t, err)

	res, err := Build(context.Background(), testutil.NewTestLoggerWithOutput(t), syms, insts)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Stats.Instructions)
	assert.Equal(t, 6, res.Stats.Edges)

	report := res.CallersFrom("get_oid", "die")
	assert.Equal(t, []string{"lookup"}, report.Callers)
	assert.Equal(t, []string{"die", "get_oid", "lookup"}, res.CalleesOf("get_oid", true))

	entry, ok, err := res.EntryFunction()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "_start", entry)
	assert.Equal(t, []string{"lookup", "usage"}, res.CallersFrom(entry, "die").Callers)
}

func TestLoadSymbols(t *testing.T) {
	tbl, err := LoadSymbols(context.Background(), sampleSymbols())
	require.NoError(t, err)

	name, ok := tbl.Lookup(0x2ff)
	require.True(t, ok)
	assert.Equal(t, "helper", name)

	entry, err := tbl.EntryPoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x100), entry)
}

func TestResult_CallTree(t *testing.T) {
	insts := &fakeInstructions{records: []source.InstructionRecord{
		call(0x110, 0x200), // main -> helper
		call(0x120, 0x300), // main -> die
		call(0x250, 0x300), // helper -> die
		call(0x260, 0x100), // helper -> main
		call(0x310, 0x310), // die -> die
	}}
	res, err := Build(context.Background(), testutil.NewTestLogger(t), sampleSymbols(), insts)
	require.NoError(t, err)

	tree := res.CallTree("main", 5)
	assert.Equal(t, &TreeNode{
		Name: "main",
		Children: []*TreeNode{
			{Name: "die", Children: []*TreeNode{{Name: "die", Recursive: true}}},
			{Name: "helper", Children: []*TreeNode{
				{Name: "die", Repeated: true},
				{Name: "main", Recursive: true},
			}},
		},
	}, tree)

	shallow := res.CallTree("main", 1)
	assert.Equal(t, &TreeNode{
		Name: "main",
		Children: []*TreeNode{
			{Name: "die", Truncated: true},
			{Name: "helper", Truncated: true},
		},
	}, shallow)
}
