package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Lookup(t *testing.T) {
	tbl := New()
	tbl.Add(0x100, "main")
	tbl.Add(0x200, "helper")
	tbl.Add(0x300, "die")

	tests := []struct {
		name     string
		addr     uint64
		wantName string
		wantOK   bool
	}{
		{name: "below first symbol", addr: 0xff, wantOK: false},
		{name: "zero address", addr: 0, wantOK: false},
		{name: "exact first", addr: 0x100, wantName: "main", wantOK: true},
		{name: "inside first", addr: 0x1ff, wantName: "main", wantOK: true},
		{name: "exact middle", addr: 0x200, wantName: "helper", wantOK: true},
		{name: "between symbols", addr: 0x250, wantName: "helper", wantOK: true},
		{name: "past last symbol", addr: 0xffffffffffffffff, wantName: "die", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := tbl.Lookup(tt.addr)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestTable_Lookup_Empty(t *testing.T) {
	tbl := New()
	name, ok := tbl.Lookup(0x1000)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestTable_Lookup_EmptyNameIsFound(t *testing.T) {
	tbl := New()
	tbl.Add(0x10, "")

	name, ok := tbl.Lookup(0x20)
	assert.True(t, ok)
	assert.Equal(t, "", name)
}

func TestTable_Add_IgnoresZeroAddress(t *testing.T) {
	tbl := New()
	tbl.Add(0, "printf@GLIBC")
	assert.Equal(t, 0, tbl.Len())

	_, ok := tbl.Lookup(0x10)
	assert.False(t, ok)
}

func TestTable_Add_OutOfOrder(t *testing.T) {
	tbl := New()
	tbl.Add(0x100, "a")
	tbl.Add(0x100, "a-dup")
	tbl.Add(0x300, "c")
	tbl.Add(0x200, "b")

	name, ok := tbl.Lookup(0x250)
	require.True(t, ok)
	assert.Equal(t, "b", name)

	name, ok = tbl.Lookup(0x100)
	require.True(t, ok)
	assert.Equal(t, "a", name, "consecutive duplicate must keep the first name")
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_Add_ReverseOrder(t *testing.T) {
	tbl := New()
	for _, addr := range []uint64{0x500, 0x400, 0x300, 0x200, 0x100} {
		tbl.Add(addr, "")
	}
	tbl.Add(0x300, "three")

	name, ok := tbl.Lookup(0x3ff)
	require.True(t, ok)
	assert.Equal(t, "three", name)

	// Adding after a lookup still triggers a resort.
	tbl.Add(0x50, "first")
	name, ok = tbl.Lookup(0x60)
	require.True(t, ok)
	assert.Equal(t, "first", name)
}

func TestTable_Add_NonConsecutiveDuplicateOverwrites(t *testing.T) {
	tbl := New()
	tbl.Add(0x100, "old")
	tbl.Add(0x200, "other")
	tbl.Add(0x100, "new")

	name, ok := tbl.Lookup(0x100)
	require.True(t, ok)
	assert.Equal(t, "new", name)
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_Add_MostRecentName(t *testing.T) {
	tbl := New()
	addrs := map[uint64]string{
		0x4010: "alpha",
		0x1000: "beta",
		0x2000: "gamma",
		0x3000: "delta",
	}
	for addr, name := range addrs {
		tbl.Add(addr, name)
	}

	for addr, want := range addrs {
		got, ok := tbl.Lookup(addr)
		require.True(t, ok, "address 0x%x", addr)
		assert.Equal(t, want, got)
	}
}

func TestTable_EntryPoint(t *testing.T) {
	tbl := New()

	_, err := tbl.EntryPoint()
	require.ErrorIs(t, err, ErrUnsetValue)

	require.NoError(t, tbl.SetEntryPoint(0x401020))

	addr, err := tbl.EntryPoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x401020), addr)

	err = tbl.SetEntryPoint(0x500000)
	require.ErrorIs(t, err, ErrDuplicateWrite)

	addr, err = tbl.EntryPoint()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x401020), addr, "failed write must not replace the value")
}

func TestEntryPoint_ZeroAddressIsValid(t *testing.T) {
	var e EntryPoint
	assert.False(t, e.IsSet())

	require.NoError(t, e.Set(0))
	assert.True(t, e.IsSet())

	addr, err := e.Get()
	require.NoError(t, err)
	assert.Zero(t, addr)
}
