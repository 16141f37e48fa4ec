package source

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestELFSymbols_TestBinary(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires an ELF test binary")
	}
	exe, err := os.Executable()
	require.NoError(t, err)

	src := &ELFSymbols{Path: exe}
	got := collectSymbols(t, func(fn SymbolFunc) error {
		return src.ReadSymbols(context.Background(), fn)
	})

	require.NotEmpty(t, got)
	assert.True(t, got[0].Entry, "entry record comes first")
	assert.NotZero(t, got[0].Address)

	names := make(map[string]bool, len(got))
	for _, r := range got[1:] {
		assert.False(t, r.Entry)
		assert.NotEmpty(t, r.Name)
		names[r.Name] = true
	}
	assert.True(t, names["runtime.main"], "Go binaries carry runtime.main")
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "tools with binary", opts: Options{Backend: BackendTools, Binary: "a.out"}},
		{name: "default backend", opts: Options{Binary: "a.out"}},
		{name: "tools with reports only", opts: Options{ReadelfReport: "r.txt", ObjdumpReport: "o.txt"}},
		{name: "tools with one report", opts: Options{ReadelfReport: "r.txt"}, wantErr: true},
		{name: "native", opts: Options{Backend: BackendNative, Binary: "a.out"}},
		{name: "native without binary", opts: Options{Backend: BackendNative}, wantErr: true},
		{name: "unknown", opts: Options{Backend: "radare", Binary: "a.out"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syms, insts, err := Open(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, syms)
			assert.NotNil(t, insts)
		})
	}
}
