// Package source produces the symbol and instruction records a call graph is
// built from.
//
// Two backends exist. The tools backend runs readelf and objdump (or reads
// their previously captured output) and parses the text line by line. The
// native backend reads the ELF file directly and decodes x86 machine code.
// Both deliver the same records, so the rest of the pipeline does not know
// where they came from.
package source

import (
	"context"
	"errors"
	"strings"
)

// SymbolRecord is one entry of the symbol stream. When Entry is set the
// record carries the program entry address and Name is empty.
type SymbolRecord struct {
	Address uint64
	Name    string
	Entry   bool
}

// InstructionRecord is a decoded instruction with a literal target address.
type InstructionRecord struct {
	Address         uint64
	Target          uint64
	ControlTransfer bool
}

// SymbolFunc receives symbol records. Returning an error stops the stream.
type SymbolFunc func(SymbolRecord) error

// InstructionFunc receives instruction records. Returning an error stops the stream.
type InstructionFunc func(InstructionRecord) error

// SymbolSource yields an optional entry record followed by symbol records.
type SymbolSource interface {
	ReadSymbols(ctx context.Context, fn SymbolFunc) error
}

// InstructionSource yields instruction records.
type InstructionSource interface {
	ReadInstructions(ctx context.Context, fn InstructionFunc) error
}

// ErrUnsupportedMachine is returned by the native backend for non-x86 binaries.
var ErrUnsupportedMachine = errors.New("unsupported machine")

// DefaultMnemonics are the control-transfer mnemonics whose targets become edges.
var DefaultMnemonics = []string{"callq", "call", "jmpq", "jmp", "je", "jne", "jg", "jge", "jl", "jle"}

// normalizeMnemonic lowercases m and drops the AT&T operand-size suffix of
// call and jmp so that "callq" and "call" name the same operation.
func normalizeMnemonic(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	switch m {
	case "callq", "calll":
		return "call"
	case "jmpq", "jmpl":
		return "jmp"
	}
	return m
}
