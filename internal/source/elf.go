package source

import (
	"context"
	"debug/elf"
	"errors"
	"fmt"
)

// ELFSymbols is a SymbolSource that reads the entry point and the .symtab
// section of an ELF file directly.
type ELFSymbols struct {
	Path string
}

// ReadSymbols implements SymbolSource. Undefined, absolute and common
// symbols are skipped, as are symbols without a name.
func (s *ELFSymbols) ReadSymbols(ctx context.Context, fn SymbolFunc) error {
	f, err := elf.Open(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close() // nolint:errcheck

	if err := fn(SymbolRecord{Address: f.Entry, Entry: true}); err != nil {
		return err
	}

	symbols, err := f.Symbols()
	if err != nil {
		if errors.Is(err, elf.ErrNoSymbols) {
			// Stripped binary: the entry point is all there is.
			return nil
		}
		return fmt.Errorf("failed to read symbol table: %w", err)
	}

	for i, sym := range symbols {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if sym.Name == "" || sym.Section == elf.SHN_UNDEF || sym.Section >= elf.SHN_LORESERVE {
			continue
		}
		if err := fn(SymbolRecord{Address: sym.Value, Name: sym.Name}); err != nil {
			return err
		}
	}
	return nil
}
