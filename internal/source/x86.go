package source

import (
	"context"
	"debug/elf"
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// X86Decoder is an InstructionSource that disassembles the executable
// sections of an x86 or x86-64 ELF file with a linear sweep.
type X86Decoder struct {
	Path string
	// Mnemonics selects the instructions that produce records. Nil means DefaultMnemonics.
	Mnemonics []string
}

// ReadInstructions implements InstructionSource. Only instructions with a
// relative (literal) target are reported; register and memory operands are
// indirect and cannot be resolved statically.
func (d *X86Decoder) ReadInstructions(ctx context.Context, fn InstructionFunc) error {
	f, err := elf.Open(d.Path)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close() // nolint:errcheck

	var mode int
	switch f.Machine {
	case elf.EM_X86_64:
		mode = 64
	case elf.EM_386:
		mode = 32
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMachine, f.Machine)
	}

	mnemonics := d.Mnemonics
	if mnemonics == nil {
		mnemonics = DefaultMnemonics
	}
	wanted := make(map[string]bool, len(mnemonics))
	for _, m := range mnemonics {
		wanted[normalizeMnemonic(m)] = true
	}

	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_PROGBITS || sec.Flags&elf.SHF_EXECINSTR == 0 {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			return fmt.Errorf("failed to read section %s: %w", sec.Name, err)
		}
		if err := decodeSection(ctx, sec.Addr, data, mode, wanted, fn); err != nil {
			return err
		}
	}
	return nil
}

// decodeSection decodes data as code loaded at base. Undecodable bytes are
// skipped one at a time.
func decodeSection(ctx context.Context, base uint64, data []byte, mode int, wanted map[string]bool, fn InstructionFunc) error {
	var n int
	for off := 0; off < len(data); {
		n++
		if n%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		inst, err := x86asm.Decode(data[off:], mode)
		if err != nil || inst.Len == 0 {
			off++
			continue
		}
		pc := base + uint64(off)
		off += inst.Len

		if !wanted[strings.ToLower(inst.Op.String())] {
			continue
		}
		rel, ok := inst.Args[0].(x86asm.Rel)
		if !ok {
			continue
		}
		// Relative targets are measured from the end of the instruction.
		target := pc + uint64(inst.Len) + uint64(int64(rel))
		if err := fn(InstructionRecord{Address: pc, Target: target, ControlTransfer: true}); err != nil {
			return err
		}
	}
	return nil
}
