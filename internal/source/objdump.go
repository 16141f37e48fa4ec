package source

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// DefaultObjdumpArgs are passed to objdump before the binary path.
var DefaultObjdumpArgs = []string{"-d", "--no-show-raw-insn"}

// ObjdumpParser extracts direct control transfers from `objdump -d` output.
type ObjdumpParser struct {
	re *regexp.Regexp
}

// NewObjdumpParser builds a parser accepting the given mnemonics.
// Both `call 0x1136` and `call 401136 <helper>` target forms are accepted;
// register and memory operands never match.
func NewObjdumpParser(mnemonics []string) (*ObjdumpParser, error) {
	if len(mnemonics) == 0 {
		return nil, fmt.Errorf("no mnemonics configured")
	}
	quoted := make([]string, 0, len(mnemonics))
	for _, m := range mnemonics {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(m))
	}
	if len(quoted) == 0 {
		return nil, fmt.Errorf("no mnemonics configured")
	}
	re, err := regexp.Compile(`^\s*([0-9a-f]+):.*\b(` + strings.Join(quoted, "|") +
		`)\b\s+(?:0x)?([0-9a-f]+)(?:\s+<[^>]*>)?\s*$`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile mnemonic pattern: %w", err)
	}
	return &ObjdumpParser{re: re}, nil
}

// ParseLine parses one line of disassembly. It returns false when the line is
// not a direct control transfer.
func (p *ObjdumpParser) ParseLine(line string) (InstructionRecord, bool, error) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return InstructionRecord{}, false, nil
	}
	addr, err := strconv.ParseUint(m[1], 16, 64)
	if err != nil {
		return InstructionRecord{}, false, fmt.Errorf("invalid instruction address %q: %w", m[1], err)
	}
	target, err := strconv.ParseUint(m[3], 16, 64)
	if err != nil {
		return InstructionRecord{}, false, fmt.Errorf("invalid target address %q: %w", m[3], err)
	}
	return InstructionRecord{Address: addr, Target: target, ControlTransfer: true}, true, nil
}

// Parse parses objdump output from r.
func (p *ObjdumpParser) Parse(ctx context.Context, r io.Reader, fn InstructionFunc) error {
	return ScanLines(ctx, r, p.lineFunc(fn))
}

func (p *ObjdumpParser) lineFunc(fn InstructionFunc) func(string) error {
	return func(line string) error {
		rec, ok, err := p.ParseLine(line)
		if err != nil || !ok {
			return err
		}
		return fn(rec)
	}
}

// Objdump is an InstructionSource backed by the objdump tool or a saved
// report of its output.
type Objdump struct {
	// Path is the objdump executable. Empty means "objdump" from $PATH.
	Path string
	// Args precede Binary on the command line. Nil means DefaultObjdumpArgs.
	Args []string
	// Binary is the file to disassemble.
	Binary string
	// Report, when set, is read instead of running the tool.
	Report string
	// Mnemonics selects the instructions that produce edges. Nil means DefaultMnemonics.
	Mnemonics []string
}

// ReadInstructions implements InstructionSource.
func (o *Objdump) ReadInstructions(ctx context.Context, fn InstructionFunc) error {
	mnemonics := o.Mnemonics
	if mnemonics == nil {
		mnemonics = DefaultMnemonics
	}
	p, err := NewObjdumpParser(mnemonics)
	if err != nil {
		return err
	}

	if o.Report != "" {
		return readReport(o.Report, func(rd io.Reader) error {
			return p.Parse(ctx, rd, fn)
		})
	}

	args := o.Args
	if args == nil {
		args = DefaultObjdumpArgs
	}
	path := o.Path
	if path == "" {
		path = "objdump"
	}
	return StreamLines(ctx, path, append(append([]string{}, args...), o.Binary), p.lineFunc(fn))
}
