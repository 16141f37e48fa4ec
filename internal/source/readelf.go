package source

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// DefaultReadelfArgs are passed to readelf before the binary path.
var DefaultReadelfArgs = []string{"--headers", "--symbols", "--wide"}

var (
	readelfEntry = regexp.MustCompile(`Entry point address:\s*0x([0-9a-fA-F]+)`)
	// Num: Value Size Type Bind Vis Ndx Name, with a numeric Ndx so that
	// UND and ABS symbols are skipped.
	readelfSymbol = regexp.MustCompile(`^\s*\d+:\s*([0-9a-fA-F]+)\s+(?:0x[0-9a-fA-F]+|\d+)\s+\S+\s+\S+\s+\S+\s+\d+\s+(.*)$`)
)

// ReadelfParser turns `readelf --headers --symbols` output into symbol records.
// It is stateful: symbol lines are only accepted inside the .symtab block.
type ReadelfParser struct {
	inSymTab bool
}

// ParseLine parses one line of output. It returns false when the line
// carries no record.
func (p *ReadelfParser) ParseLine(line string) (SymbolRecord, bool, error) {
	if m := readelfEntry.FindStringSubmatch(line); m != nil {
		addr, err := strconv.ParseUint(m[1], 16, 64)
		if err != nil {
			return SymbolRecord{}, false, fmt.Errorf("invalid entry point address %q: %w", m[1], err)
		}
		return SymbolRecord{Address: addr, Entry: true}, true, nil
	}

	// Block headers start at column zero with an upper-case letter.
	if line != "" && line[0] >= 'A' && line[0] <= 'Z' {
		p.inSymTab = strings.Contains(line, ".symtab")
		return SymbolRecord{}, false, nil
	}

	if !p.inSymTab {
		return SymbolRecord{}, false, nil
	}

	m := readelfSymbol.FindStringSubmatch(line)
	if m == nil {
		return SymbolRecord{}, false, nil
	}
	name := strings.TrimSpace(m[2])
	if name == "" {
		return SymbolRecord{}, false, nil
	}
	addr, err := strconv.ParseUint(m[1], 16, 64)
	if err != nil {
		return SymbolRecord{}, false, fmt.Errorf("invalid symbol address %q: %w", m[1], err)
	}
	return SymbolRecord{Address: addr, Name: name}, true, nil
}

// ParseReadelf parses readelf output from r.
func ParseReadelf(ctx context.Context, r io.Reader, fn SymbolFunc) error {
	var p ReadelfParser
	return ScanLines(ctx, r, func(line string) error {
		rec, ok, err := p.ParseLine(line)
		if err != nil || !ok {
			return err
		}
		return fn(rec)
	})
}

// Readelf is a SymbolSource backed by the readelf tool or a saved report of
// its output.
type Readelf struct {
	// Path is the readelf executable. Empty means "readelf" from $PATH.
	Path string
	// Args precede Binary on the command line. Nil means DefaultReadelfArgs.
	Args []string
	// Binary is the ELF file to inspect.
	Binary string
	// Report, when set, is read instead of running the tool.
	Report string
}

// ReadSymbols implements SymbolSource.
func (r *Readelf) ReadSymbols(ctx context.Context, fn SymbolFunc) error {
	if r.Report != "" {
		return readReport(r.Report, func(rd io.Reader) error {
			return ParseReadelf(ctx, rd, fn)
		})
	}

	args := r.Args
	if args == nil {
		args = DefaultReadelfArgs
	}
	path := r.Path
	if path == "" {
		path = "readelf"
	}
	var p ReadelfParser
	return StreamLines(ctx, path, append(append([]string{}, args...), r.Binary), func(line string) error {
		rec, ok, err := p.ParseLine(line)
		if err != nil || !ok {
			return err
		}
		return fn(rec)
	})
}
