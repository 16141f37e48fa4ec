package source

import "fmt"

// Backend selects how records are produced.
type Backend string

const (
	// BackendTools runs readelf and objdump, or reads their saved output.
	BackendTools Backend = "tools"
	// BackendNative reads the ELF file and decodes x86 code in process.
	BackendNative Backend = "native"
)

// Options configures Open.
type Options struct {
	Backend Backend
	Binary  string

	ReadelfPath   string
	ReadelfArgs   []string
	ReadelfReport string

	ObjdumpPath   string
	ObjdumpArgs   []string
	ObjdumpReport string

	Mnemonics []string
}

// Open returns the symbol and instruction sources for opts.
func Open(opts Options) (SymbolSource, InstructionSource, error) {
	switch opts.Backend {
	case BackendTools, "":
		if opts.Binary == "" && (opts.ReadelfReport == "" || opts.ObjdumpReport == "") {
			return nil, nil, fmt.Errorf("a binary is required unless both reports are given")
		}
		return &Readelf{
				Path:   opts.ReadelfPath,
				Args:   opts.ReadelfArgs,
				Binary: opts.Binary,
				Report: opts.ReadelfReport,
			}, &Objdump{
				Path:      opts.ObjdumpPath,
				Args:      opts.ObjdumpArgs,
				Binary:    opts.Binary,
				Report:    opts.ObjdumpReport,
				Mnemonics: opts.Mnemonics,
			}, nil
	case BackendNative:
		if opts.Binary == "" {
			return nil, nil, fmt.Errorf("the native backend requires a binary")
		}
		return &ELFSymbols{Path: opts.Binary},
			&X86Decoder{Path: opts.Binary, Mnemonics: opts.Mnemonics}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
