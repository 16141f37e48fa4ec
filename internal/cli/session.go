package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/callgraph/internal/analysis"
	"github.com/coral-mesh/callgraph/internal/cli/helpers"
	"github.com/coral-mesh/callgraph/internal/config"
	"github.com/coral-mesh/callgraph/internal/logging"
	"github.com/coral-mesh/callgraph/internal/source"
	"github.com/coral-mesh/callgraph/internal/symtab"
)

// session holds the configuration and logger of one command invocation.
type session struct {
	cfg    *config.Config
	logger zerolog.Logger
	opts   source.Options
}

func newSession(cmd *cobra.Command, flags *helpers.AnalysisFlags, binary string) (*session, error) {
	cfg, err := config.NewLoader(flags.ConfigPath).Load()
	if err != nil {
		return nil, err
	}

	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.Backend != "" {
		cfg.Analysis.Backend = flags.Backend
	}
	if len(flags.Mnemonics) > 0 {
		cfg.Analysis.Mnemonics = flags.Mnemonics
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty && helpers.IsTerminal(stderr),
		Output: stderr,
	})

	opts := cfg.SourceOptions(binary)
	opts.ReadelfReport = flags.ReadelfReport
	opts.ObjdumpReport = flags.ObjdumpReport

	if opts.Backend == source.BackendNative && (opts.ReadelfReport != "" || opts.ObjdumpReport != "") {
		logger.Warn().Msg("Report files are ignored by the native backend")
	}
	if binary != "" && opts.Backend == source.BackendNative {
		if _, err := os.Stat(binary); err != nil {
			return nil, fmt.Errorf("cannot read binary: %w", err)
		}
	}

	return &session{cfg: cfg, logger: logger, opts: opts}, nil
}

// build runs both construction phases.
func (s *session) build(cmd *cobra.Command) (*analysis.Result, error) {
	syms, insts, err := source.Open(s.opts)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("binary", s.opts.Binary).
		Str("backend", string(s.opts.Backend)).
		Msg("Building call graph")

	res, err := analysis.Build(cmd.Context(), s.logger, syms, insts)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("symbols", res.Stats.Symbols).
		Int("edges", res.Stats.Edges).
		Int("unresolved", res.Stats.Unresolved).
		Msg("Call graph built")
	return res, nil
}

// symbols runs only the symbol phase.
func (s *session) symbols(cmd *cobra.Command) (*symtab.Table, error) {
	syms, _, err := source.Open(s.opts)
	if err != nil {
		return nil, err
	}
	return analysis.LoadSymbols(cmd.Context(), syms)
}

// resolveRoot picks the query root: an explicit name, the configured
// default, or the function containing the entry point.
func (s *session) resolveRoot(res *analysis.Result, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s.cfg.Query.Root != "" {
		return s.cfg.Query.Root, nil
	}

	name, ok, err := res.EntryFunction()
	if err != nil {
		return "", fmt.Errorf("no root given and %w", err)
	}
	if !ok {
		entry, _ := res.Symbols.EntryPoint()
		return "", fmt.Errorf("no root given and entry point 0x%x is not inside any symbol", entry)
	}
	s.logger.Debug().Str("root", name).Msg("Using entry function as root")
	return name, nil
}
