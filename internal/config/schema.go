// Package config loads callgraph settings from a YAML file and the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/coral-mesh/callgraph/internal/source"
)

// Config is the full tool configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Tools    ToolsConfig    `yaml:"tools"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Query    QueryConfig    `yaml:"query"`
}

// LogConfig controls diagnostics written to stderr.
type LogConfig struct {
	Level  string `yaml:"level" env:"CALLGRAPH_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"CALLGRAPH_LOG_PRETTY"`
}

// ToolsConfig locates the external symbol dumper and disassembler.
type ToolsConfig struct {
	Readelf     string   `yaml:"readelf" env:"CALLGRAPH_READELF"`
	ReadelfArgs []string `yaml:"readelf_args,omitempty"`
	Objdump     string   `yaml:"objdump" env:"CALLGRAPH_OBJDUMP"`
	ObjdumpArgs []string `yaml:"objdump_args,omitempty"`
}

// AnalysisConfig selects how records are produced.
type AnalysisConfig struct {
	// Backend is "tools" or "native".
	Backend string `yaml:"backend" env:"CALLGRAPH_BACKEND"`
	// Mnemonics are the control-transfer instructions that produce edges.
	Mnemonics []string `yaml:"mnemonics" env:"CALLGRAPH_MNEMONICS"`
}

// QueryConfig holds query defaults. An empty Root means the function
// containing the entry point.
type QueryConfig struct {
	Root   string `yaml:"root" env:"CALLGRAPH_ROOT"`
	Target string `yaml:"target" env:"CALLGRAPH_TARGET"`
}

// Validate checks the configuration for values no command can work with.
func (c *Config) Validate() error {
	switch source.Backend(c.Analysis.Backend) {
	case source.BackendTools, source.BackendNative:
	default:
		return fmt.Errorf("invalid backend %q: must be %q or %q",
			c.Analysis.Backend, source.BackendTools, source.BackendNative)
	}

	var mnemonics int
	for _, m := range c.Analysis.Mnemonics {
		if strings.TrimSpace(m) != "" {
			mnemonics++
		}
	}
	if mnemonics == 0 {
		return fmt.Errorf("analysis.mnemonics must not be empty")
	}

	if source.Backend(c.Analysis.Backend) == source.BackendTools {
		if c.Tools.Readelf == "" || c.Tools.Objdump == "" {
			return fmt.Errorf("tools.readelf and tools.objdump must be set for the tools backend")
		}
	}
	return nil
}

// SourceOptions converts the configuration into source options for binary.
func (c *Config) SourceOptions(binary string) source.Options {
	return source.Options{
		Backend:     source.Backend(c.Analysis.Backend),
		Binary:      binary,
		ReadelfPath: c.Tools.Readelf,
		ReadelfArgs: c.Tools.ReadelfArgs,
		ObjdumpPath: c.Tools.Objdump,
		ObjdumpArgs: c.Tools.ObjdumpArgs,
		Mnemonics:   c.Analysis.Mnemonics,
	}
}
