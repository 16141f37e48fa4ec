package config

import (
	"slices"

	"github.com/coral-mesh/callgraph/internal/source"
)

const (
	// DefaultDir is the per-user configuration directory under $HOME.
	DefaultDir = ".callgraph"
	// ConfigFile is the configuration file name inside DefaultDir.
	ConfigFile = "config.yaml"
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "CALLGRAPH_CONFIG"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Pretty: true,
		},
		Tools: ToolsConfig{
			Readelf:     "readelf",
			ReadelfArgs: slices.Clone(source.DefaultReadelfArgs),
			Objdump:     "objdump",
			ObjdumpArgs: slices.Clone(source.DefaultObjdumpArgs),
		},
		Analysis: AnalysisConfig{
			Backend:   string(source.BackendTools),
			Mnemonics: slices.Clone(source.DefaultMnemonics),
		},
		Query: QueryConfig{
			Target: "die",
		},
	}
}
