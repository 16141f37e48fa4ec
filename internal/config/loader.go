package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/callgraph/internal/safe"
)

// Loader reads the configuration file and applies environment overrides.
type Loader struct {
	path string
}

// NewLoader creates a loader for path. An empty path is resolved in this order:
//  1. CALLGRAPH_CONFIG environment variable.
//  2. ~/.callgraph/config.yaml.
//  3. No file (defaults plus environment), when there is no home directory.
func NewLoader(path string) *Loader {
	if path != "" {
		return &Loader{path: path}
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return &Loader{path: p}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return &Loader{path: filepath.Join(home, DefaultDir, ConfigFile)}
	}
	return &Loader{}
}

// Path returns the configuration file path, which may be empty.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the configuration. A missing file yields the defaults.
// Values in the file replace defaults; environment variables replace both.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.path != "" {
		data, err := safe.ReadFile(l.path, &safe.Options{AllowSymlinks: true})
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", l.path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", l.path, err)
			}
		}
	}

	if err := MergeFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the loader's path, creating the directory if needed.
func (l *Loader) Save(cfg *Config) error {
	if l.path == "" {
		return fmt.Errorf("no configuration path")
	}

	//nolint:gosec // G301: Directory needs standard permissions for traversal
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	//nolint:gosec // G306: config file is not sensitive
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
