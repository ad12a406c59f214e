package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/pj/internal/cache"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "pj.yaml"

// LoadOptions locates the inputs of Load.
type LoadOptions struct {
	// Cwd is the working directory; relative paths resolve against it.
	Cwd string

	// Home is the user's home directory.
	Home string

	// ConfigPath is an explicit config file. When empty, pj.yaml in Cwd is
	// used if it exists.
	ConfigPath string
}

// Load builds the effective configuration.
//
// Precedence, lowest first: defaults, .env in Cwd, the YAML config file,
// environment variables. Command-line flags are applied by the caller.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig(opts.Cwd, opts.Home)

	if err := loadDotEnv(filepath.Join(opts.Cwd, ".env")); err != nil {
		return cfg, err
	}

	configPath := opts.ConfigPath
	required := configPath != ""
	if !required {
		configPath = filepath.Join(opts.Cwd, DefaultFileName)
	}
	if err := LoadConfigFile(resolve(opts, configPath), required, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	return Finalize(opts, cfg)
}

// Finalize resolves paths and validates. Call it again after applying
// command-line overrides.
func Finalize(opts LoadOptions, cfg Config) (Config, error) {
	// The json default is meaningless for the sqlite backend.
	if cfg.CacheBackend == BackendSQLite && cfg.CachePath == filepath.Join(opts.Cwd, cache.DefaultFileName) {
		cfg.CachePath = filepath.Join(opts.Cwd, cache.DefaultDBFileName)
	}
	cfg.Workspace = resolve(opts, cfg.Workspace)
	cfg.CachePath = resolve(opts, cfg.CachePath)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys absent from the
// file leave cfg untouched. A missing file is an error only when required.
func LoadConfigFile(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// resolve expands a leading ~ and makes p absolute relative to Cwd.
func resolve(opts LoadOptions, p string) string {
	if p == "~" {
		return opts.Home
	}
	if strings.HasPrefix(p, "~/") {
		p = filepath.Join(opts.Home, p[2:])
	}
	if p != "" && !filepath.IsAbs(p) {
		p = filepath.Join(opts.Cwd, p)
	}
	return p
}
