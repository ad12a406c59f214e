package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/steveyegge/pj/internal/cache"
	"github.com/steveyegge/pj/internal/scanner"
)

// Cache backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds the settings for one pj invocation
type Config struct {
	// Workspace is the directory scanned for projects
	// Default: $HOME/Documents
	Workspace string `yaml:"workspace"`

	// CachePath is the cache file location
	// Default: .cache.json (or .cache.db for sqlite) in the working directory
	CachePath string `yaml:"cache_path"`

	// CacheBackend selects the cache format
	// Options: "json" or "sqlite"
	// Default: "json"
	CacheBackend string `yaml:"cache_backend"`

	// IconDir is the directory holding <type>.png icons for the launcher
	// Default: "assets"
	IconDir string `yaml:"icon_dir"`

	// ScanConcurrency is how many sibling directories are scanned at once
	// Default: 8, Range: 1-64
	ScanConcurrency int `yaml:"scan_concurrency"`

	// Exclude lists directory patterns the scanner never descends into
	// Default: none, every directory is searched
	Exclude []string `yaml:"exclude"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
// cwd and home anchor the cache file and the default workspace.
func DefaultConfig(cwd, home string) Config {
	return Config{
		Workspace:       filepath.Join(home, "Documents"),
		CachePath:       filepath.Join(cwd, cache.DefaultFileName),
		CacheBackend:    BackendJSON,
		IconDir:         "assets",
		ScanConcurrency: scanner.DefaultConcurrency,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if strings.TrimSpace(c.Workspace) == "" {
		return fmt.Errorf("workspace is required")
	}
	if strings.TrimSpace(c.CachePath) == "" {
		return fmt.Errorf("cache_path is required")
	}
	if c.CacheBackend != BackendJSON && c.CacheBackend != BackendSQLite {
		return fmt.Errorf("cache_backend must be '%s' or '%s' (got %q)",
			BackendJSON, BackendSQLite, c.CacheBackend)
	}
	if c.ScanConcurrency < 1 || c.ScanConcurrency > 64 {
		return fmt.Errorf("scan_concurrency must be between 1 and 64 (got %d)", c.ScanConcurrency)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workspace: %s, CachePath: %s, Backend: %s, IconDir: %s, "+
			"ScanConcurrency: %d, Exclude: %v}",
		c.Workspace, c.CachePath, c.CacheBackend, c.IconDir,
		c.ScanConcurrency, c.Exclude,
	)
}

// ApplyEnv overrides fields from environment variables.
//
// Environment variables:
//   - workspace: Directory to scan (default: $HOME/Documents)
//   - PJ_CACHE_PATH: Cache file location
//   - PJ_CACHE_BACKEND: json or sqlite (default: json)
//   - PJ_ICON_DIR: Icon directory (default: assets)
//   - PJ_SCAN_CONCURRENCY: Parallel sibling scans (default: 8)
//   - PJ_EXCLUDE: Comma-separated exclude patterns (default: none)
//
// Returns an error if any environment variable has an invalid value.
func (c *Config) ApplyEnv() error {
	if err := parseEnvString("workspace", &c.Workspace); err != nil {
		return err
	}
	if err := parseEnvString("PJ_CACHE_PATH", &c.CachePath); err != nil {
		return err
	}
	if err := parseEnvString("PJ_CACHE_BACKEND", &c.CacheBackend); err != nil {
		return err
	}
	if err := parseEnvString("PJ_ICON_DIR", &c.IconDir); err != nil {
		return err
	}
	if err := parseEnvInt("PJ_SCAN_CONCURRENCY", &c.ScanConcurrency); err != nil {
		return err
	}
	return parseEnvList("PJ_EXCLUDE", &c.Exclude)
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvString parses a string from an environment variable
func parseEnvString(key string, dest *string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	*dest = value
	return nil
}

// parseEnvList parses a comma-separated list from an environment variable
func parseEnvList(key string, dest *[]string) error {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil // Use default
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*dest = items
	return nil
}
