package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/steveyegge/pj/internal/cache"
	"github.com/steveyegge/pj/internal/classify"
	"github.com/steveyegge/pj/internal/config"
	"github.com/steveyegge/pj/internal/logging"
	"github.com/steveyegge/pj/internal/query"
	"github.com/steveyegge/pj/internal/scanner"
)

var (
	// Flags
	configPath    string
	workspaceFlag string
	cachePathFlag string
	backendFlag   string
	verbose       bool

	// Set up by setup()
	cfg    config.Config
	logger = zerolog.Nop()
	orch   *query.Orchestrator
)

var rootCmd = &cobra.Command{
	Use:   "pj",
	Short: "Find, rank and launch local projects",
	Long: `pj indexes the version-controlled projects under your workspace and
serves them, ranked by name match and usage, to a launcher.

Examples:
  # Rank cached projects matching "api" (launcher JSON)
  pj query api

  # Rescan the workspace, then rank
  pj refresh api

  # Record that a project was opened with an editor
  pj hit ~/Documents/api --ide /usr/local/bin/code

  # Search interactively
  pj interactive`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./pj.yaml if present)")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Directory to scan (overrides $workspace)")
	rootCmd.PersistentFlags().StringVar(&cachePathFlag, "cache", "", "Cache file location")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Cache backend: json or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration and wires the pipeline.
func setup() error {
	logger = logging.New(os.Stderr, verbose)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	opts := config.LoadOptions{Cwd: cwd, Home: home, ConfigPath: configPath}
	loaded, err := config.Load(opts)
	if err != nil {
		return err
	}
	if workspaceFlag != "" {
		loaded.Workspace = workspaceFlag
	}
	if cachePathFlag != "" {
		loaded.CachePath = cachePathFlag
	}
	if backendFlag != "" {
		loaded.CacheBackend = backendFlag
	}
	if cfg, err = config.Finalize(opts, loaded); err != nil {
		return err
	}
	logger.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	sc, err := scanner.New(scanner.Config{
		Classifier:  classify.New(logger),
		Logger:      logger,
		Concurrency: cfg.ScanConcurrency,
		Exclude:     cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	orch, err = query.New(query.Config{
		Store:     newStore(cfg, logger),
		Scanner:   sc,
		Workspace: cfg.Workspace,
		IconDir:   cfg.IconDir,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create query orchestrator: %w", err)
	}
	return nil
}

// mustSetup is setup for operator-facing commands.
func mustSetup() {
	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newStore(c config.Config, log zerolog.Logger) cache.Store {
	if c.CacheBackend == config.BackendSQLite {
		return cache.NewSQLiteStore(c.CachePath, log)
	}
	return cache.NewJSONStore(c.CachePath, log)
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
