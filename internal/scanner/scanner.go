// Package scanner walks a workspace and finds version-controlled project
// roots.
//
// A directory is a project root when one of its immediate children is named
// ".git". The walk never descends below a project root, so nested repositories
// (submodules, vendored checkouts) are reported as part of their parent.
// Directories without a marker are searched recursively, and results keep the
// depth-first, left-to-right order of the sequential walk even when sibling
// subtrees are scanned in parallel.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/steveyegge/pj/internal/types"
)

// VCSMarker is the entry that marks a directory as a project root.
const VCSMarker = ".git"

// DefaultConcurrency bounds how many sibling subtrees are scanned at once.
const DefaultConcurrency = 8

// Classifier labels a project root from its immediate children.
type Classifier interface {
	Classify(children []types.ChildInfo) types.TypeLabel
}

// ScanError reports a directory that could not be listed.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to read directory %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Config configures a Scanner.
type Config struct {
	Classifier Classifier
	Logger     zerolog.Logger

	// Concurrency is the maximum number of sibling subtrees scanned in
	// parallel. 1 scans strictly sequentially. Zero means DefaultConcurrency.
	Concurrency int

	// Exclude lists directory patterns that are never descended into.
	Exclude []string
}

// Scanner finds project roots below a directory.
type Scanner struct {
	classifier  Classifier
	logger      zerolog.Logger
	concurrency int
	exclude     []string

	// readDir is swapped in tests to simulate unreadable directories.
	readDir func(name string) ([]os.DirEntry, error)
}

// New creates a Scanner.
func New(cfg Config) (*Scanner, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency cannot be negative (got %d)", cfg.Concurrency)
	}
	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}

	return &Scanner{
		classifier:  cfg.Classifier,
		logger:      cfg.Logger,
		concurrency: concurrency,
		exclude:     cfg.Exclude,
		readDir:     os.ReadDir,
	}, nil
}

// Scan returns every project root under rootDir.
//
// An unreadable rootDir is reported as a *ScanError. Unreadable directories
// further down are logged and skipped so one permission problem does not hide
// every other project.
func (s *Scanner) Scan(ctx context.Context, rootDir string) ([]types.Project, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace path %q: %w", rootDir, err)
	}

	children, err := s.list(root)
	if err != nil {
		return nil, err
	}

	// Budget for extra goroutines; the calling goroutine always does work
	// too, so a limit of 1 means no parallelism at all.
	sem := semaphore.NewWeighted(int64(s.concurrency - 1))

	projects, err := s.walk(ctx, root, root, children, sem)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("root", root).Int("projects", len(projects)).Msg("Scan complete")
	return projects, nil
}

func (s *Scanner) walk(ctx context.Context, root, dir string, children []types.ChildInfo, sem *semaphore.Weighted) ([]types.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if isProjectRoot(children) {
		return []types.Project{{
			Name: filepath.Base(dir),
			Path: dir,
			Type: s.classifier.Classify(children),
		}}, nil
	}

	var subdirs []string
	for _, child := range children {
		if !child.IsDir {
			continue
		}
		if rel, err := filepath.Rel(root, child.Path); err == nil && shouldExclude(rel, s.exclude) {
			s.logger.Debug().Str("path", child.Path).Msg("Skipping excluded directory")
			continue
		}
		subdirs = append(subdirs, child.Path)
	}
	if len(subdirs) == 0 {
		return nil, nil
	}

	// Each subtree writes only its own slot, so concatenating the slots in
	// order reproduces the sequential depth-first result.
	results := make([][]types.Project, len(subdirs))
	g, gctx := errgroup.WithContext(ctx)

	for i, sub := range subdirs {
		task := func() error {
			found, err := s.walkDir(gctx, root, sub, sem)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		}

		if sem.TryAcquire(1) {
			g.Go(func() error {
				defer sem.Release(1)
				return task()
			})
			continue
		}
		if err := task(); err != nil {
			_ = g.Wait()
			return nil, err
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var projects []types.Project
	for _, found := range results {
		projects = append(projects, found...)
	}
	return projects, nil
}

func (s *Scanner) walkDir(ctx context.Context, root, dir string, sem *semaphore.Weighted) ([]types.Project, error) {
	children, err := s.list(dir)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", dir).Msg("Skipping unreadable directory")
		return nil, nil
	}
	return s.walk(ctx, root, dir, children, sem)
}

func (s *Scanner) list(dir string) ([]types.ChildInfo, error) {
	entries, err := s.readDir(dir)
	if err != nil {
		return nil, &ScanError{Path: dir, Err: err}
	}

	children := make([]types.ChildInfo, 0, len(entries))
	for _, entry := range entries {
		children = append(children, types.ChildInfo{
			Name:  entry.Name(),
			IsDir: entry.IsDir(),
			Path:  filepath.Join(dir, entry.Name()),
		})
	}
	return children, nil
}

func isProjectRoot(children []types.ChildInfo) bool {
	for _, child := range children {
		if child.Name == VCSMarker {
			return true
		}
	}
	return false
}
