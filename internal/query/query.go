// Package query answers launcher requests by composing the scanner, the cache
// and the ranker.
package query

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/steveyegge/pj/internal/cache"
	"github.com/steveyegge/pj/internal/rank"
	"github.com/steveyegge/pj/internal/types"
)

// Scanner discovers projects below a workspace root.
type Scanner interface {
	Scan(ctx context.Context, rootDir string) ([]types.Project, error)
}

// Config holds the orchestrator's collaborators
type Config struct {
	Store     cache.Store
	Scanner   Scanner
	Workspace string
	IconDir   string
	Logger    zerolog.Logger
}

// Orchestrator serves cached and fresh queries.
type Orchestrator struct {
	store     cache.Store
	scanner   Scanner
	workspace string
	iconDir   string
	logger    zerolog.Logger
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Scanner == nil {
		return nil, fmt.Errorf("scanner is required")
	}
	if cfg.Workspace == "" {
		return nil, fmt.Errorf("workspace is required")
	}
	iconDir := cfg.IconDir
	if iconDir == "" {
		iconDir = "assets"
	}

	return &Orchestrator{
		store:     cfg.Store,
		scanner:   cfg.Scanner,
		workspace: cfg.Workspace,
		iconDir:   iconDir,
		logger:    cfg.Logger,
	}, nil
}

// FromCache ranks the cached projects without touching the workspace.
func (o *Orchestrator) FromCache(ctx context.Context, keyword string) []types.ResultItem {
	return o.Present(o.Projects(ctx, keyword))
}

// Projects returns the cached projects matching keyword, best first.
func (o *Orchestrator) Projects(ctx context.Context, keyword string) []types.Project {
	return rank.Filter(o.store.Load(ctx), keyword)
}

// Fresh rescans the workspace, merges usage history into the result, saves
// it as the new cache and ranks it.
//
// If the workspace cannot be scanned the cached projects are served instead.
func (o *Orchestrator) Fresh(ctx context.Context, keyword string) []types.ResultItem {
	projects, err := o.Refresh(ctx)
	if err != nil {
		o.logger.Error().Err(err).Str("workspace", o.workspace).Msg("Scan failed, serving cached projects")
		return o.FromCache(ctx, keyword)
	}
	return o.Present(rank.Filter(projects, keyword))
}

// Refresh rescans the workspace and replaces the cache with the merged
// result, which it returns.
func (o *Orchestrator) Refresh(ctx context.Context) ([]types.Project, error) {
	scanned, err := o.scanner.Scan(ctx, o.workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}

	// Ranking must see the merged hits, so the same slice is saved and returned.
	merged := cache.Merge(ctx, o.store, scanned)
	o.store.Save(ctx, merged)

	o.logger.Debug().Int("projects", len(merged)).Str("workspace", o.workspace).Msg("Cache refreshed")
	return merged, nil
}

// RecordHit counts a selection of the project at path.
func (o *Orchestrator) RecordHit(ctx context.Context, projectPath, idePath string) (types.Project, error) {
	return cache.RecordHit(ctx, o.store, projectPath, idePath)
}

// Present maps projects to launcher items.
func (o *Orchestrator) Present(projects []types.Project) []types.ResultItem {
	items := make([]types.ResultItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, types.ResultItem{
			Title:    p.Name,
			Subtitle: p.Path,
			Arg:      p.Path,
			Valid:    true,
			Icon:     types.Icon{Path: path.Join(o.iconDir, string(p.Type)+".png")},
		})
	}
	return items
}
