// Package cache persists the project list between invocations.
//
// A snapshot is always written in full; there is no append log and no
// versioning. Stores fail soft: read and write problems are logged and the
// caller carries on with an empty (or unsaved) list, so a corrupt cache costs
// usage history but never breaks a query.
//
// Stores are not locked. Two pj processes writing the same cache race and the
// last writer wins.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/steveyegge/pj/internal/types"
)

// ErrProjectNotFound is returned when a path is not in the cached snapshot.
var ErrProjectNotFound = errors.New("project not found in cache")

// Store loads and saves project snapshots.
type Store interface {
	// Load returns the cached snapshot, or an empty list if it cannot be read.
	Load(ctx context.Context) []types.Project

	// Save replaces the cached snapshot.
	Save(ctx context.Context, projects []types.Project)
}

// Merge carries usage history from the stored snapshot over to a fresh scan.
//
// For every fresh project whose path was cached with hits or an editor path,
// hits becomes the larger of the two counts and idePath is copied from the
// cache. Projects the cache never saw keep hits=0 and an empty idePath. Cached
// paths missing from the fresh scan are dropped. fresh is updated in place and
// returned.
func Merge(ctx context.Context, store Store, fresh []types.Project) []types.Project {
	prior := make(map[string]types.Project)
	for _, p := range store.Load(ctx) {
		if p.HasHistory() {
			prior[p.Path] = p
		}
	}

	for i := range fresh {
		old, ok := prior[fresh[i].Path]
		if !ok {
			fresh[i].IDEPath = ""
			continue
		}
		fresh[i].Hits = max(fresh[i].Hits, old.Hits)
		fresh[i].IDEPath = old.IDEPath
	}
	return fresh
}

// RecordHit increments the hit count of the cached project at path and, if
// idePath is non-empty, remembers it as the project's editor.
func RecordHit(ctx context.Context, store Store, path, idePath string) (types.Project, error) {
	projects := store.Load(ctx)
	for i := range projects {
		if projects[i].Path != path {
			continue
		}
		projects[i].Hits++
		if idePath != "" {
			projects[i].IDEPath = idePath
		}
		store.Save(ctx, projects)
		return projects[i], nil
	}
	return types.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, path)
}

// dropInvalid removes records that fail validation, such as hand-edited
// entries with an empty path or negative hits.
func dropInvalid(projects []types.Project, logger zerolog.Logger, source string) []types.Project {
	kept := projects[:0]
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			logger.Warn().Err(err).Str("path", source).Str("project", p.Path).Msg("Dropping invalid cache record")
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
