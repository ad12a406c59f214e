package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/steveyegge/pj/internal/types"
)

// DefaultFileName is the cache file created in the working directory.
const DefaultFileName = ".cache.json"

// JSONStore keeps the snapshot as a pretty-printed JSON array in one file.
type JSONStore struct {
	path   string
	logger zerolog.Logger
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string, logger zerolog.Logger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

// Load reads the snapshot. A missing file is (re)created empty.
func (s *JSONStore) Load(ctx context.Context) []types.Project {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.Save(ctx, []types.Project{})
		return []types.Project{}
	}
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to read cache")
		return []types.Project{}
	}

	var projects []types.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to parse cache")
		return []types.Project{}
	}
	if projects == nil {
		return []types.Project{}
	}
	return dropInvalid(projects, s.logger, s.path)
}

// Save overwrites the file with the given snapshot.
func (s *JSONStore) Save(_ context.Context, projects []types.Project) {
	if projects == nil {
		projects = []types.Project{}
	}
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode cache")
		return
	}
	if err := os.WriteFile(s.path, data, 0666); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to write cache")
	}
}
