package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/pj/internal/types"
)

// memStore is an in-memory Store for merge tests.
type memStore struct {
	projects []types.Project
	saves    int
}

func (m *memStore) Load(context.Context) []types.Project {
	out := make([]types.Project, len(m.projects))
	copy(out, m.projects)
	return out
}

func (m *memStore) Save(_ context.Context, projects []types.Project) {
	m.projects = append([]types.Project(nil), projects...)
	m.saves++
}

// stores returns one instance of every backend rooted in a fresh temp dir.
func stores(t *testing.T) map[string]Store {
	dir := t.TempDir()
	return map[string]Store{
		"json":   NewJSONStore(filepath.Join(dir, DefaultFileName), zerolog.Nop()),
		"sqlite": NewSQLiteStore(filepath.Join(dir, DefaultDBFileName), zerolog.Nop()),
	}
}

func sampleProjects() []types.Project {
	return []types.Project{
		{Name: "zeta", Path: "/ws/zeta", Type: types.TypeGo, Hits: 3, IDEPath: "/usr/bin/code"},
		{Name: "alpha", Path: "/ws/alpha", Type: types.TypeRust},
		{Name: "mid", Path: "/ws/nested/mid", Type: types.TypeXcode, Hits: 12},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleProjects()
			store.Save(ctx, want)
			assert.Equal(t, want, store.Load(ctx))
		})
	}
}

func TestStoreSaveReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.Save(ctx, sampleProjects())
			store.Save(ctx, sampleProjects()[:1])
			assert.Equal(t, sampleProjects()[:1], store.Load(ctx))
		})
	}
}

func TestStoreLoadEmpty(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got := store.Load(ctx)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestJSONStoreCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	store := NewJSONStore(path, zerolog.Nop())

	assert.Empty(t, store.Load(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	store := NewJSONStore(path, zerolog.Nop())

	store.Save(context.Background(), []types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeRust, Hits: 7, IDEPath: "/usr/bin/code"},
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `[
  {
    "name": "proj1",
    "path": "/ws/proj1",
    "type": "rust",
    "hits": 7,
    "idePath": "/usr/bin/code"
  }
]`
	assert.Equal(t, want, string(data))
}

func TestJSONStoreCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": `), 0644))

	store := NewJSONStore(path, zerolog.Nop())
	assert.Empty(t, store.Load(context.Background()))

	// Corrupt files are left alone for inspection.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"name": `, string(data))
}

func TestJSONStoreNullIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`null`), 0644))

	got := NewJSONStore(path, zerolog.Nop()).Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestJSONStoreDropsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"name": "ok", "path": "/ws/ok", "type": "go", "hits": 2, "idePath": ""},
  {"name": "nopath", "path": "", "type": "go", "hits": 1, "idePath": ""},
  {"name": "neg", "path": "/ws/neg", "type": "rust", "hits": -4, "idePath": ""},
  {"name": "odd", "path": "/ws/odd", "type": "cobol", "hits": 0, "idePath": ""}
]`), 0644))

	got := NewJSONStore(path, zerolog.Nop()).Load(context.Background())
	assert.Equal(t, []types.Project{
		{Name: "ok", Path: "/ws/ok", Type: types.TypeGo, Hits: 2},
	}, got)
}

func TestStoreLoadDropsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.Save(ctx, append(sampleProjects(),
				types.Project{Name: "neg", Path: "/ws/neg", Type: types.TypeGo, Hits: -1}))
			assert.Equal(t, sampleProjects(), store.Load(ctx))
		})
	}
}

func TestJSONStoreSaveFailureIsSwallowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", DefaultFileName)
	store := NewJSONStore(path, zerolog.Nop())

	assert.NotPanics(t, func() {
		store.Save(context.Background(), sampleProjects())
	})
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMergePreservesHistory(t *testing.T) {
	store := &memStore{projects: []types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeUnknown, Hits: 7, IDEPath: "/usr/bin/code"},
		{Name: "ide-only", Path: "/ws/ide-only", IDEPath: "/Applications/Xcode.app"},
	}}
	fresh := []types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeRust},
		{Name: "ide-only", Path: "/ws/ide-only", Type: types.TypeXcode},
		{Name: "brand-new", Path: "/ws/brand-new", Type: types.TypeGo},
	}

	merged := Merge(context.Background(), store, fresh)

	assert.Equal(t, []types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeRust, Hits: 7, IDEPath: "/usr/bin/code"},
		{Name: "ide-only", Path: "/ws/ide-only", Type: types.TypeXcode, IDEPath: "/Applications/Xcode.app"},
		{Name: "brand-new", Path: "/ws/brand-new", Type: types.TypeGo},
	}, merged)
	assert.Equal(t, 0, store.saves, "merge must not persist on its own")
}

func TestMergeNeverLowersHits(t *testing.T) {
	store := &memStore{projects: []types.Project{{Path: "/ws/a", Hits: 2}}}
	fresh := []types.Project{{Path: "/ws/a", Hits: 5}}

	merged := Merge(context.Background(), store, fresh)
	assert.Equal(t, 5, merged[0].Hits)
}

func TestMergeDropsVanishedPaths(t *testing.T) {
	store := &memStore{projects: []types.Project{
		{Name: "deleted", Path: "/ws/deleted", Hits: 40},
		{Name: "kept", Path: "/ws/kept", Hits: 1},
	}}
	fresh := []types.Project{{Name: "kept", Path: "/ws/kept", Type: types.TypeDart}}

	merged := Merge(context.Background(), store, fresh)
	require.Len(t, merged, 1)
	assert.Equal(t, "/ws/kept", merged[0].Path)
	assert.Equal(t, 1, merged[0].Hits)
}

func TestMergeUpdatesInPlace(t *testing.T) {
	store := &memStore{projects: []types.Project{{Path: "/ws/a", Hits: 9}}}
	fresh := []types.Project{{Path: "/ws/a"}}

	Merge(context.Background(), store, fresh)
	assert.Equal(t, 9, fresh[0].Hits)
}

func TestRecordHit(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			store.Save(ctx, sampleProjects())

			p, err := RecordHit(ctx, store, "/ws/alpha", "")
			require.NoError(t, err)
			assert.Equal(t, 1, p.Hits)
			assert.Empty(t, p.IDEPath)

			p, err = RecordHit(ctx, store, "/ws/alpha", "/usr/local/bin/nvim")
			require.NoError(t, err)
			assert.Equal(t, 2, p.Hits)
			assert.Equal(t, "/usr/local/bin/nvim", p.IDEPath)

			got := store.Load(ctx)
			require.Len(t, got, 3)
			assert.Equal(t, p, got[1])
		})
	}
}

func TestRecordHitUnknownPath(t *testing.T) {
	store := &memStore{projects: sampleProjects()}

	_, err := RecordHit(context.Background(), store, "/ws/nope", "")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Equal(t, 0, store.saves)
}

func TestEndToEndMergeScenario(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), DefaultFileName), zerolog.Nop())
	store.Save(ctx, []types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeUnknown, Hits: 7, IDEPath: "/usr/bin/code"},
	})

	fresh := []types.Project{{Name: "proj1", Path: "/ws/proj1", Type: types.TypeRust}}
	store.Save(ctx, Merge(ctx, store, fresh))

	assert.Equal(t, []types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeRust, Hits: 7, IDEPath: "/usr/bin/code"},
	}, store.Load(ctx))
}
