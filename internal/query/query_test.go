package query

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/pj/internal/cache"
	"github.com/steveyegge/pj/internal/classify"
	"github.com/steveyegge/pj/internal/scanner"
	"github.com/steveyegge/pj/internal/types"
)

// stubScanner returns canned projects, a fresh copy per call.
type stubScanner struct {
	projects []types.Project
	err      error
	calls    int
}

func (s *stubScanner) Scan(context.Context, string) ([]types.Project, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]types.Project(nil), s.projects...), nil
}

func newTestOrchestrator(t *testing.T, sc Scanner) (*Orchestrator, *cache.JSONStore) {
	t.Helper()
	store := cache.NewJSONStore(filepath.Join(t.TempDir(), cache.DefaultFileName), zerolog.Nop())
	o, err := New(Config{
		Store:     store,
		Scanner:   sc,
		Workspace: "/ws",
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return o, store
}

func titles(items []types.ResultItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestPresent(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubScanner{})

	items := o.Present([]types.Project{
		{Name: "proj1", Path: "/ws/proj1", Type: types.TypeRust, Hits: 3},
		{Name: "ios", Path: "/ws/ios", Type: types.TypeXcode},
	})

	assert.Equal(t, []types.ResultItem{
		{Title: "proj1", Subtitle: "/ws/proj1", Arg: "/ws/proj1", Valid: true, Icon: types.Icon{Path: "assets/rust.png"}},
		{Title: "ios", Subtitle: "/ws/ios", Arg: "/ws/ios", Valid: true, Icon: types.Icon{Path: "assets/applescript.png"}},
	}, items)
}

func TestPresentEmptyIsNotNil(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubScanner{})
	assert.NotNil(t, o.Present(nil))
}

func TestFromCacheDoesNotScan(t *testing.T) {
	sc := &stubScanner{}
	o, store := newTestOrchestrator(t, sc)
	ctx := context.Background()
	store.Save(ctx, []types.Project{
		{Name: "cab", Path: "/ws/cab", Type: types.TypeUnknown, Hits: 9},
		{Name: "abacus", Path: "/ws/abacus", Type: types.TypeUnknown, Hits: 5},
		{Name: "scabbard", Path: "/ws/scabbard", Type: types.TypeUnknown, Hits: 1},
		{Name: "zzz", Path: "/ws/zzz", Type: types.TypeUnknown, Hits: 100},
	})

	items := o.FromCache(ctx, "ab")

	assert.Equal(t, []string{"abacus", "cab", "scabbard"}, titles(items))
	assert.Equal(t, 0, sc.calls)
}

func TestFreshRanksOnMergedHits(t *testing.T) {
	sc := &stubScanner{projects: []types.Project{
		{Name: "web-a", Path: "/ws/web-a", Type: types.TypeReact},
		{Name: "web-b", Path: "/ws/web-b", Type: types.TypeVue},
	}}
	o, store := newTestOrchestrator(t, sc)
	ctx := context.Background()
	store.Save(ctx, []types.Project{
		{Name: "web-b", Path: "/ws/web-b", Type: types.TypeUnknown, Hits: 4, IDEPath: "/usr/bin/code"},
	})

	items := o.Fresh(ctx, "web")

	// Pre-merge both have zero hits and would keep scan order.
	assert.Equal(t, []string{"web-b", "web-a"}, titles(items))
	assert.Equal(t, []types.Project{
		{Name: "web-a", Path: "/ws/web-a", Type: types.TypeReact},
		{Name: "web-b", Path: "/ws/web-b", Type: types.TypeVue, Hits: 4, IDEPath: "/usr/bin/code"},
	}, store.Load(ctx))
}

func TestFreshFallsBackToCacheOnScanError(t *testing.T) {
	sc := &stubScanner{err: &scanner.ScanError{Path: "/ws", Err: os.ErrPermission}}
	o, store := newTestOrchestrator(t, sc)
	ctx := context.Background()
	cached := []types.Project{{Name: "kept", Path: "/ws/kept", Type: types.TypeUnknown, Hits: 2}}
	store.Save(ctx, cached)

	items := o.Fresh(ctx, "")

	assert.Equal(t, []string{"kept"}, titles(items))
	assert.Equal(t, cached, store.Load(ctx), "a failed scan must not wipe the cache")
}

func TestRefreshWrapsScanError(t *testing.T) {
	sc := &stubScanner{err: &scanner.ScanError{Path: "/ws", Err: os.ErrNotExist}}
	o, _ := newTestOrchestrator(t, sc)

	_, err := o.Refresh(context.Background())
	require.Error(t, err)

	var scanErr *scanner.ScanError
	assert.True(t, errors.As(err, &scanErr))
}

func TestRecordHitThroughOrchestrator(t *testing.T) {
	o, store := newTestOrchestrator(t, &stubScanner{})
	ctx := context.Background()
	store.Save(ctx, []types.Project{{Name: "a", Path: "/ws/a", Type: types.TypeUnknown}})

	p, err := o.RecordHit(ctx, "/ws/a", "/usr/bin/idea")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Hits)

	_, err = o.RecordHit(ctx, "/ws/missing", "")
	assert.ErrorIs(t, err, cache.ErrProjectNotFound)
}

func TestNewValidatesConfig(t *testing.T) {
	store := cache.NewJSONStore(filepath.Join(t.TempDir(), "c.json"), zerolog.Nop())

	_, err := New(Config{Scanner: &stubScanner{}, Workspace: "/ws"})
	assert.Error(t, err)
	_, err = New(Config{Store: store, Workspace: "/ws"})
	assert.Error(t, err)
	_, err = New(Config{Store: store, Scanner: &stubScanner{}})
	assert.Error(t, err)
}

// TestEndToEnd runs the real scanner, classifier and JSON store together.
func TestEndToEnd(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "proj1", ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, "proj1", "Cargo.toml"), nil, 0644))
	proj1 := filepath.Join(ws, "proj1")

	sc, err := scanner.New(scanner.Config{
		Classifier: classify.New(zerolog.Nop()),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)

	store := cache.NewJSONStore(filepath.Join(t.TempDir(), cache.DefaultFileName), zerolog.Nop())
	ctx := context.Background()
	store.Save(ctx, []types.Project{
		{Name: "proj1", Path: proj1, Type: types.TypeUnknown, Hits: 7, IDEPath: "/usr/bin/code"},
	})

	o, err := New(Config{Store: store, Scanner: sc, Workspace: ws, Logger: zerolog.Nop()})
	require.NoError(t, err)

	items := o.Fresh(ctx, "proj")
	assert.Equal(t, []types.ResultItem{{
		Title: "proj1", Subtitle: proj1, Arg: proj1, Valid: true,
		Icon: types.Icon{Path: "assets/rust.png"},
	}}, items)

	assert.Equal(t, []types.Project{
		{Name: "proj1", Path: proj1, Type: types.TypeRust, Hits: 7, IDEPath: "/usr/bin/code"},
	}, store.Load(ctx))
	assert.Equal(t, []string{"proj1"}, titles(o.FromCache(ctx, "PROJ")))
}
