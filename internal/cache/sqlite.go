package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rs/zerolog"

	"github.com/steveyegge/pj/internal/types"
)

// DefaultDBFileName is the cache database created in the working directory
// when the sqlite backend is selected.
const DefaultDBFileName = ".cache.db"

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	position INTEGER NOT NULL,
	path     TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	type     TEXT NOT NULL,
	hits     INTEGER NOT NULL DEFAULT 0,
	ide_path TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore keeps the snapshot in a single-table SQLite database.
// Row order is preserved through the position column.
type SQLiteStore struct {
	path   string
	logger zerolog.Logger
}

// NewSQLiteStore creates a store backed by the database file at path.
// The file and schema are created on first use.
func NewSQLiteStore(path string, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{path: path, logger: logger}
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Load reads the snapshot in saved order.
func (s *SQLiteStore) Load(ctx context.Context) []types.Project {
	projects, err := s.load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to read cache")
		return []types.Project{}
	}
	return dropInvalid(projects, s.logger, s.path)
}

func (s *SQLiteStore) load(ctx context.Context) ([]types.Project, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT name, path, type, hits, ide_path FROM projects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []types.Project{}
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.Name, &p.Path, &p.Type, &p.Hits, &p.IDEPath); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// Save replaces the table contents in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, projects []types.Project) {
	if err := s.save(ctx, projects); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to write cache")
	}
}

func (s *SQLiteStore) save(ctx context.Context, projects []types.Project) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO projects (position, path, name, type, hits, ide_path) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range projects {
		if _, err := stmt.ExecContext(ctx, i, p.Path, p.Name, string(p.Type), p.Hits, p.IDEPath); err != nil {
			return fmt.Errorf("failed to insert project %s: %w", p.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
