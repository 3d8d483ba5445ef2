// Package history persists completed analyses in a local SQLite database so
// earlier schedules can be listed and compared after the project changes.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/critpath/internal/cpm"
)

var (
	// ErrRunNotFound is returned when no stored run matches an ID.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when an ID prefix matches more than one run.
	ErrAmbiguousID = errors.New("run ID prefix is ambiguous")
)

// cacheSize bounds the number of fully decoded runs kept in memory.
const cacheSize = 64

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id             TEXT PRIMARY KEY,
    project        TEXT NOT NULL,
    source         TEXT NOT NULL DEFAULT '',
    time_unit      TEXT NOT NULL DEFAULT '',
    duration       REAL NOT NULL,
    critical_path  TEXT NOT NULL,
    task_count     INTEGER NOT NULL,
    critical_count INTEGER NOT NULL,
    rows_json      TEXT NOT NULL,
    created_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at DESC);
`

// Run is one stored analysis. Rows is only populated by Get.
type Run struct {
	ID        string
	Project   string
	Source    string
	TimeUnit  string
	Summary   cpm.Summary
	Rows      []cpm.Row
	CreatedAt time.Time
}

// NewRun builds a Run from an analyzed project.
func NewRun(name, source, unit string, p *cpm.Project) Run {
	return Run{
		Project:  name,
		Source:   source,
		TimeUnit: unit,
		Summary:  p.Summary(),
		Rows:     p.Table(),
	}
}

// Store is a SQLite-backed run history. Reads by ID go through an LRU cache;
// stored runs are immutable so entries never go stale.
type Store struct {
	db    *sql.DB
	cache *lru.Cache[string, Run]
	now   func() time.Time
}

// NewStore opens (or creates) the history database at path, enables WAL mode
// and busy timeout, and creates the schema if needed.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	// SQLite has a single writer; one connection keeps the pragmas in force.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	cache, err := lru.New[string, Run](cacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create cache: %w", err)
	}
	return &Store{db: db, cache: cache, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a run and returns it with ID and CreatedAt filled in.
func (s *Store) Save(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	if r.Summary.CriticalPath == nil {
		r.Summary.CriticalPath = []string{}
	}
	if r.Rows == nil {
		r.Rows = []cpm.Row{}
	}

	path, err := json.Marshal(r.Summary.CriticalPath)
	if err != nil {
		return Run{}, fmt.Errorf("history: encode critical path: %w", err)
	}
	rows, err := json.Marshal(r.Rows)
	if err != nil {
		return Run{}, fmt.Errorf("history: encode rows: %w", err)
	}

	const q = `
		INSERT INTO runs (id, project, source, time_unit, duration, critical_path,
		                  task_count, critical_count, rows_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q,
		r.ID, r.Project, r.Source, r.TimeUnit, r.Summary.ProjectDuration, string(path),
		r.Summary.TaskCount, r.Summary.CriticalTaskCount, string(rows), r.CreatedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("history: save run %s: %w", r.ID, err)
	}
	s.cache.Add(r.ID, r)
	return r, nil
}

// List returns up to limit runs, newest first, without their rows. A limit
// of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, project, source, time_unit, duration, critical_path,
	             task_count, critical_count, created_at
	      FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			path    string
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Project, &r.Source, &r.TimeUnit, &r.Summary.ProjectDuration,
			&path, &r.Summary.TaskCount, &r.Summary.CriticalTaskCount, &created); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(path), &r.Summary.CriticalPath); err != nil {
			return nil, fmt.Errorf("history: decode critical path of %s: %w", r.ID, err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run whose ID equals id or, failing that, the single run
// whose ID starts with id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, fmt.Errorf("history: %w: empty ID", ErrRunNotFound)
	}
	if r, ok := s.cache.Get(id); ok {
		return r, nil
	}

	full, err := s.resolve(ctx, id)
	if err != nil {
		return Run{}, err
	}
	if r, ok := s.cache.Get(full); ok {
		return r, nil
	}

	var (
		r             Run
		path, rowsRaw string
		created       int64
	)
	const q = `
		SELECT id, project, source, time_unit, duration, critical_path,
		       task_count, critical_count, rows_json, created_at
		FROM runs WHERE id = ?`
	err = s.db.QueryRowContext(ctx, q, full).Scan(&r.ID, &r.Project, &r.Source, &r.TimeUnit,
		&r.Summary.ProjectDuration, &path, &r.Summary.TaskCount, &r.Summary.CriticalTaskCount,
		&rowsRaw, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("history: %w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("history: get run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(path), &r.Summary.CriticalPath); err != nil {
		return Run{}, fmt.Errorf("history: decode critical path of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(rowsRaw), &r.Rows); err != nil {
		return Run{}, fmt.Errorf("history: decode rows of %s: %w", r.ID, err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()

	s.cache.Add(r.ID, r)
	return r, nil
}

// resolve expands an ID prefix to a full run ID.
func (s *Store) resolve(ctx context.Context, prefix string) (string, error) {
	pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, pattern)
	if err != nil {
		return "", fmt.Errorf("history: resolve %s: %w", prefix, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("history: resolve %s: %w", prefix, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("history: resolve %s: %w", prefix, err)
	}

	switch {
	case len(ids) == 0:
		return "", fmt.Errorf("history: %w: %s", ErrRunNotFound, prefix)
	case len(ids) > 1 && ids[0] != prefix:
		return "", fmt.Errorf("history: %w: %s", ErrAmbiguousID, prefix)
	}
	return ids[0], nil
}

// Delete removes a run. Deleting a missing run is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("history: delete run %s: %w", id, err)
	}
	s.cache.Remove(id)
	return nil
}
