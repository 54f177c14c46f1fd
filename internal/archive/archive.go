// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps an optional SQLite log of generated reports so
// earlier runs can be listed and inspected.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

const defaultListLimit = 20

// Run is one archived report.
type Run struct {
	ID        int64         `json:"id" yaml:"id"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Title     string        `json:"title" yaml:"title"`
	Path      string        `json:"path" yaml:"path"`
	Format    string        `json:"format" yaml:"format"`
	Keywords  []string      `json:"keywords" yaml:"keywords"`
	Cleaned   []string      `json:"cleaned" yaml:"cleaned"`
	Groups    []types.Group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Store manages the archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at cfg.Path and ensures the schema.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "keyword-engine.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			title TEXT NOT NULL,
			report_path TEXT NOT NULL,
			format TEXT NOT NULL,
			keywords TEXT NOT NULL,
			cleaned TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_groups (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			keywords TEXT NOT NULL,
			post_idea TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores r as written to path and returns the new run ID.
func (s *Store) Record(ctx context.Context, r types.Report, path string, format types.ReportFormat) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := r.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}
	keywordsJSON, err := marshalList(r.Keywords)
	if err != nil {
		return 0, fmt.Errorf("encoding keywords: %w", err)
	}
	cleanedJSON, err := marshalList(r.Cleaned)
	if err != nil {
		return 0, fmt.Errorf("encoding cleaned keywords: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, title, report_path, format, keywords, cleaned)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		created.UTC().Format(time.RFC3339Nano), r.Title, path, string(format),
		keywordsJSON, cleanedJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_groups (run_id, idx, keywords, post_idea) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range r.Groups {
		kwJSON, err := marshalList(g.Keywords)
		if err != nil {
			return 0, fmt.Errorf("encoding group %d keywords: %w", g.Index, err)
		}
		if _, err := stmt.ExecContext(ctx, id, g.Index, kwJSON, g.PostIdea); err != nil {
			return 0, fmt.Errorf("inserting group %d: %w", g.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first, without groups.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, title, report_path, format, keywords, cleaned
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run with its groups.
func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, title, report_path, format, keywords, cleaned
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, keywords, post_idea FROM run_groups WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g types.Group
		var kwJSON string
		if err := rows.Scan(&g.Index, &kwJSON, &g.PostIdea); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		if err := json.Unmarshal([]byte(kwJSON), &g.Keywords); err != nil {
			return nil, fmt.Errorf("decoding group keywords: %w", err)
		}
		r.Groups = append(r.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// marshalList encodes a string list for a TEXT column. Nil encodes as [].
func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var created, keywordsJSON, cleanedJSON string
	if err := sc.Scan(&r.ID, &created, &r.Title, &r.Path, &r.Format, &keywordsJSON, &cleanedJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return r, fmt.Errorf("parsing run time: %w", err)
	}
	r.CreatedAt = t
	if err := json.Unmarshal([]byte(keywordsJSON), &r.Keywords); err != nil {
		return r, fmt.Errorf("decoding keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(cleanedJSON), &r.Cleaned); err != nil {
		return r, fmt.Errorf("decoding cleaned keywords: %w", err)
	}
	return r, nil
}
