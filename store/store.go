// Package store persists the project library: named documents with
// their serialized slide payloads.
package store

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

	"github.com/cardflowhq/cardflow/deck"
)

var (
	// ErrNotFound is returned when a project id does not exist.
	ErrNotFound = errors.New("store: project not found")

	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("store: store is closed")
)

// Project is one saved document in the library.
type Project struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Kind      string       `json:"kind"` // source format: pptx, docx, xlsx, pdf, html
	Theme     string       `json:"theme"`
	Slides    []deck.Slide `json:"slides"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    theme TEXT NOT NULL DEFAULT 'modern',
    slides JSON NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at);
`

// Store wraps the SQLite database for project persistence.
type Store struct {
	db     *sql.DB
	closed bool
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Save inserts a new project and returns its id.
func (s *Store) Save(ctx context.Context, p *Project) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}

	payload, err := json.Marshal(p.Slides)
	if err != nil {
		return 0, fmt.Errorf("encoding slides: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, kind, theme, slides) VALUES (?, ?, ?, ?)`,
		p.Name, p.Kind, p.Theme, string(payload))
	if err != nil {
		return 0, fmt.Errorf("inserting project: %w", err)
	}
	return res.LastInsertId()
}

// Update overwrites an existing project's name, theme, and slides.
func (s *Store) Update(ctx context.Context, p *Project) error {
	if s.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(p.Slides)
	if err != nil {
		return fmt.Errorf("encoding slides: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, theme = ?, slides = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		p.Name, p.Theme, string(payload), p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads one project with its slide payload.
func (s *Store) Get(ctx context.Context, id int64) (*Project, error) {
	if s.closed {
		return nil, ErrClosed
	}

	var p Project
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, theme, slides, created_at, updated_at FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Kind, &p.Theme, &payload, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &p.Slides); err != nil {
		return nil, fmt.Errorf("decoding slides: %w", err)
	}
	if p.Slides == nil {
		p.Slides = []deck.Slide{}
	}
	return &p, nil
}

// List returns all projects, most recently updated first, without
// their slide payloads.
func (s *Store) List(ctx context.Context) ([]Project, error) {
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, theme, created_at, updated_at FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Theme, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Delete removes a project.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if s.closed {
		return ErrClosed
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close shuts the store down; further calls return ErrClosed.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
