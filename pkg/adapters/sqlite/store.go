// Package sqlite implements core.Store on a SQLite note database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/loam-export/pkg/core"
)

// Config holds the configuration for the SQLite store.
type Config struct {
	Path     string // database file, or ":memory:"
	ReadOnly bool
	Logger   *slog.Logger
}

// Store implements core.Store on SQLite.
type Store struct {
	db     *sql.DB
	config Config

	queries atomic.Int64
}

// Open opens the database at cfg.Path. Call Initialize before use.
func Open(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	dsn := cfg.Path
	if cfg.ReadOnly {
		dsn = "file:" + cfg.Path + "?mode=ro"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db, config: cfg}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize runs the schema migration. It is idempotent.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.ReadOnly {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS notes (
		uuid TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		content TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a note. It is used to seed and import notes.
func (s *Store) Upsert(ctx context.Context, n core.Note) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if n.UUID == "" {
		return errors.New("note has no UUID")
	}
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return err
	}
	s.queries.Add(1)
	_, err = s.db.ExecContext(ctx, `INSERT INTO notes (uuid, name, tags, content, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(uuid) DO UPDATE SET
			name = excluded.name,
			tags = excluded.tags,
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP`,
		n.UUID, n.Name, tags, n.Content)
	if err != nil {
		return fmt.Errorf("failed to upsert note %s: %w", n.UUID, err)
	}
	return nil
}

// FilterNotes returns the notes whose tags match f, ordered by name.
func (s *Store) FilterNotes(ctx context.Context, f core.Filter) ([]core.Handle, error) {
	s.queries.Add(1)
	rows, err := s.db.QueryContext(ctx, `SELECT uuid, name, tags FROM notes ORDER BY name, uuid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var out []core.Handle
	for rows.Next() {
		var h core.Handle
		var tags string
		if err := rows.Scan(&h.UUID, &h.Name, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if h.Tags, err = decodeTags(tags); err != nil {
			return nil, fmt.Errorf("note %s: %w", h.UUID, err)
		}
		ok, err := core.MatchTag(f.Tag, h.Tags)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, h)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return out, nil
}

// FindNote resolves a note by UUID.
func (s *Store) FindNote(ctx context.Context, id string) (core.Note, error) {
	var n core.Note
	var tags string

	s.queries.Add(1)
	err := s.db.QueryRowContext(ctx,
		`SELECT uuid, name, tags, content FROM notes WHERE uuid = ?`, id,
	).Scan(&n.UUID, &n.Name, &tags, &n.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Note{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to query note: %w", err)
	}
	if n.Tags, err = decodeTags(tags); err != nil {
		return core.Note{}, fmt.Errorf("note %s: %w", id, err)
	}
	return n, nil
}

// GetNoteContent returns the stored body of n.
func (s *Store) GetNoteContent(ctx context.Context, n core.Note) (string, error) {
	var content string

	s.queries.Add(1)
	err := s.db.QueryRowContext(ctx, `SELECT content FROM notes WHERE uuid = ?`, n.UUID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", n.UUID, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query note content: %w", err)
	}
	return content, nil
}

// CreateNote inserts an empty note and returns its UUID.
func (s *Store) CreateNote(ctx context.Context, title string) (string, error) {
	id := uuid.NewString()
	if err := s.Upsert(ctx, core.Note{UUID: id, Name: title}); err != nil {
		return "", err
	}
	s.config.Logger.Debug("created note", "uuid", id)
	return id, nil
}

// ReplaceNoteContent overwrites the body of n.
func (s *Store) ReplaceNoteContent(ctx context.Context, n core.Note, text string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	s.queries.Add(1)
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE uuid = ?`, text, n.UUID)
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", n.UUID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", n.UUID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", n.UUID, core.ErrNotFound)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("invalid tags column: %w", err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

var _ core.Store = (*Store)(nil)
