// Package vault implements core.Store over a directory of markdown files with
// YAML frontmatter.
//
// A note's UUID comes from the "uuid" frontmatter key. Files without one get a
// stable name-based UUID derived from their path inside the vault, so exports
// of untouched vaults are reproducible.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/aretw0/loam-export/internal/atomicfile"
	"github.com/aretw0/loam-export/pkg/core"
)

// Config holds the configuration for the vault store.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // hidden directory skipped while scanning, e.g. ".loam"
}

// Store implements core.Store on the filesystem.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	index         map[string]string // uuid -> relative path
	lastScan      *time.Time
	watcherActive bool
	ownWrites     map[string]time.Time // absolute path -> write time
}

// namespace seeds the name-based UUIDs of files without a uuid key.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/aretw0/loam-export/vault"))

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = ".loam"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:      config.Path,
		config:    config,
		index:     make(map[string]string),
		ownWrites: make(map[string]time.Time),
	}
}

// Initialize makes sure the vault directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	info, err := os.Stat(s.Path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("vault path is not a directory: %s", s.Path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to stat vault: %w", err)
	case s.config.MustExist || s.config.ReadOnly:
		return fmt.Errorf("vault path does not exist: %s", s.Path)
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// entry is a parsed note file.
type entry struct {
	relPath string
	meta    Metadata
	note    core.Note
}

// scan reads every note file in the vault, ordered by relative path, and
// refreshes the uuid index.
func (s *Store) scan(ctx context.Context) ([]entry, error) {
	paths, err := doublestar.Glob(os.DirFS(s.Path), "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault: %w", err)
	}
	sort.Strings(paths)

	entries := make([]entry, 0, len(paths))
	index := make(map[string]string, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.skip(rel) {
			continue
		}
		e, err := s.load(rel)
		if err != nil {
			s.config.Logger.Warn("skipping unreadable note", "path", rel, "error", err)
			continue
		}
		if prev, dup := index[e.note.UUID]; dup {
			s.config.Logger.Warn("duplicate note uuid", "uuid", e.note.UUID, "path", rel, "first", prev)
			continue
		}
		index[e.note.UUID] = rel
		entries = append(entries, e)
	}

	now := time.Now()
	s.mu.Lock()
	s.index = index
	s.lastScan = &now
	s.mu.Unlock()

	return entries, nil
}

// skip reports whether a path lives under a hidden or system directory.
func (s *Store) skip(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, p := range parts[:len(parts)-1] {
		if strings.HasPrefix(p, ".") || p == s.config.SystemDir {
			return true
		}
	}
	return atomicfile.IsTemp(rel)
}

// load parses the note file at rel (slash separated, relative to the vault).
func (s *Store) load(rel string) (entry, error) {
	data, err := os.ReadFile(filepath.Join(s.Path, filepath.FromSlash(rel)))
	if err != nil {
		return entry{}, err
	}
	meta, content, err := parseFile(data)
	if err != nil {
		return entry{}, fmt.Errorf("failed to parse note %s: %w", rel, err)
	}

	id := meta.stringValue(KeyUUID)
	if id == "" {
		id = uuid.NewSHA1(namespace, []byte(rel)).String()
	}
	title := meta.stringValue(KeyTitle)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(rel), ".md")
	}

	return entry{
		relPath: rel,
		meta:    meta,
		note: core.Note{
			UUID:    id,
			Name:    title,
			Tags:    meta.tags(),
			Content: content,
		},
	}, nil
}

// FilterNotes returns the notes whose tags match f, ordered by path.
func (s *Store) FilterNotes(ctx context.Context, f core.Filter) ([]core.Handle, error) {
	entries, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	var out []core.Handle
	for _, e := range entries {
		ok, err := core.MatchTag(f.Tag, e.note.Tags)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e.note.Handle())
		}
	}
	return out, nil
}

// find resolves uuid to a parsed entry, rescanning once if the index is stale.
func (s *Store) find(ctx context.Context, id string) (entry, error) {
	s.mu.RLock()
	rel, ok := s.index[id]
	s.mu.RUnlock()

	if ok {
		e, err := s.load(rel)
		if err == nil && e.note.UUID == id {
			return e, nil
		}
	}

	if _, err := s.scan(ctx); err != nil {
		return entry{}, err
	}
	s.mu.RLock()
	rel, ok = s.index[id]
	s.mu.RUnlock()
	if !ok {
		return entry{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	return s.load(rel)
}

// FindNote resolves a note by UUID.
func (s *Store) FindNote(ctx context.Context, id string) (core.Note, error) {
	e, err := s.find(ctx, id)
	if err != nil {
		return core.Note{}, err
	}
	return e.note, nil
}

// GetNoteContent re-reads the body of n from disk.
func (s *Store) GetNoteContent(ctx context.Context, n core.Note) (string, error) {
	e, err := s.find(ctx, n.UUID)
	if err != nil {
		return "", err
	}
	return e.note.Content, nil
}

// CreateNote writes an empty note named after title and returns its UUID.
func (s *Store) CreateNote(ctx context.Context, title string) (string, error) {
	if s.config.ReadOnly {
		return "", core.ErrReadOnly
	}

	id := uuid.NewString()
	rel := slugify(title) + "-" + id[:8] + ".md"
	meta := Metadata{
		KeyUUID:  id,
		KeyTitle: title,
	}
	if err := s.write(rel, meta, ""); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.index[id] = rel
	s.mu.Unlock()

	s.config.Logger.Debug("created note", "uuid", id, "path", rel)
	return id, nil
}

// ReplaceNoteContent overwrites the body of n, keeping its frontmatter.
func (s *Store) ReplaceNoteContent(ctx context.Context, n core.Note, text string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	e, err := s.find(ctx, n.UUID)
	if err != nil {
		return err
	}
	return s.write(e.relPath, e.meta, text)
}

func (s *Store) write(rel string, meta Metadata, content string) error {
	data, err := renderFile(meta, content)
	if err != nil {
		return fmt.Errorf("failed to render note %s: %w", rel, err)
	}

	full := filepath.Join(s.Path, filepath.FromSlash(rel))
	s.markOwnWrite(full)
	if err := atomicfile.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write note %s: %w", rel, err)
	}
	return nil
}

// slugify turns a title into a file name stem.
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "note"
	}
	return slug
}

var _ core.Store = (*Store)(nil)

// walkDirs calls fn for the vault root and every directory that scan would visit.
func (s *Store) walkDirs(fn func(path string) error) error {
	return filepath.WalkDir(s.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.Path && (strings.HasPrefix(d.Name(), ".") || d.Name() == s.config.SystemDir) {
			return filepath.SkipDir
		}
		return fn(path)
	})
}
