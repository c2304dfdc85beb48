// Package hosttest provides an in-memory core.Host that records every call,
// for testing export commands.
package hosttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/loam-export/pkg/core"
)

// Call is one recorded host invocation.
type Call struct {
	Method string
	Arg    string
}

// SavedFile is a payload passed to SaveFile.
type SavedFile struct {
	Name string
	Blob core.Blob
}

type failure struct {
	n   int
	err error
}

// Host is a scripted core.Host.
type Host struct {
	// Notes are returned by FilterNotes in this order.
	Notes []core.Note
	// Answers is what Prompt returns. Cancel makes Prompt return core.ErrCancelled.
	Answers []string
	Cancel  bool
	// NilResults makes FilterNotes return a nil slice regardless of Notes.
	NilResults bool

	mu       sync.Mutex
	calls    []Call
	counts   map[string]int
	failures map[string]failure
	created  map[string]*core.Note
	alerts   []string
	saved    []SavedFile
	history  map[string][]string
	urls     []string
}

// New creates a host serving notes.
func New(notes ...core.Note) *Host {
	return &Host{Notes: notes}
}

// FailOn makes the n-th (1-based) call to method return err.
func (h *Host) FailOn(method string, n int, err error) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failures == nil {
		h.failures = make(map[string]failure)
	}
	h.failures[method] = failure{n: n, err: err}
	return h
}

// record logs the call and returns the scripted error, if any.
func (h *Host) record(method, arg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.counts == nil {
		h.counts = make(map[string]int)
	}
	h.calls = append(h.calls, Call{Method: method, Arg: arg})
	h.counts[method]++
	if f, ok := h.failures[method]; ok && f.n == h.counts[method] {
		return f.err
	}
	return nil
}

func (h *Host) Prompt(ctx context.Context, message string, inputs ...core.PromptInput) ([]string, error) {
	if err := h.record("Prompt", message); err != nil {
		return nil, err
	}
	if h.Cancel {
		return nil, core.ErrCancelled
	}
	return h.Answers, nil
}

func (h *Host) FilterNotes(ctx context.Context, f core.Filter) ([]core.Handle, error) {
	if err := h.record("FilterNotes", f.Tag); err != nil {
		return nil, err
	}
	if h.NilResults {
		return nil, nil
	}
	var out []core.Handle
	for _, n := range h.Notes {
		ok, err := core.MatchTag(f.Tag, n.Tags)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n.Handle())
		}
	}
	return out, nil
}

func (h *Host) FindNote(ctx context.Context, uuid string) (core.Note, error) {
	if err := h.record("FindNote", uuid); err != nil {
		return core.Note{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n, ok := h.created[uuid]; ok {
		return *n, nil
	}
	for _, n := range h.Notes {
		if n.UUID == uuid {
			return n, nil
		}
	}
	return core.Note{}, fmt.Errorf("%s: %w", uuid, core.ErrNotFound)
}

func (h *Host) GetNoteContent(ctx context.Context, n core.Note) (string, error) {
	if err := h.record("GetNoteContent", n.UUID); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.created[n.UUID]; ok {
		return c.Content, nil
	}
	for _, note := range h.Notes {
		if note.UUID == n.UUID {
			return note.Content, nil
		}
	}
	return "", fmt.Errorf("%s: %w", n.UUID, core.ErrNotFound)
}

func (h *Host) CreateNote(ctx context.Context, title string) (string, error) {
	if err := h.record("CreateNote", title); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.created == nil {
		h.created = make(map[string]*core.Note)
	}
	uuid := fmt.Sprintf("created-%d", len(h.created)+1)
	h.created[uuid] = &core.Note{UUID: uuid, Name: title}
	return uuid, nil
}

func (h *Host) ReplaceNoteContent(ctx context.Context, n core.Note, text string) error {
	if err := h.record("ReplaceNoteContent", text); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.history == nil {
		h.history = make(map[string][]string)
	}
	h.history[n.UUID] = append(h.history[n.UUID], text)
	if c, ok := h.created[n.UUID]; ok {
		c.Content = text
	}
	return nil
}

func (h *Host) Navigate(ctx context.Context, url string) error {
	if err := h.record("Navigate", url); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.urls = append(h.urls, url)
	return nil
}

func (h *Host) SaveFile(ctx context.Context, blob core.Blob, filename string) error {
	if err := h.record("SaveFile", filename); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	data := make([]byte, len(blob.Data))
	copy(data, blob.Data)
	h.saved = append(h.saved, SavedFile{Name: filename, Blob: core.Blob{Type: blob.Type, Data: data}})
	return nil
}

func (h *Host) Alert(ctx context.Context, message string) error {
	if err := h.record("Alert", message); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, message)
	return nil
}

// Calls returns every recorded call in order.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// Methods returns the method names of every recorded call in order.
func (h *Host) Methods() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	for i, c := range h.calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many times method was called.
func (h *Host) Count(method string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[method]
}

// Alerts returns the messages shown through Alert.
func (h *Host) Alerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.alerts...)
}

// Saved returns the files passed to SaveFile.
func (h *Host) Saved() []SavedFile {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]SavedFile(nil), h.saved...)
}

// History returns every text written to the note with uuid.
func (h *Host) History(uuid string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.history[uuid]...)
}

// URLs returns the addresses passed to Navigate.
func (h *Host) URLs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.urls...)
}

var _ core.Host = (*Host)(nil)
