package core

import (
	"context"
	"time"
)

// Host is the API surface a note-taking application exposes to export commands.
// Every call may block; implementations should honour ctx.
type Host interface {
	// Prompt asks the user for one value per input.
	// It returns ErrCancelled if the user dismissed the prompt.
	Prompt(ctx context.Context, message string, inputs ...PromptInput) ([]string, error)
	// FilterNotes returns the notes matching f in a stable order.
	// A nil or empty result means nothing matched.
	FilterNotes(ctx context.Context, f Filter) ([]Handle, error)
	// FindNote resolves a note by UUID. It returns ErrNotFound if missing.
	FindNote(ctx context.Context, uuid string) (Note, error)
	// GetNoteContent returns the raw text of a note.
	GetNoteContent(ctx context.Context, n Note) (string, error)
	// CreateNote creates an empty note and returns its UUID.
	CreateNote(ctx context.Context, title string) (string, error)
	// ReplaceNoteContent overwrites the body of a note.
	ReplaceNoteContent(ctx context.Context, n Note, text string) error
	// Navigate shifts the user's view to url.
	Navigate(ctx context.Context, url string) error
	// SaveFile hands a payload to the user under filename.
	SaveFile(ctx context.Context, blob Blob, filename string) error
	// Alert shows a notice to the user.
	Alert(ctx context.Context, message string) error
}

// Store is the note-data half of a Host. Local hosts compose a Store with a
// terminal and a downloads directory.
type Store interface {
	FilterNotes(ctx context.Context, f Filter) ([]Handle, error)
	FindNote(ctx context.Context, uuid string) (Note, error)
	GetNoteContent(ctx context.Context, n Note) (string, error)
	CreateNote(ctx context.Context, title string) (string, error)
	ReplaceNoteContent(ctx context.Context, n Note, text string) error
	// Initialize ensures the underlying storage is ready (mkdir, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report changes to their notes.
type Watchable interface {
	// Watch calls onChange, serially, after the store settles following a change.
	Watch(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context)) error
}
