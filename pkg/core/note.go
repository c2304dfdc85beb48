// Package core defines the note domain shared by the export commands and the
// hosts that run them.
package core

// Note is the central entity of the domain.
// It is owned by the host; exports only read it.
type Note struct {
	UUID    string
	Name    string
	Tags    []string
	Content string
}

// Handle is the lightweight view of a note returned by a filter query.
// Content is fetched separately through the host.
type Handle struct {
	UUID string
	Name string
	Tags []string
}

// Handle returns the lightweight view of n.
func (n Note) Handle() Handle {
	return Handle{UUID: n.UUID, Name: n.Name, Tags: n.Tags}
}

// Filter narrows a FilterNotes query. The zero value selects every note.
type Filter struct {
	Tag string
}

// Blob is a payload handed to the host for the user to download.
type Blob struct {
	Type string // media type, e.g. "application/zip"
	Data []byte
}

// PromptInput describes a single field of a user prompt.
type PromptInput struct {
	Label       string
	Type        string
	Placeholder string
}
