package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/loam-export/pkg/archive"
	"github.com/aretw0/loam-export/pkg/core"
)

// Messages shown while exporting a tag.
const (
	TagPromptMessage   = "What tag do you want to export?"
	NoNotesMessage     = "No notes found with this tag."
	ProgressNoteTitle  = "Export progress..."
	CreatingZipMessage = "Creating zip file..."
	SuccessMessage     = "Success!"
)

// TagInput is the single field of the tag prompt.
var TagInput = core.PromptInput{
	Label:       "Tag name",
	Type:        "text",
	Placeholder: "your/tag/name/here",
}

// ProcessingMessage is the progress text shown before note i (1-based) of n.
func ProcessingMessage(i, n int) string {
	return fmt.Sprintf("Processing note %d/%d...", i, n)
}

// ExportTag asks the user for a tag and saves every matching note into
// "{tag}.zip", one markdown entry per note. Progress is written to a scratch
// note the user is navigated to before the notes are fetched.
func ExportTag(ctx context.Context, app core.Host, opts ...Option) error {
	o := newOptions(opts)
	log := o.logger.With("command", TagCommandName)

	zipper, err := archive.Load(o.archiveMethod)
	if err != nil {
		return err
	}

	values, err := app.Prompt(ctx, TagPromptMessage, TagInput)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return core.ErrCancelled
	}
	tag := values[0]

	handles, err := app.FilterNotes(ctx, core.Filter{Tag: tag})
	if err != nil {
		return err
	}
	if len(handles) == 0 {
		log.Info("no notes matched", "tag", tag)
		if err := app.Alert(ctx, NoNotesMessage); err != nil {
			return alertFailedError{err: err}
		}
		return nil
	}

	progressUUID, err := app.CreateNote(ctx, ProgressNoteTitle)
	if err != nil {
		return err
	}
	progress, err := app.FindNote(ctx, progressUUID)
	if err != nil {
		return err
	}
	if err := app.Navigate(ctx, o.noteURL(progress.UUID)); err != nil {
		return err
	}

	entries := make([]archive.Entry, 0, len(handles))
	for i, h := range handles {
		if err := app.ReplaceNoteContent(ctx, progress, ProcessingMessage(i+1, len(handles))); err != nil {
			return err
		}
		note, err := app.FindNote(ctx, h.UUID)
		if err != nil {
			return err
		}
		content, err := app.GetNoteContent(ctx, note)
		if err != nil {
			return err
		}
		log.Debug("collected note", "uuid", note.UUID, "index", i+1, "total", len(handles))
		entries = append(entries, archive.Entry{Title: note.Name, Content: content})
	}

	if err := app.ReplaceNoteContent(ctx, progress, CreatingZipMessage); err != nil {
		return err
	}
	data, err := zipper.Build(entries)
	if err != nil {
		return err
	}

	filename := strings.TrimSpace(tag) + ".zip"
	if err := app.SaveFile(ctx, core.Blob{Type: archive.MediaType, Data: data}, filename); err != nil {
		return err
	}
	log.Info("saved archive", "file", filename, "notes", len(entries), "bytes", len(data))

	return app.ReplaceNoteContent(ctx, progress, SuccessMessage)
}
