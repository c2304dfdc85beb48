package plugin

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/loam-export/pkg/core"
)

// CSVHeader is the first line of the first exported CSV file.
const CSVHeader = "UUID,Title,Tags,Content\n"

// CSVMediaType is the media type of exported CSV files.
const CSVMediaType = "text/csv"

// CSVFilename is the name of the n-th (1-based) exported CSV file.
func CSVFilename(n int) string {
	return fmt.Sprintf("export-%d.csv", n)
}

// FormatRow renders one CSV line. Every field is quoted and inner quotes are
// doubled, so commas and line breaks survive inside a field.
func FormatRow(fields ...string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	return b.String()
}

// NoteRow renders the CSV line of a note with the given content.
func NoteRow(h core.Handle, content string) string {
	return FormatRow(h.UUID, h.Name, core.JoinTags(h.Tags), content)
}

// ExportCSV writes every note to "export-{n}.csv" files. A file is saved as
// soon as the buffered text grows past the threshold; only the first file
// carries the header.
func ExportCSV(ctx context.Context, app core.Host, opts ...Option) error {
	o := newOptions(opts)
	log := o.logger.With("command", CSVCommandName)

	handles, err := app.FilterNotes(ctx, core.Filter{})
	if err != nil {
		return err
	}

	var buf strings.Builder
	buf.WriteString(CSVHeader)
	size := utf8.RuneCountInString(CSVHeader)
	file := 1

	flush := func() error {
		name := CSVFilename(file)
		if err := app.SaveFile(ctx, core.Blob{Type: CSVMediaType, Data: []byte(buf.String())}, name); err != nil {
			return err
		}
		log.Info("saved csv", "file", name, "chars", size)
		buf.Reset()
		size = 0
		file++
		return nil
	}

	for _, h := range handles {
		content, err := app.GetNoteContent(ctx, core.Note{UUID: h.UUID, Name: h.Name, Tags: h.Tags})
		if err != nil {
			return err
		}
		row := NoteRow(h, content)
		buf.WriteString(row)
		size += utf8.RuneCountInString(row)

		if size > o.csvThreshold {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if size > 0 && o.flushTrailing {
		return flush()
	}
	if size > 0 {
		log.Debug("dropping trailing rows below threshold", "chars", size)
	}
	return nil
}
