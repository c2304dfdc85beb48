// Package archive bundles exported notes into a zip container.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"
)

// MediaType is the media type of archives produced by Build.
const MediaType = "application/zip"

// Entry is one exported note waiting to be archived.
type Entry struct {
	Title   string
	Content string
}

// Archiver writes entries into a zip archive using a fixed compression method.
type Archiver struct {
	method uint16
	name   string
	now    func() time.Time
}

// Method returns the name of the compression method this archiver uses.
func (a *Archiver) Method() string {
	return a.name
}

// EntryName maps a note title to its name inside the archive.
// Slashes are the zip path separator and would create nested folders.
func EntryName(title string) string {
	return strings.ReplaceAll(title, "/", "-") + ".md"
}

// Build writes entries, in order, into a new zip archive and returns its bytes.
// Duplicate entry names are written as-is; extractors keep the last one.
func (a *Archiver) Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	modified := a.now()
	for _, e := range entries {
		header := &zip.FileHeader{
			Name:     EntryName(e.Title),
			Method:   a.method,
			Modified: modified,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create entry %q: %w", header.Name, err)
		}
		if _, err := w.Write([]byte(e.Content)); err != nil {
			return nil, fmt.Errorf("failed to write entry %q: %w", header.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
