// Package export is the entry point of loam-export, a note export plugin.
//
// It offers two commands over any note host (see core.Host):
//
//   - "Single tag" asks for a tag, writes progress into a new note while it
//     collects the tagged notes, and saves them as "<tag>.zip" with one
//     Markdown file per note.
//   - "Everything to CSV" writes every note as a UUID,Title,Tags,Content row
//     and saves the rows in chunks named "export-<n>.csv".
//
// The host is an interface so the commands run the same way against a real
// note application, a directory of Markdown files (pkg/adapters/vault), a
// SQLite database (pkg/adapters/sqlite) or a test fake.
//
// Usage:
//
//	reg := export.New(export.WithLogger(logger))
//	app := host.New(vault.NewStore(vault.Config{Path: "./notes"}))
//	err := reg.Invoke(ctx, app, "Everything to CSV")
package export
