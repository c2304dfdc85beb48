package export

import (
	"context"
	"log/slog"

	"github.com/aretw0/loam-export/pkg/archive"
	"github.com/aretw0/loam-export/pkg/core"
	"github.com/aretw0/loam-export/pkg/plugin"
)

// Version of the library and the CLI.
const Version = "0.1.0"

// --- Types ---

// Host is a public alias for the host capability interface.
type Host = core.Host

// Note is a public alias for the core note.
type Note = core.Note

// Registry is a public alias for the command registry.
type Registry = plugin.Registry

// --- Configuration ---

// Option defines a functional option for the export commands.
type Option = plugin.Option

// WithLogger sets the logger for the commands.
func WithLogger(logger *slog.Logger) Option {
	return plugin.WithLogger(logger)
}

// WithArchiveMethod selects the zip compression method ("deflate" or "store").
func WithArchiveMethod(method string) Option {
	return plugin.WithArchiveMethod(method)
}

// WithCSVThreshold sets the buffer size, in characters, above which a CSV
// chunk is saved.
func WithCSVThreshold(chars int) Option {
	return plugin.WithCSVThreshold(chars)
}

// WithFlushTrailing saves the last, partially filled CSV chunk too.
func WithFlushTrailing(flush bool) Option {
	return plugin.WithFlushTrailing(flush)
}

// --- Factories ---

// New returns a registry holding the "Single tag" and "Everything to CSV"
// commands.
func New(opts ...Option) *Registry {
	return plugin.New(opts...)
}

// ExportTag runs the "Single tag" command against app.
func ExportTag(ctx context.Context, app Host, opts ...Option) error {
	return plugin.ExportTag(ctx, app, opts...)
}

// ExportCSV runs the "Everything to CSV" command against app.
func ExportCSV(ctx context.Context, app Host, opts ...Option) error {
	return plugin.ExportCSV(ctx, app, opts...)
}

// ArchiveMethods lists the compression methods accepted by WithArchiveMethod.
func ArchiveMethods() []string {
	return archive.Methods()
}
