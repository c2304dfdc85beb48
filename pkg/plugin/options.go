package plugin

import (
	"log/slog"

	"github.com/aretw0/loam-export/pkg/archive"
)

// DefaultCSVThreshold is the buffer size, in characters, past which a CSV
// export is flushed to a new file.
const DefaultCSVThreshold = 100_000

// options holds the configuration shared by the export commands.
type options struct {
	logger        *slog.Logger
	archiveMethod string
	csvThreshold  int
	flushTrailing bool
	noteURL       func(uuid string) string
}

// Option configures the export commands.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		archiveMethod: archive.MethodDeflate,
		csvThreshold:  DefaultCSVThreshold,
		noteURL:       DefaultNoteURL,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// DefaultNoteURL builds the address the progress view navigates to.
func DefaultNoteURL(uuid string) string {
	return "https://www.amplenote.com/notes/" + uuid
}

// WithLogger sets the logger used by the commands and the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithArchiveMethod selects the zip compression method ("deflate" or "store").
func WithArchiveMethod(method string) Option {
	return func(o *options) {
		o.archiveMethod = method
	}
}

// WithCSVThreshold overrides the CSV flush threshold. Non-positive values are ignored.
func WithCSVThreshold(chars int) Option {
	return func(o *options) {
		if chars > 0 {
			o.csvThreshold = chars
		}
	}
}

// WithFlushTrailing makes the CSV export save the rows left in the buffer after
// the last note. By default they are dropped.
func WithFlushTrailing(flush bool) Option {
	return func(o *options) {
		o.flushTrailing = flush
	}
}

// WithNoteURL overrides how a note UUID is turned into a navigable address.
func WithNoteURL(fn func(uuid string) string) Option {
	return func(o *options) {
		if fn != nil {
			o.noteURL = fn
		}
	}
}
