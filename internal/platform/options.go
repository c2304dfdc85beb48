package platform

import (
	"io"
	"log/slog"

	"github.com/aretw0/loam-export/pkg/core"
)

// options holds the wiring choices that are not part of config.Config.
type options struct {
	store   core.Store
	logger  *slog.Logger
	input   io.Reader
	output  io.Writer
	answers []string
}

// Option defines a functional option for wiring a Runtime.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithStore injects a store, skipping the configured adapter (e.g. a mock).
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger passed to the store and the host.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInput sets where prompt answers are read from.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets where prompts and alerts are written.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithAnswers queues prompt answers so commands can run unattended.
func WithAnswers(answers ...string) Option {
	return func(o *options) {
		o.answers = append(o.answers, answers...)
	}
}
