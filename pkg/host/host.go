// Package host runs export commands locally: notes come from a core.Store,
// prompts and alerts go through a terminal, and saved files land in an
// output directory.
package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/loam-export/internal/atomicfile"
	"github.com/aretw0/loam-export/pkg/core"
)

// Host implements core.Host on top of a core.Store.
type Host struct {
	core.Store

	in     *bufio.Reader
	out    io.Writer
	outDir string
	logger *slog.Logger

	mu      sync.Mutex
	answers []string
	saved   []string
	alerts  int
}

// Option configures a Host.
type Option func(*Host)

// WithInput sets where prompt answers are read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(h *Host) {
		h.in = bufio.NewReader(r)
	}
}

// WithOutput sets where prompts, alerts and navigation notices are written.
// Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithOutputDir sets the directory SaveFile writes into. Defaults to ".".
func WithOutputDir(dir string) Option {
	return func(h *Host) {
		h.outDir = dir
	}
}

// WithAnswers queues prompt answers, consumed in order before input is read.
func WithAnswers(answers ...string) Option {
	return func(h *Host) {
		h.answers = append(h.answers, answers...)
	}
}

// WithLogger sets the logger for the host.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// New creates a host serving notes from store.
func New(store core.Store, opts ...Option) *Host {
	h := &Host{
		Store:  store,
		outDir: ".",
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.in == nil {
		h.in = bufio.NewReader(os.Stdin)
	}
	if h.out == nil {
		h.out = os.Stderr
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h
}

// Prompt asks for one value per input. Queued answers are used first; then
// one line per input is read. End of input cancels the prompt.
func (h *Host) Prompt(ctx context.Context, message string, inputs ...core.PromptInput) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		inputs = []core.PromptInput{{Type: "text"}}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintln(h.out, message)
	values := make([]string, 0, len(inputs))
	for _, in := range inputs {
		fmt.Fprint(h.out, promptLabel(in))

		if len(h.answers) > 0 {
			v := h.answers[0]
			h.answers = h.answers[1:]
			fmt.Fprintln(h.out, v)
			values = append(values, v)
			continue
		}

		line, err := h.in.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(h.out)
			return nil, core.ErrCancelled
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read answer: %w", err)
		}
		values = append(values, strings.TrimRight(line, "\r\n"))
	}
	return values, nil
}

// Queue appends answers for upcoming prompts.
func (h *Host) Queue(answers ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.answers = append(h.answers, answers...)
}

func promptLabel(in core.PromptInput) string {
	label := in.Label
	if label == "" {
		label = "Value"
	}
	if in.Placeholder != "" {
		return fmt.Sprintf("%s [%s]: ", label, in.Placeholder)
	}
	return label + ": "
}

// Navigate tells the user where to look.
func (h *Host) Navigate(ctx context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, "-> %s\n", url)
	h.logger.Debug("navigate", "url", url)
	return nil
}

// SaveFile writes blob into the output directory. Path separators in
// filename become "-" ("a/x.zip" is saved as "a-x.zip"), so a file can never
// escape the directory.
func (h *Host) SaveFile(ctx context.Context, blob core.Blob, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := fileName(filename)
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", filename)
	}

	if err := os.MkdirAll(h.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(h.outDir, name)
	if err := atomicfile.WriteFile(path, blob.Data, 0644); err != nil {
		return err
	}

	h.mu.Lock()
	h.saved = append(h.saved, path)
	h.mu.Unlock()

	h.logger.Info("file saved", "path", path, "type", blob.Type, "bytes", len(blob.Data))
	return nil
}

// Alert prints message to the terminal.
func (h *Host) Alert(ctx context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts++
	fmt.Fprintf(h.out, "! %s\n", message)
	return nil
}

func fileName(filename string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(filename)
}

// Saved returns the paths written by SaveFile, in order.
func (h *Host) Saved() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.saved...)
}

// HostState exposes internal state for observability.
type HostState struct {
	OutputDir  string   `json:"output_dir"`
	StoreType  string   `json:"store_type"`
	SavedFiles []string `json:"saved_files,omitempty"`
	Alerts     int      `json:"alerts"`
}

// State implements introspection.Introspectable.
func (h *Host) State() any {
	h.mu.Lock()
	defer h.mu.Unlock()

	storeType := "store"
	if comp, ok := h.Store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}
	return HostState{
		OutputDir:  h.outDir,
		StoreType:  storeType,
		SavedFiles: append([]string(nil), h.saved...),
		Alerts:     h.alerts,
	}
}

// ComponentType implements introspection.Component.
func (h *Host) ComponentType() string {
	return "host"
}

var _ core.Host = (*Host)(nil)
var _ introspection.Introspectable = (*Host)(nil)
var _ introspection.Component = (*Host)(nil)
