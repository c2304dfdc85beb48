package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/loam-export/pkg/core"
)

// Registered command names, as shown in the host menu.
const (
	TagCommandName = "Single tag"
	CSVCommandName = "Everything to CSV"
)

// Command is a menu action a host can run.
type Command struct {
	Name        string
	Alias       string
	Description string
	Run         func(ctx context.Context, app core.Host) error
}

// Registry is the set of commands offered to a host, in registration order.
type Registry struct {
	mu       sync.RWMutex
	commands []Command
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{logger: logger}
}

// New creates a registry holding the tag and CSV export commands, both
// configured with opts.
func New(opts ...Option) *Registry {
	o := newOptions(opts)
	r := NewRegistry(o.logger)

	// Errors are impossible here: names are distinct constants.
	_ = r.Register(Command{
		Name:        TagCommandName,
		Alias:       "tag",
		Description: "Export the notes of one tag as a zip of markdown files",
		Run: func(ctx context.Context, app core.Host) error {
			return ExportTag(ctx, app, opts...)
		},
	})
	_ = r.Register(Command{
		Name:        CSVCommandName,
		Alias:       "csv",
		Description: "Export every note into CSV files",
		Run: func(ctx context.Context, app core.Host) error {
			return ExportCSV(ctx, app, opts...)
		},
	})
	return r
}

// Register adds a command. Names and aliases must be unique, ignoring case.
func (r *Registry) Register(cmd Command) error {
	if cmd.Name == "" {
		return errors.New("command name cannot be empty")
	}
	if cmd.Run == nil {
		return fmt.Errorf("command %q has no Run function", cmd.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{cmd.Name, cmd.Alias} {
		if key == "" {
			continue
		}
		if _, ok := r.lookupLocked(key); ok {
			return fmt.Errorf("command %q already registered", key)
		}
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// Lookup finds a command by name or alias, ignoring case.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(name)
}

func (r *Registry) lookupLocked(name string) (Command, bool) {
	for _, c := range r.commands {
		if strings.EqualFold(c.Name, name) || (c.Alias != "" && strings.EqualFold(c.Alias, name)) {
			return c, true
		}
	}
	return Command{}, false
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Invoke runs the named command against app.
//
// A failed run is reported to the user with exactly one alert carrying the
// error text, and the error is returned. A cancelled prompt ends the run
// quietly.
func (r *Registry) Invoke(ctx context.Context, app core.Host, name string) error {
	cmd, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}

	log := r.logger.With("command", cmd.Name)
	log.Debug("running command")

	err := cmd.Run(ctx, app)
	switch {
	case err == nil:
		log.Debug("command finished")
		return nil
	case errors.Is(err, core.ErrCancelled):
		log.Info("command cancelled by user")
		return nil
	}

	var alertErr alertFailedError
	if errors.As(err, &alertErr) {
		log.Error("failed to alert user", "error", alertErr.err)
		return err
	}

	log.Error("command failed", "error", err)
	// The run may have failed because ctx was cancelled; the user still needs the notice.
	if alertErr := app.Alert(context.WithoutCancel(ctx), err.Error()); alertErr != nil {
		log.Error("failed to alert user", "error", alertErr)
		return errors.Join(err, alertErr)
	}
	return err
}

// alertFailedError marks a run whose own alert to the user failed. The
// invoker does not alert a second time.
type alertFailedError struct {
	err error
}

func (e alertFailedError) Error() string {
	return "failed to alert user: " + e.err.Error()
}

func (e alertFailedError) Unwrap() error {
	return e.err
}
