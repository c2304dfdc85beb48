// Package platform wires configuration, a note store and the local host
// into a runnable Runtime.
package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/loam-export/internal/config"
	"github.com/aretw0/loam-export/pkg/adapters/sqlite"
	"github.com/aretw0/loam-export/pkg/adapters/vault"
	"github.com/aretw0/loam-export/pkg/core"
	"github.com/aretw0/loam-export/pkg/host"
	"github.com/aretw0/loam-export/pkg/plugin"
)

// Runtime is a ready-to-use host with the command registry configured from
// the same settings.
type Runtime struct {
	Host     *host.Host
	Store    core.Store
	Registry *plugin.Registry
	Config   *config.Config

	closer io.Closer
}

// Close releases the store.
func (r *Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New validates cfg, opens and initializes the configured store and returns
// the Runtime around it.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Runtime, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &Runtime{Config: cfg, Store: o.store}
	if rt.Store == nil {
		store, closer, err := openStore(cfg, o.logger)
		if err != nil {
			return nil, err
		}
		rt.Store = store
		rt.closer = closer
	}

	if err := rt.Store.Initialize(ctx); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	hostOpts := []host.Option{
		host.WithOutputDir(cfg.OutputDir),
		host.WithLogger(o.logger),
		host.WithAnswers(o.answers...),
	}
	if o.input != nil {
		hostOpts = append(hostOpts, host.WithInput(o.input))
	}
	if o.output != nil {
		hostOpts = append(hostOpts, host.WithOutput(o.output))
	}
	rt.Host = host.New(rt.Store, hostOpts...)

	rt.Registry = plugin.New(
		plugin.WithLogger(o.logger),
		plugin.WithArchiveMethod(cfg.ArchiveMethod),
		plugin.WithCSVThreshold(cfg.Threshold),
		plugin.WithFlushTrailing(cfg.FlushTrailing),
	)
	return rt, nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (core.Store, io.Closer, error) {
	switch cfg.Adapter {
	case config.AdapterFS:
		path, err := ResolveVaultPath(cfg.Vault)
		if err != nil {
			return nil, nil, err
		}
		return vault.NewStore(vault.Config{
			Path:      path,
			MustExist: true,
			ReadOnly:  cfg.ReadOnly,
			Logger:    logger,
		}), nil, nil

	case config.AdapterSQLite:
		store, err := sqlite.Open(sqlite.Config{
			Path:     cfg.DB,
			ReadOnly: cfg.ReadOnly,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("unknown adapter: %s", cfg.Adapter)
	}
}

// ResolveVaultPath turns the configured vault path into an absolute one.
// "." resolves to the enclosing vault root when one is found, else the
// working directory.
func ResolveVaultPath(path string) (string, error) {
	if path != "." {
		return filepath.Abs(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}
