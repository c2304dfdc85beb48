package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/loam-export/internal/config"
	"github.com/aretw0/loam-export/internal/platform"
	storewatch "github.com/aretw0/loam-export/pkg/adapters/lifecycle"
	"github.com/aretw0/loam-export/pkg/core"
)

// runCommand opens the configured store and invokes the named command once,
// or on every vault change when watch is set.
func (c *cli) runCommand(cmd *cobra.Command, cfg *config.Config, name string, watch bool, answers ...string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := platform.New(ctx, cfg,
		platform.WithLogger(c.logger),
		platform.WithInput(c.stdin),
		platform.WithOutput(c.stderr),
	)
	if err != nil {
		return err
	}
	defer rt.Close()

	run := func(ctx context.Context) error {
		rt.Host.Queue(answers...)
		if err := rt.Registry.Invoke(ctx, rt.Host, name); err != nil {
			return err
		}
		c.logger.Debug("host state", "state", rt.Host.State())
		return nil
	}

	if err := run(ctx); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	watchable, ok := rt.Store.(core.Watchable)
	if !ok {
		return fmt.Errorf("adapter %q does not support --watch", cfg.Adapter)
	}
	source := storewatch.NewSource(watchable, 0)
	if err := source.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(c.stderr, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Vault)
	for event := range source.Events() {
		c.logger.Info("exporting again", "command", name, "event", event.String())
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("export failed", "command", name, "error", err)
		}
	}
	return nil
}
