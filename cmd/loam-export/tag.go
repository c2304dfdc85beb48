package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aretw0/loam-export/pkg/plugin"
)

func newTagCmd(c *cli) *cobra.Command {
	var (
		method string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "tag [name]",
		Short: "Export the notes carrying a tag as <tag>.zip",
		Long: `Export every note carrying a tag (or one of its subtags) as a zip of
Markdown files. Without a name the tag is asked for interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && len(args) == 0 {
				return errors.New("--watch requires a tag name")
			}

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("method") {
				cfg.ArchiveMethod = method
			}
			return c.runCommand(cmd, cfg, plugin.TagCommandName, watch, args...)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "Zip compression method: deflate or store")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Export again whenever the vault changes")
	return cmd
}
