package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/loam-export/pkg/plugin"
)

func newCSVCmd(c *cli) *cobra.Command {
	var (
		threshold     int
		flushTrailing bool
		watch         bool
	)

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export every note to export-<n>.csv files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Threshold = threshold
			}
			if cmd.Flags().Changed("flush-trailing") {
				cfg.FlushTrailing = flushTrailing
			}
			return c.runCommand(cmd, cfg, plugin.CSVCommandName, watch)
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", plugin.DefaultCSVThreshold, "Characters buffered before a CSV file is saved")
	cmd.Flags().BoolVar(&flushTrailing, "flush-trailing", false, "Also save the last, partially filled CSV file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Export again whenever the vault changes")
	return cmd
}
