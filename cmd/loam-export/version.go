package main

import (
	"fmt"

	"github.com/spf13/cobra"

	export "github.com/aretw0/loam-export"
)

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of loam-export",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.stdout, "loam-export version %s\n", export.Version)
		},
	}
}
