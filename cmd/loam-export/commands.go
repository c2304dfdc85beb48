package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/loam-export/pkg/archive"
	"github.com/aretw0/loam-export/pkg/plugin"
)

func newCommandsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the registered export commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := plugin.New().Commands()

			if asJSON {
				type entry struct {
					Name        string `json:"name"`
					Alias       string `json:"alias"`
					Description string `json:"description"`
				}
				out := make([]entry, 0, len(commands))
				for _, command := range commands {
					out = append(out, entry{Name: command.Name, Alias: command.Alias, Description: command.Description})
				}
				encoder := json.NewEncoder(c.stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(out)
			}

			w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
			for _, command := range commands {
				fmt.Fprintf(w, "%s\t%s\t%s\n", command.Alias, command.Name, command.Description)
			}
			fmt.Fprintf(w, "\narchive methods:\t%v\n", archive.Methods())
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
