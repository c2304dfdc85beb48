package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/loam-export/internal/config"
)

// cli holds the persistent flags and the streams of one invocation.
type cli struct {
	verbose    bool
	configPath string
	vault      string
	adapter    string
	db         string
	out        string
	readOnly   bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "loam-export",
		Short: "Export notes to a zip per tag or to CSV files",
		Long: `loam-export reads notes from a Markdown vault or a SQLite database and
exports them: one tag at a time as a zip of Markdown files, or everything
as chunked CSV files.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			c.logger = slog.New(slog.NewTextHandler(c.stderr, opts))
			slog.SetDefault(c.logger)
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&c.configPath, "config", "c", "", "Config file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&c.vault, "vault", "", "Path to the Markdown vault")
	flags.StringVar(&c.adapter, "adapter", "", "Note store: fs or sqlite")
	flags.StringVar(&c.db, "db", "", "Path to the SQLite database")
	flags.StringVarP(&c.out, "out", "o", "", "Directory exported files are written to")
	flags.BoolVar(&c.readOnly, "read-only", false, "Open the store read-only")

	rootCmd.AddCommand(
		newTagCmd(c),
		newCSVCmd(c),
		newCommandsCmd(c),
		newVersionCmd(c),
	)
	return rootCmd
}

// loadConfig merges the config sources with the flags set on cmd.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("vault") {
		cfg.Vault = c.vault
	}
	if flags.Changed("adapter") {
		cfg.Adapter = c.adapter
	}
	if flags.Changed("db") {
		cfg.DB = c.db
	}
	if flags.Changed("out") {
		cfg.OutputDir = c.out
	}
	if flags.Changed("read-only") {
		cfg.ReadOnly = c.readOnly
	}
	return cfg, nil
}
