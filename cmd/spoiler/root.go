package main

import (
	"github.com/spf13/cobra"

	"github.com/kadavr95/spoiler/internal/cli"
	"github.com/kadavr95/spoiler/internal/config"
)

// state is filled by the root PersistentPreRunE before any subcommand runs.
type state struct {
	configPath string
	debug      bool
	app        *cli.App
}

func newRootCmd() *cobra.Command {
	s := &state{}

	rootCmd := &cobra.Command{
		Use:   "spoiler",
		Short: "Spoiler is a collapsible-section extension for a schema-driven editor model",
		Long: `Spoiler converts, inspects and edits documents holding collapsible sections
stored as <details class="spoiler"> markup, and serves a preview API over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(s.configPath)
			if err != nil {
				return err
			}
			s.app, err = cli.NewApp(cfg, s.debug)
			return err
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVarP(&s.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVar(&s.debug, "debug", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(
		newConvertCmd(s),
		newRoundTripCmd(s),
		newInsertCmd(s),
		newSchemaCmd(s),
		newInspectCmd(s),
		newServeCmd(s),
		newVersionCmd(),
	)
	return rootCmd
}

func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "-"
}
