package main

import (
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/kadavr95/spoiler/internal/cli"
	"github.com/kadavr95/spoiler/pkg/model"
)

func newSchemaCmd(s *state) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the compiled schema of the configured editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Schema(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", cli.FormatYAML, "Output format: yaml or json")
	return cmd
}

func newInspectCmd(s *state) *cobra.Command {
	var at string
	var format string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the model tree, the caret and the command states",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := model.ParsePath(at)
			if err != nil {
				return err
			}
			markup, err := cli.ReadInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}

			profile := termenv.ColorProfile()
			if noColor {
				profile = termenv.Ascii
			}
			return s.app.Inspect(cmd.OutOrStdout(), markup, path, format, profile)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Caret offset path, slash separated")
	cmd.Flags().StringVarP(&format, "format", "f", cli.FormatOutline, "Output format: outline or mermaid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colours in the outline")
	return cmd
}
