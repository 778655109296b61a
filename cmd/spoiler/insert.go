package main

import (
	"github.com/spf13/cobra"

	"github.com/kadavr95/spoiler"
	"github.com/kadavr95/spoiler/internal/cli"
	"github.com/kadavr95/spoiler/pkg/model"
)

func newInsertCmd(s *state) *cobra.Command {
	var at string
	var name string

	cmd := &cobra.Command{
		Use:   "insert [file]",
		Short: "Insert a spoiler at a caret position",
		Long: `Loads markup, moves the caret to the offset path given by --at (e.g. 0/3 for
the fourth character of the first block) and runs the insert command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := model.ParsePath(at)
			if err != nil {
				return err
			}
			markup, err := cli.ReadInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			return s.app.Insert(cmd.OutOrStdout(), markup, path, name)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Caret offset path, slash separated (default: first editable position)")
	cmd.Flags().StringVar(&name, "command", spoiler.CommandName, "Command to execute")
	return cmd
}
