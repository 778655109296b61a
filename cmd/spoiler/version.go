package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kadavr95/spoiler"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of spoiler",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spoiler version %s\n", spoiler.Version)
		},
	}
}
