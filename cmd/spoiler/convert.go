package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kadavr95/spoiler/internal/cli"
)

func newConvertCmd(s *state) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert markup to data, editing or model form",
		Long: `Loads markup from a file (or stdin) into the editor model and prints it in the
requested form. Markup the editor does not recognize is dropped and counted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := cli.ReadInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			stats, err := s.app.Convert(cmd.OutOrStdout(), markup, target)
			if err != nil {
				return err
			}
			if stats.Skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d unrecognized element(s)\n", stats.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", cli.TargetData, "Output form: data, editing or model")
	return cmd
}

func newRoundTripCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip [file]",
		Short: "Check that markup survives load and save unchanged",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := cli.ReadInput(inputArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			ok, err := s.app.RoundTrip(cmd.OutOrStdout(), markup)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("round trip changed the markup")
			}
			return nil
		},
	}
}
