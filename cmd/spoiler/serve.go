package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/kadavr95/spoiler/internal/cli"
)

func newServeCmd(s *state) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the stateless HTTP preview server",
		Long: `Starts the preview API: schema, conversion and command endpoints, plus
prometheus metrics on /metrics when enabled. Every request gets its own editor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = s.app.Config.Server.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}

			ctx := cli.NewSignalContext(context.Background())
			defer ctx.Cancel()
			return s.app.Serve(ctx, ln, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on (overrides server.addr)")
	return cmd
}
