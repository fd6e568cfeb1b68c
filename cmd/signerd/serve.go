package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/local-signer/internal/resolver"
)

func newServeCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the loopback broker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			port, err := a.broker.Start(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", resolver.BaseURL(port))

			return a.broker.Wait(ctx)
		},
	}
}
