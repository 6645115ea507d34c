package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/oneshot"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr string
		port uint16
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Long: `Start the server and block until SIGINT or SIGTERM is received. In-flight
connections are served before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, oneshot.New(cfg), addr, port)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0", "Address to bind to")
	cmd.Flags().Uint16VarP(&port, "port", "p", 8080, "Port to listen on")

	return cmd
}

// run serves until the context is done.
func run(ctx context.Context, app *oneshot.App, addr string, port uint16) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-done:
		}
	}()

	return app.Start(addr, port)
}
