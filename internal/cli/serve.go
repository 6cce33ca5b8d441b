package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"oddrafter/internal/mcp"
)

// ServeOptions holds flags for the serve command
type ServeOptions struct {
	Addr string
}

// NewServeCmd creates the serve command
func NewServeCmd(app *App) *cobra.Command {
	opts := ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.RunServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default :8000)")

	return cmd
}

// RunServe starts the server and blocks until ctx is cancelled or the
// listener fails.
func (a *App) RunServe(ctx context.Context, opts ServeOptions) error {
	rt, err := a.wire()
	if err != nil {
		return err
	}
	defer rt.Close()

	if opts.Addr != "" {
		rt.cfg.Server.Addr = opts.Addr
	}

	srv := mcp.NewServer(rt.drafter, mcp.Options{
		Addr:     rt.cfg.Server.Addr,
		Endpoint: rt.cfg.Server.Endpoint,
	}, rt.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.logger.Info("Shutdown requested", "timeout", rt.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()

	stopErr := srv.Stop(shutdownCtx)
	if err := <-errCh; err != nil {
		return errors.Join(stopErr, err)
	}
	return stopErr
}
