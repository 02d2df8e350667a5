package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneimport/internal/api"
	"github.com/matzehuels/sceneimport/pkg/draft"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, exposing one session over the
// inspector API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <asset>",
		Short: "Serve the inspector API for an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Serve.Addr
			}

			ws, err := c.openSession(ctx, args[0], nil)
			if err != nil {
				return err
			}
			defer ws.Close()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger := loggerFromContext(ctx)
			srv := &http.Server{
				Handler:           api.New(ws.Session, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			printSuccess("Serving %s", StyleHighlight.Render(ws.Asset))
			printKeyValue("URL", StyleLink.Render("http://"+ln.Addr().String()))
			printDetail("Press Ctrl+C to stop")

			if err := serve(ctx, srv, ln); err != nil {
				return err
			}
			logger.Info("Server stopped")

			if ws.Dirty() && ws.drafts.Name() != draft.BackendNone {
				// The command context is already cancelled.
				return ws.saveDraft(context.WithoutCancel(ctx))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
