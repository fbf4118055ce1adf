package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackwell-systems/opacctl/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve read-only catalog search as JSON over HTTP",
		Long: `Serve the session catalog on a local HTTP address:

  GET /health
  GET  /api/books?q=...&lib=...&status=...&sort=...&page=...
  GET  /api/books/{id}
  GET  /api/books/{id}/similar
  GET  /api/recommend?viewed=bk-001,bk-003
  GET  /api/facets
  POST /api/ask  {"question": "..."}

Stops cleanly on Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Serve.Addr()
			}
			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			books, err := loadBooks(ctx)
			if err != nil {
				return err
			}
			ok("Serving %d books on http://%s", len(books), addr)
			return server.New(books, cfg.Display.Language()).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: serve.host:serve.port)")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
