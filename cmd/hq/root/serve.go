package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"habitquest/internal/httpapi"
	"habitquest/internal/storage"
	"habitquest/internal/tui"
)

// newBoardCmd runs the TUI against the local database.
func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, cmd.OutOrStdout())
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.HTTPAddr
			}
			base := serviceOptions(cfg.User)
			app := httpapi.New(httpapi.NewRegistry(storage.NewKVRepo(db), base), logger)

			go func() {
				<-ctx.Done()
				if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
					logger.Error("shutdown", "err", err)
				}
			}()

			logger.Info("listening", "addr", addr)
			return app.Listen(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default HQ_HTTP_ADDR)")

	return cmd
}
