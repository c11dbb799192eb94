package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/devdash/internal/transport"
	"github.com/naka-gawa/devdash/internal/usecase"
)

func newServeCmd(opts *options) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves both dashboards as a read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			defaults := usecase.DefaultHealthQuery()
			defaults.Threshold = rt.cfg.Health.Threshold
			defaults.Environment = rt.cfg.Health.Environment

			h := transport.NewHandler(rt.aggregator, defaults, rt.logger)
			srv := &http.Server{
				Addr:         rt.cfg.Server.Addr,
				Handler:      transport.NewRouter(h, rt.logger),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				rt.logger.Info("listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			eg.Go(func() error {
				return rt.aggregator.PRRefresher().Run(egCtx, rt.cfg.PR.RefreshInterval, nil)
			})
			eg.Go(func() error {
				return rt.aggregator.HealthRefresher().Run(egCtx, rt.cfg.Health.RefreshInterval, nil)
			})
			eg.Go(func() error {
				<-egCtx.Done()
				rt.logger.Info("shutting down server gracefully")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return eg.Wait()
		},
	}

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	bindFlag(opts.v, "server.addr", serveCmd.Flags().Lookup("addr"))
	return serveCmd
}
