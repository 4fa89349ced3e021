package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"symptom-checker/internal/config"
	"symptom-checker/internal/db"
	httpserver "symptom-checker/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the reference data and start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := loadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	svc := newService(store, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpserver.NewServer(svc, store, cfg.Server.AllowedOrigin, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Data.Source == config.SourcePostgres {
		g.Go(func() error {
			err := db.Watch(gctx, cfg.Data.DatabaseURL, db.DefaultChannel, logger, func(dataset string) {
				logger.Warn("reference data changed in database, restart to serve it",
					zap.String("dataset", dataset))
			})
			if err != nil {
				logger.Warn("reference change watcher stopped", zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}
