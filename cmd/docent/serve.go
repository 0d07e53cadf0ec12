package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/helmsley-ai/docent/internal/transport/chi"
	"github.com/helmsley-ai/docent/internal/metrics"
	"github.com/helmsley-ai/docent/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		metrics.Register()

		a.logger.Info("Starting docent API server",
			zap.String("version", version.Version),
			zap.String("commit", version.Commit),
			zap.Int("http_port", a.cfg.HTTP.Port),
			zap.String("db_driver", a.cfg.Database.Driver),
		)

		server := chiTransport.NewServer(
			a.pipeline, a.store, a.extractor, a.registry, a.health, a.logger,
		).WithAPIKeys(a.cfg.HTTP.APIKeys)

		addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
		srv := &http.Server{
			Addr:         addr,
			Handler:      server.Router(),
			ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
		}

		// Graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("HTTP server listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case <-quit:
			a.logger.Info("Received shutdown signal")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Error during shutdown", zap.Error(err))
		}

		a.logger.Info("Server stopped gracefully")
		return nil
	},
}
