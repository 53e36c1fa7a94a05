package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/tatami/internal/cli"
	httpAdapter "github.com/aretw0/tatami/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the sequence library and quiz sessions as a JSON API, with an
SSE change feed on /events and Prometheus metrics on /metrics.

With --watch, edits to the --dir documents are mirrored into the store while
the server runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr, _ = cmd.Flags().GetString("addr")
		}
		watch, _ := cmd.Flags().GetBool("watch")
		if watch && cfg.LibraryDir == "" {
			return errors.New("--watch needs a library directory (--dir)")
		}

		env, err := openEnv(cmd, cfg, cli.Options{Metrics: true})
		if err != nil {
			return err
		}
		defer env.Close()

		handler := httpAdapter.NewHandler(env.Library,
			httpAdapter.WithLogger(env.Logger),
			httpAdapter.WithMetrics(env.Metrics),
		)
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		if watch {
			go func() {
				if err := cli.SyncLibrary(sigCtx, env.Library, env.Source, env.Logger); err != nil {
					env.Logger.Error("library watch stopped", "err", err)
				}
			}()
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			env.Logger.Info("starting tatami server", "addr", srv.Addr, "store", cfg.Store, "dir", cfg.LibraryDir)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			env.Logger.Info("shutting down", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				env.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to stop server: %w", err)
				}
			}
			env.Logger.Info("tatami server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("watch", false, "Mirror edits of the library directory into the store")
}
