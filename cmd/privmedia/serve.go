package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia/config"
	privhttp "github.com/sagarc03/privmedia/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the privmedia HTTP server.

Files under the storage path are served at the URL prefix to callers the
configured permission checker allows. In production mode denied requests
get the same 404 as missing files.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().String("mode", "production", "server mode (debug, production)")
	serveCmd.Flags().String("file-server", "", "file server: direct, sendfile (env: PRIVMEDIA_FILES_SERVER)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	root, err := openRoot(cfg.Storage.Path, true)
	if err != nil {
		return err
	}
	defer func() { _ = root.Close() }()

	dispatcher, err := newDispatcher(cfg, root)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	users, closeUsers, err := openUsers(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeUsers()

	resolver, err := newResolver(cfg, users)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}

	handlerConfig := privhttp.HandlerConfig{
		URLPrefix:  cfg.Server.URLPrefix,
		ServerName: cfg.Files.Server,
		Metrics:    cfg.Metrics.Enabled,
		CORS:       cfg.CORS,
	}

	handler := privhttp.NewHandler(&handlerConfig, dispatcher, resolver)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// no WriteTimeout: direct responses stream whole files
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"mode", dispatcher.Mode(),
		"prefix", privhttp.NormalizePrefix(cfg.Server.URLPrefix),
		"server", cfg.Files.Server,
		"permissions", cfg.Files.Permissions,
		"users", cfg.Users.Backend,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
