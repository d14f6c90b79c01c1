package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clauseworks/importkit/internal/adapters/driven/config/file"
	"github.com/clauseworks/importkit/internal/adapters/driven/oauth"
	"github.com/clauseworks/importkit/internal/adapters/driven/storage/sqlite"
	"github.com/clauseworks/importkit/internal/adapters/driving/httpapi"
	"github.com/clauseworks/importkit/internal/connectors/dropbox"
	"github.com/clauseworks/importkit/internal/connectors/google/drive"
	"github.com/clauseworks/importkit/internal/connectors/notion"
	"github.com/clauseworks/importkit/internal/core/ports/driven"
	"github.com/clauseworks/importkit/internal/core/services"
	"github.com/clauseworks/importkit/internal/logger"
	"github.com/clauseworks/importkit/internal/normalisers"
)

// shutdownTimeout bounds in-flight request draining on shutdown.
const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the import API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := file.Load(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger.Setup(level, cfg.Log.Pretty)
	log := logger.For("serve")

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	refresher := oauth.NewRefresher(cfg.ClientCredentials())
	tokens := services.NewTokenService(store.CredentialStore(), refresher)

	importer := services.NewImportService(
		store.CredentialStore(),
		tokens,
		[]driven.ProviderAdapter{
			dropbox.New(),
			drive.New(),
			notion.New(),
		},
		normalisers.NewRegistry(),
		store.DocumentStore(),
		store.AuditLog(),
	)

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           httpapi.NewServer(importer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.ListenAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// resolveConfigPath honours --config, falling back to ~/.importkit/config.toml.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".importkit", "config.toml")
}
