// Command postsd serves the posts REST API used by postdeck.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/db"
	"github.com/debemdeboas/postdeck/internal/logger"
	"github.com/debemdeboas/postdeck/internal/repository"
	"github.com/debemdeboas/postdeck/internal/server"
)

func main() {
	flags := pflag.NewFlagSet("postsd", pflag.ExitOnError)
	configPath := flags.String("config", "config.yaml", "path to the configuration file")
	storage := flags.String("storage", "", "storage backend (sqlite, memory, s3); overrides server.storage")
	logLevel := flags.String("log-level", "", "log level; overrides logging.level")
	flags.Parse(os.Args[1:])

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file loaded")
	}

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig
	if *storage != "" {
		cfg.Server.Storage = *storage
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log := logger.New(cfg.Logging.Level, os.Stderr)
	config.SetLogger(log.With().Str("component", "config").Logger())
	db.SetLogger(log.With().Str("component", "db").Logger())
	repository.SetLogger(log.With().Str("component", "repository").Logger())
	server.SetLogger(log.With().Str("component", "server").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Server.Storage).Msg(config.ErrInitializeStorage)
	}
	defer closeRepo()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           server.New(repo, server.WithGzip(cfg.Server.Gzip)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("storage", cfg.Server.Storage).Msg("Serving posts API")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}

func openRepository(ctx context.Context, cfg config.ServerConfig) (repository.PostRepository, func(), error) {
	noop := func() {}

	switch cfg.Storage {
	case config.StorageSQLite:
		database := db.NewSQLite(cfg.Database.Path)
		if err := database.InitDB(); err != nil {
			return nil, noop, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
		}
		return repository.NewDBPostRepository(database), func() { database.Close() }, nil
	case config.StorageMemory:
		return repository.NewMemoryPostRepository(), noop, nil
	case config.StorageS3:
		client, err := repository.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewS3PostRepository(client, cfg.S3.Bucket, cfg.S3.Prefix), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
