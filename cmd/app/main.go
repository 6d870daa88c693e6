package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pickup/cmd"
	"pickup/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "pickupd",
		Short:         "Pickup job dispatch service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (optional)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			return serve(c.Context(), configFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		RunE: func(c *cobra.Command, _ []string) error {
			return migrate(c.Context(), configFile)
		},
	})

	return root
}

func serve(ctx context.Context, configFile string) error {
	cfg, err := cmd.LoadConfig(configFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	storage, err := openStorage(cfg)
	if err != nil {
		return err
	}

	app := cmd.NewCompositionRoot(cfg, storage, logger)

	manager := app.CreateJobManager()
	if err = manager.StartAll(); err != nil {
		return err
	}
	defer manager.StopAll()

	e := app.CreateEcho()
	e.Logger.SetLevel(echoLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "port", cfg.HTTPPort, "storage", cfg.Storage.Driver)
		serveErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context, configFile string) error {
	cfg, err := cmd.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != cmd.StoragePostgres {
		return fmt.Errorf("migrate needs the %s storage driver, got %s", cmd.StoragePostgres, cfg.Storage.Driver)
	}

	db, err := gorm.Open(postgresdriver.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	newLogger(cfg.LogLevel).Info("Schema is up to date")
	return nil
}

func openStorage(cfg cmd.Config) (cmd.Storage, error) {
	if cfg.Storage.Driver == cmd.StorageMemory {
		return cmd.NewMemoryStorage(), nil
	}

	db, err := gorm.Open(postgresdriver.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return cmd.Storage{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cmd.NewPostgresStorage(db), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func echoLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
