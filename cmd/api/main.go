package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-cz/devslog"
	"github.com/spf13/cobra"

	"github.com/siahsang/realworld/internal/auth"
	"github.com/siahsang/realworld/internal/config"
	"github.com/siahsang/realworld/internal/core"
	"github.com/siahsang/realworld/internal/database"
)

type application struct {
	config *config.Config
	logger *slog.Logger
	core   *core.Core
	tokens *auth.TokenManager
}

func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	return &application{
		config: cfg,
		logger: logger,
		core: core.NewCore(db, logger, core.Config{
			PasswordCost:     cfg.Auth.PasswordCost,
			QueryTimeout:     cfg.Database.QueryTimeout,
			RandomSlugSuffix: cfg.Slug.RandomSuffix,
		}),
		tokens: auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "realworld",
		Short:         "Conduit blogging API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), configPath)
		},
	})

	return root
}

func setup(ctx context.Context, configPath string) (*config.Config, *slog.Logger, *sql.DB, error) {
	logger := configLogger("info")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading configuration", "error", err)
		return nil, nil, nil, err
	}
	logger = configLogger(cfg.Log.Level)

	db, err := database.Open(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger)
	if err != nil {
		logger.Error("opening database connection", "error", err)
		return nil, nil, nil, err
	}

	return cfg, logger, db, nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, logger, db, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database connection", "error", err)
		}
	}()

	app := newApplication(cfg, logger, db)
	if err := app.serve(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		return err
	}
	return nil
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, logger, db, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		logger.Error("migrating database", "error", err)
		return err
	}

	logger.Info("database schema is up to date", "driver", cfg.Database.Driver)
	return nil
}

func configLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelDebug
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     lvl,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}
