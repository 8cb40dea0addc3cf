// Package main is the entry point for the Buscador Pelut server.
//
// MAIN PACKAGE IN GO:
// main stays minimal. Its job is to:
//  1. Read configuration
//  2. Create dependencies (logger, store, password hashing)
//  3. Start the application
//
// All actual logic lives in the internal/ packages.
//
// @title Buscador Pelut API
// @version 1.0
// @description Pet-adoption directory: animals, shelters and user accounts.
// @BasePath /
// @securityDefinitions.basic BasicAuth
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/buscadorpelut/buscadorpelut/internal/auth"
	"github.com/buscadorpelut/buscadorpelut/internal/config"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/postgres"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/sqlite"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/sqlstore"
	"github.com/buscadorpelut/buscadorpelut/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// Environment first, then .env for anything unset, then defaults.
	cfg, err := config.Load(".env", os.Getenv)
	if err != nil {
		// No logger yet: the log settings are part of the config.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger := newLogger(os.Stdout, cfg)

	// === 3. OPEN THE STORE ===
	// Migrations run inside Open, so a bad schema fails here and not on
	// the first request.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("failed to open store",
			slog.String("driver", cfg.DBDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. PASSWORD HASHING ===
	passwords, err := auth.NewPasswordService(cfg.BcryptCost)
	if err != nil {
		logger.Error("invalid bcrypt cost", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}

	// === 5. CREATE AND START THE SERVER ===
	srv := server.New(cfg, store, passwords, logger)

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = srv.Bootstrap(ctx)
	cancel()
	if err != nil {
		logger.Error("failed to bootstrap admin", slog.String("error", err.Error()))
		store.Close()
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	// and closes the store on its way out.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger builds the process logger. JSON output is meant for log
// collectors, text output for terminals.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func openStore(ctx context.Context, cfg config.Config) (*sqlstore.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	default:
		return sqlite.Open(ctx, cfg.DBPath)
	}
}
