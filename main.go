package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/example/nihongo/internal/config"
	"github.com/example/nihongo/internal/database"
	"github.com/example/nihongo/internal/datastore"
	"github.com/example/nihongo/internal/ledger"
	"github.com/example/nihongo/internal/session"
	"github.com/example/nihongo/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	progress, err := ledger.NewProgress(store, logger)
	if err != nil {
		return err
	}
	mistakes, err := ledger.NewMistakes(store, logger)
	if err != nil {
		return err
	}

	data := datastore.New(cfg.DataDir, logger)
	console := ui.NewConsole(os.Stdin, os.Stdout)

	controller := session.NewController(cfg, console, data, progress, mistakes, logger)
	return controller.Run()
}

// openStore picks the ledger backend: flat CSV files by default, embedded
// SQLite when configured.
func openStore(cfg config.Config, logger *zap.Logger) (ledger.Store, func(), error) {
	if cfg.StorageBackend == "sqlite" {
		db, err := database.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return db, func() { db.Close() }, nil
	}
	return ledger.NewCSVStore(cfg.DataDir, logger), func() {}, nil
}

// newLogger builds a console logger on stderr so log output stays out of
// the interactive UI on stdout.
func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.OutputPaths = []string{"stderr"}
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zapCfg.Level = lvl
	}
	return zapCfg.Build()
}
