package cmd

import (
	"fmt"

	"tracker-comparer/core/config"
	"tracker-comparer/core/database"
	"tracker-comparer/core/logger"
	"tracker-comparer/core/storage"
	"tracker-comparer/feature/preferences"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bootstrap bundles what every command needs. Database and storage are
// optional; commands degrade when they are nil.
type bootstrap struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  storage.Client
	prefs  *preferences.Store
}

func loadBootstrap(withDB, withStorage bool) (*bootstrap, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &bootstrap{cfg: cfg, logger: logg}

	if withDB {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			rt.db = conn
			rt.prefs = preferences.NewStore(conn)
			if err := rt.prefs.Migrate(); err != nil {
				logg.Warn("Preferences migration failed", zap.Error(err))
				rt.prefs = nil
			}
		}
	}

	if withStorage {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			rt.store = store
		}
	}

	return rt, nil
}
