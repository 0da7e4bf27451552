package cmd

import (
	"fmt"

	"watchstate/core/config"
	"watchstate/core/database"
	"watchstate/core/logger"
	"watchstate/core/server"
	"watchstate/core/storage"
	"watchstate/feature/backup"
	"watchstate/feature/history"
	"watchstate/feature/ignore"
	"watchstate/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the wired services shared by every command.
type application struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	client storage.Client

	history   *history.Service
	ignore    *ignore.Service
	backup    *backup.Service
	integrity *integrity.Service
}

// bootstrap loads the configuration, connects the database and object storage and
// builds the services. Tables are migrated unless skipMigrate is set.
func bootstrap(skipMigrate bool) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logg.Debug("Connected to database", zap.String("driver", cfg.Database.Driver))

	backends, err := cfg.Sync.ParseBackends()
	if err != nil {
		return nil, err
	}
	if len(backends) == 0 {
		logg.Warn("No backends configured, set SYNC_BACKENDS to name=kind pairs")
	}

	app := &application{cfg: cfg, log: logg, db: db}
	app.ignore = ignore.NewService(db, logg.Named("ignore"), cfg.Sync.IgnoreCacheTTL())
	app.history = history.NewService(history.NewStore(db, logg.Named("store")), app.ignore, backends, logg.Named("history"))

	if !skipMigrate {
		if err := app.history.Store().Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate history tables: %w", err)
		}
		if err := app.ignore.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate ignore table: %w", err)
		}
	}

	var prefixes []string
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		app.client = client
		app.backup = backup.NewService(app.history, client, cfg.Storage.Bucket, cfg.Sync.BackupPrefix, logg.Named("backup"))
		prefixes = []string{app.backup.Prefix()}
	}

	app.integrity = integrity.NewService(app.client, cfg.Storage.Bucket, prefixes, db, logg.Named("integrity"))

	logg.Debug("Services ready",
		zap.Strings("backends", server.BackendNames(backends)),
		zap.Bool("storage", cfg.Storage.Enabled))
	return app, nil
}

// close releases the database connection and flushes the logger.
func (a *application) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

func (a *application) requireBackup() error {
	if a.backup == nil {
		return fmt.Errorf("object storage is disabled, set STORAGE_ENABLED=true")
	}
	return nil
}
