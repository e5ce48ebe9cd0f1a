package cmd

import (
	"fmt"

	"stock-importer/core/audit"
	"stock-importer/core/config"
	"stock-importer/core/database"
	"stock-importer/core/logger"
	"stock-importer/core/progress"
	"stock-importer/core/storage"
	"stock-importer/feature/imports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment is everything a command needs to talk to the import pipeline.
type environment struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	sink    audit.Sink
	feature *imports.Feature
}

// bootstrap loads configuration and wires the database, progress store,
// activity sink and optional upload archive into the imports feature.
func bootstrap() (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	reporter, err := progress.New(cfg.Progress)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress store: %w", err)
	}

	sink, err := audit.New(cfg.Audit, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity sink: %w", err)
	}

	var archive *storage.Archive
	if cfg.Import.ArchiveUploads {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			_ = sink.Close()
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		archive = storage.NewArchive(client, cfg.Storage.Bucket, cfg.Storage.Region)
	}

	return &environment{
		cfg:     cfg,
		log:     l,
		db:      db,
		sink:    sink,
		feature: imports.NewFeature(db, l, cfg.Import, reporter, sink, archive),
	}, nil
}

// service returns the import service behind the feature.
func (e *environment) service() *imports.Service {
	return e.feature.Service()
}

// close flushes the activity sink and the logger.
func (e *environment) close() {
	if err := e.sink.Close(); err != nil {
		e.log.Warn("Failed to close activity sink", zap.Error(err))
	}
	_ = e.log.Sync()
}
