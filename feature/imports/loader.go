package imports

import (
	"stock-importer/core/audit"
	"stock-importer/core/config"
	"stock-importer/core/progress"
	"stock-importer/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Imports feature.
func NewFeature(db *gorm.DB, logger *zap.Logger, cfg config.ImportConfig, reporter progress.Reporter, sink audit.Sink, archive *storage.Archive) *Feature {
	svc := NewService(db, logger, cfg, reporter, sink, archive)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "imports"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the pipeline to the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
