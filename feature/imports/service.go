package imports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-importer/core/audit"
	"stock-importer/core/config"
	"stock-importer/core/progress"
	"stock-importer/core/storage"
	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/alias"
	"stock-importer/feature/imports/emit"
	"stock-importer/feature/imports/ledger"
	"stock-importer/feature/imports/match"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/state"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the import pipeline: ingestion, matching, manual resolution and
// emission.
type Service struct {
	db        *gorm.DB
	logger    *zap.Logger
	catalog   *catalog.Catalog
	aliases   *alias.Store
	matcher   *match.Matcher
	tracker   *state.Tracker
	engine    *emit.Engine
	progress  progress.Reporter
	audit     audit.Sink
	archive   *storage.Archive
	batchSize int
	now       func() time.Time
}

// NewService wires the pipeline. archive may be nil to disable upload archiving.
func NewService(db *gorm.DB, logger *zap.Logger, cfg config.ImportConfig, reporter progress.Reporter, sink audit.Sink, archive *storage.Archive) *Service {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	cat := catalog.New(db, cfg.CatalogTTL)
	aliases := alias.NewStore(db)
	return &Service{
		db:        db,
		logger:    logger,
		catalog:   cat,
		aliases:   aliases,
		matcher:   match.New(db, cat, aliases, batchSize),
		tracker:   state.NewTracker(db),
		engine:    emit.New(db, cfg.FulfillmentKeywords, batchSize, logger),
		progress:  reporter,
		audit:     sink,
		archive:   archive,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Models lists every table the import pipeline needs.
func Models() []any {
	var all []any
	all = append(all, catalog.Models()...)
	all = append(all, models.Models()...)
	all = append(all, &alias.Alias{})
	all = append(all, ledger.Models()...)
	return all
}

// Progress returns the live progress of a batch.
func (s *Service) Progress(ctx context.Context, batchID string) (progress.Value, error) {
	v, err := s.progress.Get(ctx, batchID)
	if errors.Is(err, progress.ErrNotFound) {
		return v, fmt.Errorf("%w: progress of %s", ErrNotFound, batchID)
	}
	return v, err
}

// EmitShipment posts a resolved shipment.
func (s *Service) EmitShipment(ctx context.Context, shipmentID, user string) (*emit.ShipmentResult, error) {
	res, err := s.engine.EmitShipment(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, ErrShipmentEmitted) || errors.Is(err, state.ErrInvalidTransition) {
			return nil, invalid(err)
		}
		return nil, err
	}
	s.record(ctx, "shipment.emitted", user, shipmentID, map[string]any{
		"number":   res.Number,
		"sale_id":  res.SaleID,
		"items":    res.Items,
		"quantity": res.Quantity,
	})
	return res, nil
}

// PlanBatch previews the emission of an order-export batch.
func (s *Service) PlanBatch(ctx context.Context, batchID string) (*emit.Plan, error) {
	plan, err := s.engine.PlanBatch(ctx, batchID)
	if errors.Is(err, emit.ErrWrongKind) {
		return nil, invalid(err)
	}
	return plan, err
}

// ApplyPlan executes a previously built plan.
func (s *Service) ApplyPlan(ctx context.Context, plan *emit.Plan, user string) (*emit.BatchResult, error) {
	s.report(plan.BatchID, s.progress.Update(ctx, plan.BatchID, progress.StageEmitting, 0, len(plan.Actions), "emitting orders"))

	res, err := s.engine.ApplyPlan(ctx, plan)
	if err != nil {
		s.report(plan.BatchID, s.progress.Fail(ctx, plan.BatchID, err.Error()))
		return res, err
	}
	s.report(plan.BatchID, s.progress.Complete(ctx, plan.BatchID, fmt.Sprintf("%d orders emitted", res.Inserted)))

	s.record(ctx, "batch.emitted", user, plan.BatchID, map[string]any{
		"inserted":            res.Inserted,
		"already_existed":     res.AlreadyExisted,
		"reversed":            res.Reversed,
		"skipped_cancelled":   res.SkippedCancelled,
		"skipped_fulfillment": res.SkippedFulfillment,
		"skipped_pending":     res.SkippedPending,
		"errors":              len(res.Errors),
	})
	return res, nil
}

// EmitBatch plans and applies an order-export batch.
func (s *Service) EmitBatch(ctx context.Context, batchID, user string) (*emit.BatchResult, error) {
	plan, err := s.PlanBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return s.ApplyPlan(ctx, plan, user)
}

// report logs a failed progress write. Progress is best effort and never
// fails the import.
func (s *Service) report(batchID string, err error) {
	if err != nil {
		s.logger.Warn("Failed to update progress", zap.String("batch_id", batchID), zap.Error(err))
	}
}

func (s *Service) record(ctx context.Context, action, user, subject string, details map[string]any) {
	s.audit.Record(ctx, audit.Event{
		Action:  action,
		User:    user,
		Subject: subject,
		Details: details,
		At:      s.now(),
	})
}
