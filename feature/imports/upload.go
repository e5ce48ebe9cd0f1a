package imports

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"stock-importer/core/logger"
	"stock-importer/core/metrics"
	"stock-importer/core/progress"
	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/alias"
	"stock-importer/feature/imports/match"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/normalize"
	"stock-importer/feature/imports/sheet"
	"stock-importer/feature/imports/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UploadRequest is one spreadsheet to ingest.
type UploadRequest struct {
	Filename string
	Content  []byte
	Kind     models.Kind
	// Client is a client name or numeric id.
	Client string
	// ShipmentNumber defaults to the file name without extension.
	ShipmentNumber string
	// ImportDate fills the order date of rows that carry none.
	ImportDate string
	// BatchID lets the caller poll progress before the upload returns.
	BatchID string
	User    string
}

// UploadResult summarizes an ingestion run.
type UploadResult struct {
	BatchID     string               `json:"batch_id"`
	ShipmentID  string               `json:"shipment_id,omitempty"`
	Status      models.BatchStatus   `json:"status"`
	TotalRows   int                  `json:"total_rows"`
	Inserted    int                  `json:"inserted"`
	AutoMatched int                  `json:"auto_matched"`
	Pending     int                  `json:"pending"`
	Skipped     int                  `json:"skipped"`
	Duplicates  int                  `json:"duplicates"`
	Warnings    []normalize.RowError `json:"warnings"`
}

var (
	orderNaturalKey = []clause.Column{
		{Name: "client_id"}, {Name: "source_order_id"}, {Name: "sku_text"}, {Name: "quantity"}, {Name: "unit_price"},
	}
	orderUpsertColumns = []string{
		"batch_id", "order_date", "status_text", "cancel_reason", "channel",
		"shipping_method", "buyer", "secondary_code", "title",
	}
)

// lineRow is the part of a raw line read back for matching.
type lineRow struct {
	ID            string
	SKUText       string `gorm:"column:sku_text"`
	SecondaryCode string
	Status        models.LineStatus
}

func toMatchLines(rows []lineRow) []match.Line {
	out := make([]match.Line, len(rows))
	for i, r := range rows {
		out[i] = match.Line{ID: r.ID, SKUText: r.SKUText, SecondaryCode: r.SecondaryCode}
	}
	return out
}

// Upload decodes, normalizes, persists and auto-matches a spreadsheet.
// Validation problems are reported before anything is written.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	started := s.now()

	if !req.Kind.Valid() {
		return nil, invalid(fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind))
	}
	if len(req.Content) == 0 {
		return nil, invalid(errors.New("file is empty"))
	}

	batchID := req.BatchID
	if batchID == "" {
		batchID = uuid.NewString()
	} else if _, err := uuid.Parse(batchID); err != nil {
		return nil, invalid(fmt.Errorf("batch_id: %w", err))
	}

	var importDate *time.Time
	if req.ImportDate != "" {
		d, ok := normalize.ParseDate(req.ImportDate)
		if !ok {
			return nil, invalid(fmt.Errorf("import_date %q is not a date", req.ImportDate))
		}
		importDate = &d
	}

	client, err := s.catalog.ResolveClient(ctx, req.Client)
	if err != nil {
		if errors.Is(err, catalog.ErrClientNotFound) || errors.Is(err, catalog.ErrAmbiguousClient) {
			return nil, invalid(err)
		}
		return nil, err
	}

	rows, err := sheet.Decode(req.Filename, req.Content)
	if err != nil {
		return nil, invalid(err)
	}

	log := logger.WithUser(s.logger, req.User).With(
		zap.String("batch_id", batchID),
		zap.String("kind", string(req.Kind)),
		zap.Uint("client_id", client.ID))

	s.report(batchID, s.progress.Start(ctx, batchID, len(rows)))
	s.report(batchID, s.progress.Update(ctx, batchID, progress.StageReading, 0, len(rows), "reading "+req.Filename))

	var res *UploadResult
	switch req.Kind {
	case models.KindShipmentExport:
		res, err = s.uploadShipment(ctx, batchID, client, req, rows)
	case models.KindOrderExport:
		res, err = s.uploadOrders(ctx, batchID, client, req, rows, importDate)
	}
	if err != nil {
		s.report(batchID, s.progress.Fail(ctx, batchID, err.Error()))
		log.Error("Import failed", zap.Error(err))
		return nil, err
	}

	if res.Status == models.StatusError {
		s.report(batchID, s.progress.Fail(ctx, batchID, "no rows ingested"))
	} else {
		s.report(batchID, s.progress.Complete(ctx, batchID, fmt.Sprintf("%d rows, %d matched", res.Inserted, res.AutoMatched)))
	}

	kind := string(req.Kind)
	metrics.RowsIngestedTotal.WithLabelValues(kind).Add(float64(res.Inserted))
	metrics.RowWarningsTotal.WithLabelValues(kind).Add(float64(len(res.Warnings)))
	metrics.ImportDuration.WithLabelValues(kind).Observe(s.now().Sub(started).Seconds())

	log.Info("Import finished",
		zap.String("status", string(res.Status)),
		zap.Int("inserted", res.Inserted),
		zap.Int("auto_matched", res.AutoMatched),
		zap.Int("pending", res.Pending),
		zap.Int("warnings", len(res.Warnings)))

	s.record(ctx, "import.uploaded", req.User, batchID, map[string]any{
		"kind":         kind,
		"filename":     req.Filename,
		"client_id":    client.ID,
		"inserted":     res.Inserted,
		"auto_matched": res.AutoMatched,
		"pending":      res.Pending,
	})
	return res, nil
}

func (s *Service) uploadShipment(ctx context.Context, batchID string, client catalog.Client, req UploadRequest, rows [][]string) (*UploadResult, error) {
	ext, err := normalize.ExtractShipment(rows)
	if err != nil {
		return nil, invalid(err)
	}

	number := strings.TrimSpace(req.ShipmentNumber)
	if number == "" {
		number = strings.TrimSuffix(filepath.Base(req.Filename), filepath.Ext(req.Filename))
	}
	if number == "" {
		return nil, invalid(errors.New("shipment number is required"))
	}

	db := s.db.WithContext(ctx)
	var shipment models.Shipment
	err = db.Where("client_id = ? AND number = ?", client.ID, number).First(&shipment).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up shipment: %w", err)
	}
	if found && shipment.Status == models.StatusEmitted {
		return nil, invalid(fmt.Errorf("%w: %s", ErrShipmentEmitted, number))
	}

	if err := s.createBatch(ctx, batchID, client.ID, req, ext.Total); err != nil {
		return nil, err
	}
	s.report(batchID, s.progress.Update(ctx, batchID, progress.StageIngesting, 0, len(ext.Rows), "replacing shipment lines"))

	lines := make([]models.ShipmentLine, len(ext.Rows))
	err = db.Transaction(func(tx *gorm.DB) error {
		if found {
			if err := tx.Where("shipment_id = ?", shipment.ID).Delete(&models.ShipmentLine{}).Error; err != nil {
				return fmt.Errorf("failed to delete previous lines: %w", err)
			}
			if err := tx.Where("shipment_id = ?", shipment.ID).Delete(&models.ShipmentItem{}).Error; err != nil {
				return fmt.Errorf("failed to delete previous items: %w", err)
			}
			err := tx.Model(&shipment).Updates(map[string]any{
				"batch_id":       batchID,
				"status":         models.StatusDraft,
				"total_items":    0,
				"total_quantity": 0,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to reset shipment: %w", err)
			}
			shipment.BatchID = batchID
			shipment.Status = models.StatusDraft
		} else {
			shipment = models.Shipment{
				ID:       uuid.NewString(),
				ClientID: client.ID,
				Number:   number,
				BatchID:  batchID,
				Status:   models.StatusDraft,
			}
			if err := tx.Create(&shipment).Error; err != nil {
				if alias.IsDuplicate(err) {
					return invalid(fmt.Errorf("shipment %s is being imported concurrently", number))
				}
				return fmt.Errorf("failed to create shipment: %w", err)
			}
		}

		for i, r := range ext.Rows {
			lines[i] = models.ShipmentLine{
				ID:            uuid.NewString(),
				ShipmentID:    shipment.ID,
				BatchID:       batchID,
				Position:      r.Row,
				SKUText:       r.SKUText,
				SecondaryCode: r.SecondaryCode,
				Quantity:      r.Quantity,
				UnitPrice:     r.UnitPrice,
				Status:        models.LinePending,
			}
		}
		if len(lines) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&lines, s.batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert shipment lines: %w", err)
		}
		return nil
	})
	if err != nil {
		s.failBatch(ctx, batchID)
		return nil, err
	}

	s.report(batchID, s.progress.Update(ctx, batchID, progress.StageMatching, len(lines), len(lines), "matching"))
	input := make([]match.Line, len(lines))
	for i, l := range lines {
		input[i] = match.Line{ID: l.ID, SKUText: l.SKUText, SecondaryCode: l.SecondaryCode}
	}
	out, err := s.matcher.Run(ctx, &models.ShipmentLine{}, client.ID, input)
	if err != nil {
		s.failBatch(ctx, batchID)
		return nil, err
	}

	status, counts, err := s.refreshShipment(ctx, &shipment)
	if err != nil {
		return nil, err
	}
	if err := s.finishBatch(ctx, batchID, status, len(lines), len(ext.Warnings)); err != nil {
		return nil, err
	}

	return &UploadResult{
		BatchID:     batchID,
		ShipmentID:  shipment.ID,
		Status:      status,
		TotalRows:   ext.Total,
		Inserted:    len(lines),
		AutoMatched: out.Matched,
		Pending:     counts.Pending,
		Skipped:     ext.Skipped,
		Warnings:    warnings(ext.Warnings),
	}, nil
}

func (s *Service) uploadOrders(ctx context.Context, batchID string, client catalog.Client, req UploadRequest, rows [][]string, importDate *time.Time) (*UploadResult, error) {
	ext, err := normalize.ExtractOrders(rows)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.createBatch(ctx, batchID, client.ID, req, ext.Total); err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, len(ext.Rows))
	for i, r := range ext.Rows {
		date := r.OrderDate
		if date == nil {
			date = importDate
		}
		lines[i] = models.OrderLine{
			ID:             uuid.NewString(),
			BatchID:        batchID,
			ClientID:       client.ID,
			SourceOrderID:  r.SourceOrderID,
			OrderDate:      date,
			StatusText:     r.StatusText,
			CancelReason:   r.CancelReason,
			Channel:        r.Channel,
			ShippingMethod: r.ShippingMethod,
			Buyer:          r.Buyer,
			SKUText:        r.SKUText,
			SecondaryCode:  r.ListingID,
			Title:          r.Title,
			Quantity:       r.Quantity,
			UnitPrice:      r.UnitPrice,
			Status:         models.LinePending,
		}
	}

	db := s.db.WithContext(ctx)
	for start := 0; start < len(lines); start += s.batchSize {
		end := min(start+s.batchSize, len(lines))
		s.report(batchID, s.progress.Update(ctx, batchID, progress.StageIngesting, start, len(lines), "saving order lines"))

		chunk := lines[start:end]
		err := db.Clauses(clause.OnConflict{
			Columns:   orderNaturalKey,
			DoUpdates: clause.AssignmentColumns(orderUpsertColumns),
		}).Create(&chunk).Error
		if err != nil {
			s.failBatch(ctx, batchID)
			return nil, fmt.Errorf("failed to upsert order lines: %w", err)
		}
	}

	s.report(batchID, s.progress.Update(ctx, batchID, progress.StageMatching, len(lines), len(lines), "matching"))
	var pending []lineRow
	err = db.Model(&models.OrderLine{}).
		Where("batch_id = ? AND status = ?", batchID, models.LinePending).
		Find(&pending).Error
	if err != nil {
		s.failBatch(ctx, batchID)
		return nil, fmt.Errorf("failed to load pending order lines: %w", err)
	}
	out, err := s.matcher.Run(ctx, &models.OrderLine{}, client.ID, toMatchLines(pending))
	if err != nil {
		s.failBatch(ctx, batchID)
		return nil, err
	}

	counts, err := s.tracker.BatchCounts(ctx, batchID)
	if err != nil {
		return nil, err
	}
	status := state.Evaluate(counts)
	if err := s.finishBatch(ctx, batchID, status, len(lines), len(ext.Warnings)); err != nil {
		return nil, err
	}

	return &UploadResult{
		BatchID:     batchID,
		Status:      status,
		TotalRows:   ext.Total,
		Inserted:    len(lines),
		AutoMatched: out.Matched,
		Pending:     counts.Pending,
		Duplicates:  ext.Duplicates,
		Warnings:    warnings(ext.Warnings),
	}, nil
}

func (s *Service) createBatch(ctx context.Context, batchID string, clientID uint, req UploadRequest, total int) error {
	batch := models.ImportBatch{
		ID:        batchID,
		Filename:  req.Filename,
		Kind:      req.Kind,
		ClientID:  clientID,
		Status:    models.StatusDraft,
		TotalRows: total,
		StartedAt: s.now(),
	}
	if s.archive != nil {
		key, err := s.archive.Store(ctx, batchID, req.Filename, req.Content)
		if err != nil {
			s.logger.Warn("Failed to archive upload", zap.String("batch_id", batchID), zap.Error(err))
		}
		batch.ArchiveKey = key
	}

	if err := s.db.WithContext(ctx).Create(&batch).Error; err != nil {
		if alias.IsDuplicate(err) {
			return invalid(fmt.Errorf("batch %s already exists", batchID))
		}
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

func (s *Service) finishBatch(ctx context.Context, batchID string, status models.BatchStatus, processed, warnings int) error {
	err := s.db.WithContext(ctx).Model(&models.ImportBatch{}).Where("id = ?", batchID).Updates(map[string]any{
		"status":         status,
		"processed_rows": processed,
		"warning_count":  warnings,
		"finished_at":    s.now(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to finish batch: %w", err)
	}
	return nil
}

func (s *Service) failBatch(ctx context.Context, batchID string) {
	err := s.db.WithContext(ctx).Model(&models.ImportBatch{}).Where("id = ?", batchID).
		Updates(map[string]any{"status": models.StatusError, "finished_at": s.now()}).Error
	if err != nil {
		s.logger.Warn("Failed to mark batch as failed", zap.String("batch_id", batchID), zap.Error(err))
	}
}

func warnings(w []normalize.RowError) []normalize.RowError {
	if w == nil {
		return []normalize.RowError{}
	}
	return w
}
