package imports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-importer/core/metrics"
	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/alias"
	"stock-importer/feature/imports/match"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/state"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MatchRequest is an operator's resolution of one line.
type MatchRequest struct {
	LineID     string
	SKU        string
	LearnAlias bool
	// AliasText defaults to the line's SKU text.
	AliasText string
	User      string
}

// MatchResult reports the effects of a manual match.
type MatchResult struct {
	LineID       string `json:"line_id"`
	SKU          string `json:"sku"`
	Propagated   int    `json:"propagated"`
	AliasCreated bool   `json:"alias_created"`
	AliasUpdated bool   `json:"alias_updated"`
}

// RelateRequest selects the lines to re-run through the matcher.
// Exactly one field must be set.
type RelateRequest struct {
	ShipmentID string `json:"shipment_id"`
	BatchID    string `json:"batch_id"`
	Client     string `json:"client"`
	User       string `json:"-"`
}

// RelateResult counts pending lines around an auto-relate run.
type RelateResult struct {
	PendingBefore int `json:"pending_before"`
	PendingAfter  int `json:"pending_after"`
	Matched       int `json:"matched"`
}

// lineRef locates a line and the unit it belongs to. scope is the column
// grouping sibling lines.
type lineRef struct {
	model    any
	line     lineRow
	clientID uint
	scope    string
	scopeID  string
	shipment *models.Shipment
}

// ManualMatch resolves a line to an operator-chosen SKU, propagates the choice
// to pending siblings with the same normalized text and optionally learns an alias.
func (s *Service) ManualMatch(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, invalid(errors.New("sku is required"))
	}

	ref, err := s.findLine(ctx, req.LineID)
	if err != nil {
		return nil, err
	}
	if ref.shipment != nil && ref.shipment.Status == models.StatusEmitted {
		return nil, invalid(fmt.Errorf("%w: %s", ErrShipmentEmitted, ref.shipment.Number))
	}
	if err := state.TransitionLine(ref.line.Status, models.LineMatched); err != nil {
		return nil, invalid(err)
	}

	db := s.db.WithContext(ctx)
	products, err := catalog.LoadProducts(db, []string{sku})
	if err != nil {
		return nil, err
	}
	if _, ok := products[sku]; !ok {
		return nil, invalid(fmt.Errorf("%w: %s", ErrUnknownSKU, sku))
	}

	now := s.now()
	err = db.Model(ref.model).Where("id = ?", ref.line.ID).Updates(map[string]any{
		"resolved_sku": sku,
		"match_source": models.SourceManual,
		"status":       models.LineMatched,
		"processed_at": now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update line: %w", err)
	}
	metrics.MatchesTotal.WithLabelValues(string(models.SourceManual)).Inc()

	var siblings []lineRow
	err = db.Model(ref.model).
		Where(ref.scope+" = ? AND status = ? AND id <> ?", ref.scopeID, models.LinePending, ref.line.ID).
		Find(&siblings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sibling lines: %w", err)
	}
	key := alias.Normalize(ref.line.SKUText)
	var ids []string
	for _, l := range siblings {
		if key != "" && alias.Normalize(l.SKUText) == key {
			ids = append(ids, l.ID)
		}
	}
	propagated, err := match.Write(db, ref.model, []match.Assignment{{SKU: sku, Source: models.SourcePropagated, IDs: ids}}, s.batchSize, now)
	if err != nil {
		return nil, err
	}
	metrics.MatchesTotal.WithLabelValues(string(models.SourcePropagated)).Add(float64(propagated))

	res := &MatchResult{LineID: ref.line.ID, SKU: sku, Propagated: int(propagated)}
	if req.LearnAlias {
		text := req.AliasText
		if strings.TrimSpace(text) == "" {
			text = ref.line.SKUText
		}
		created, err := s.aliases.Upsert(ctx, ref.clientID, text, sku)
		if err != nil {
			return nil, err
		}
		res.AliasCreated = created
		res.AliasUpdated = !created
	}

	if ref.shipment != nil {
		if _, err := s.tracker.Normalize(ctx, ref.shipment.ID); err != nil {
			return nil, err
		}
		if _, _, err := s.refreshShipment(ctx, ref.shipment); err != nil {
			return nil, err
		}
	} else if err := s.refreshBatch(ctx, ref.scopeID); err != nil {
		return nil, err
	}

	s.record(ctx, "line.matched", req.User, ref.line.ID, map[string]any{
		"sku":           sku,
		"propagated":    res.Propagated,
		"alias_created": res.AliasCreated,
		"alias_updated": res.AliasUpdated,
	})
	return res, nil
}

// AutoRelate re-runs the matcher over the pending lines of a shipment, a batch
// or every open unit of a client. Running it twice changes nothing the second time.
func (s *Service) AutoRelate(ctx context.Context, req RelateRequest) (*RelateResult, error) {
	set := 0
	for _, v := range []string{req.ShipmentID, req.BatchID, req.Client} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set != 1 {
		return nil, invalid(errors.New("exactly one of shipment_id, batch_id or client is required"))
	}

	// Pick up products added since the last snapshot.
	s.catalog.Invalidate()

	db := s.db.WithContext(ctx)
	res := &RelateResult{}
	var subject string

	switch {
	case req.ShipmentID != "":
		subject = req.ShipmentID
		var sh models.Shipment
		if err := first(db.Where("id = ?", req.ShipmentID), &sh, "shipment"); err != nil {
			return nil, err
		}
		if err := s.relateShipments(ctx, sh.ClientID, []models.Shipment{sh}, res); err != nil {
			return nil, err
		}

	case req.BatchID != "":
		subject = req.BatchID
		var batch models.ImportBatch
		if err := first(db.Where("id = ?", req.BatchID), &batch, "batch"); err != nil {
			return nil, err
		}
		if batch.Kind == models.KindShipmentExport {
			var shipments []models.Shipment
			if err := db.Where("batch_id = ?", batch.ID).Find(&shipments).Error; err != nil {
				return nil, fmt.Errorf("failed to load shipments: %w", err)
			}
			if err := s.relateShipments(ctx, batch.ClientID, shipments, res); err != nil {
				return nil, err
			}
		} else if err := s.relateOrders(ctx, batch.ClientID, "batch_id", batch.ID, res); err != nil {
			return nil, err
		}

	default:
		client, err := s.catalog.ResolveClient(ctx, req.Client)
		if err != nil {
			if errors.Is(err, catalog.ErrClientNotFound) || errors.Is(err, catalog.ErrAmbiguousClient) {
				return nil, invalid(err)
			}
			return nil, err
		}
		subject = client.Name
		var shipments []models.Shipment
		if err := db.Where("client_id = ?", client.ID).Find(&shipments).Error; err != nil {
			return nil, fmt.Errorf("failed to load shipments: %w", err)
		}
		if err := s.relateShipments(ctx, client.ID, shipments, res); err != nil {
			return nil, err
		}
		if err := s.relateOrders(ctx, client.ID, "client_id", client.ID, res); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Auto-relate finished",
		zap.String("subject", subject),
		zap.Int("pending_before", res.PendingBefore),
		zap.Int("pending_after", res.PendingAfter))
	s.record(ctx, "lines.related", req.User, subject, map[string]any{
		"pending_before": res.PendingBefore,
		"pending_after":  res.PendingAfter,
	})
	return res, nil
}

func (s *Service) relateShipments(ctx context.Context, clientID uint, shipments []models.Shipment, res *RelateResult) error {
	var open []models.Shipment
	var ids []string
	for _, sh := range shipments {
		if sh.Status != models.StatusEmitted {
			open = append(open, sh)
			ids = append(ids, sh.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	db := s.db.WithContext(ctx)
	var pending []lineRow
	err := db.Model(&models.ShipmentLine{}).
		Where("shipment_id IN ? AND status = ?", ids, models.LinePending).
		Find(&pending).Error
	if err != nil {
		return fmt.Errorf("failed to load pending shipment lines: %w", err)
	}
	res.PendingBefore += len(pending)

	out, err := s.matcher.Run(ctx, &models.ShipmentLine{}, clientID, toMatchLines(pending))
	if err != nil {
		return err
	}
	res.Matched += out.Matched

	for i := range open {
		_, counts, err := s.refreshShipment(ctx, &open[i])
		if err != nil {
			return err
		}
		res.PendingAfter += counts.Pending
	}
	return nil
}

func (s *Service) relateOrders(ctx context.Context, clientID uint, column string, value any, res *RelateResult) error {
	db := s.db.WithContext(ctx)
	var pending []lineRow
	err := db.Model(&models.OrderLine{}).
		Where(column+" = ? AND status = ?", value, models.LinePending).
		Find(&pending).Error
	if err != nil {
		return fmt.Errorf("failed to load pending order lines: %w", err)
	}
	res.PendingBefore += len(pending)
	if len(pending) == 0 {
		return nil
	}

	var batchIDs []string
	err = db.Model(&models.OrderLine{}).
		Where(column+" = ? AND status = ?", value, models.LinePending).
		Distinct().Pluck("batch_id", &batchIDs).Error
	if err != nil {
		return fmt.Errorf("failed to load batches: %w", err)
	}

	out, err := s.matcher.Run(ctx, &models.OrderLine{}, clientID, toMatchLines(pending))
	if err != nil {
		return err
	}
	res.Matched += out.Matched
	res.PendingAfter += len(pending) - out.Matched

	for _, id := range batchIDs {
		if err := s.refreshBatch(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// findLine looks the id up among shipment lines first, then order lines.
func (s *Service) findLine(ctx context.Context, id string) (*lineRef, error) {
	db := s.db.WithContext(ctx)

	var sl models.ShipmentLine
	err := db.Where("id = ?", id).First(&sl).Error
	if err == nil {
		var sh models.Shipment
		if err := first(db.Where("id = ?", sl.ShipmentID), &sh, "shipment"); err != nil {
			return nil, err
		}
		return &lineRef{
			model:    &models.ShipmentLine{},
			line:     lineRow{ID: sl.ID, SKUText: sl.SKUText, SecondaryCode: sl.SecondaryCode, Status: sl.Status},
			clientID: sh.ClientID,
			scope:    "shipment_id",
			scopeID:  sh.ID,
			shipment: &sh,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load line: %w", err)
	}

	var ol models.OrderLine
	err = db.Where("id = ?", id).First(&ol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load line: %w", err)
	}
	return &lineRef{
		model:    &models.OrderLine{},
		line:     lineRow{ID: ol.ID, SKUText: ol.SKUText, SecondaryCode: ol.SecondaryCode, Status: ol.Status},
		clientID: ol.ClientID,
		scope:    "batch_id",
		scopeID:  ol.BatchID,
	}, nil
}

// refreshShipment re-evaluates a shipment's status from its lines and mirrors
// it onto the shipment's batch.
func (s *Service) refreshShipment(ctx context.Context, sh *models.Shipment) (models.BatchStatus, state.Counts, error) {
	counts, err := s.tracker.ShipmentCounts(ctx, sh.ID)
	if err != nil {
		return sh.Status, counts, err
	}
	next, err := state.Next(sh.Status, counts)
	if err != nil {
		return sh.Status, counts, err
	}
	if next == sh.Status {
		return next, counts, nil
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Shipment{}).Where("id = ?", sh.ID).Update("status", next).Error; err != nil {
		return sh.Status, counts, fmt.Errorf("failed to update shipment status: %w", err)
	}
	sh.Status = next
	if sh.BatchID != "" {
		err := db.Model(&models.ImportBatch{}).
			Where("id = ? AND status <> ?", sh.BatchID, models.StatusEmitted).
			Update("status", next).Error
		if err != nil {
			return next, counts, fmt.Errorf("failed to update batch status: %w", err)
		}
	}
	return next, counts, nil
}

func (s *Service) refreshBatch(ctx context.Context, batchID string) error {
	db := s.db.WithContext(ctx)
	var batch models.ImportBatch
	if err := first(db.Where("id = ?", batchID), &batch, "batch"); err != nil {
		return err
	}
	counts, err := s.tracker.BatchCounts(ctx, batchID)
	if err != nil {
		return err
	}
	next, err := state.Next(batch.Status, counts)
	if err != nil || next == batch.Status {
		return err
	}
	if err := db.Model(&batch).Update("status", next).Error; err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	return nil
}

func first(q *gorm.DB, dest any, what string) error {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
	return nil
}
