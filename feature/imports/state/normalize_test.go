package state_test

import (
	"context"
	"fmt"
	"testing"

	"stock-importer/core/database"
	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/models"
	"stock-importer/feature/imports/state"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, catalog.Models()...))
	require.NoError(t, database.Migrate(db, models.Models()...))
	return db
}

func ptr(s string) *string { return &s }

func seedShipment(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&[]catalog.Product{
		{SKU: "A", UnitPrice: decimal.RequireFromString("10.50")},
		{SKU: "KIT", UnitPrice: decimal.NewFromInt(30), IsKit: true},
	}).Error)
	require.NoError(t, db.Create(&models.Shipment{ID: "s1", ClientID: 1, Number: "100", Status: models.StatusDraft}).Error)
	require.NoError(t, db.Create(&[]models.ShipmentLine{
		{ID: "1", ShipmentID: "s1", Quantity: 2, Status: models.LineMatched, ResolvedSKU: ptr("A")},
		{ID: "2", ShipmentID: "s1", Quantity: 3, Status: models.LineMatched, ResolvedSKU: ptr("A")},
		{ID: "3", ShipmentID: "s1", Quantity: 1, Status: models.LineMatched, ResolvedSKU: ptr("KIT")},
		{ID: "4", ShipmentID: "s1", Quantity: 9, Status: models.LineMatched, ResolvedSKU: ptr("GONE")},
		{ID: "5", ShipmentID: "s1", Quantity: 4, Status: models.LinePending},
	}).Error)
}

func TestNormalize(t *testing.T) {
	db := setupDB(t)
	seedShipment(t, db)
	tracker := state.NewTracker(db)
	ctx := context.Background()

	items, err := tracker.Normalize(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SKU)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, items[1].IsKit)

	// Idempotent.
	_, err = tracker.Normalize(ctx, "s1")
	require.NoError(t, err)

	var stored []models.ShipmentItem
	require.NoError(t, db.Where("shipment_id = ?", "s1").Find(&stored).Error)
	assert.Len(t, stored, 2)

	var shipment models.Shipment
	require.NoError(t, db.First(&shipment, "id = ?", "s1").Error)
	assert.Equal(t, 2, shipment.TotalItems)
	assert.Equal(t, 6, shipment.TotalQuantity)
}

func TestShipmentCounts(t *testing.T) {
	db := setupDB(t)
	seedShipment(t, db)

	c, err := state.NewTracker(db).ShipmentCounts(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, state.Counts{Total: 5, Matched: 4, Pending: 1, Resolvable: 3}, c)
	assert.Equal(t, models.StatusPartial, state.Evaluate(c))
}

func TestBatchCounts_Empty(t *testing.T) {
	db := setupDB(t)
	c, err := state.NewTracker(db).BatchCounts(context.Background(), "none")
	require.NoError(t, err)
	assert.Equal(t, state.Counts{}, c)
	assert.Equal(t, models.StatusError, state.Evaluate(c))
}
