package emit

import (
	"testing"

	"stock-importer/feature/imports/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCancelled(t *testing.T) {
	tests := []struct {
		status, reason string
		want           bool
	}{
		{"Cancelada", "", true},
		{"Venda cancelada pelo comprador", "", true},
		{"Devolução em andamento", "", true},
		{"Entregue", "", false},
		{"Entregue", "arrependimento", true},
		{"", "   ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCancelled(tt.status, tt.reason), "%q / %q", tt.status, tt.reason)
	}
}

func TestIsFulfillment(t *testing.T) {
	kw := []string{"full", "fulfillment", "fullfilment"}

	assert.True(t, IsFulfillment(kw, "Mercado Envios Full"))
	assert.True(t, IsFulfillment(kw, "", "FULLFILMENT"))
	assert.True(t, IsFulfillment(kw, "Mercado Livre", "Fulfillment"))
	assert.False(t, IsFulfillment(kw, "Mercado Envíos Flex", "Correios"))
	assert.False(t, IsFulfillment(nil, "full"))
}

func TestGroupOrders(t *testing.T) {
	a, b := "A", "B"
	lines := []models.OrderLine{
		{SourceOrderID: "2", SKUText: "A", Quantity: 1, ResolvedSKU: &a, Status: models.LineMatched, Channel: "ML"},
		{SourceOrderID: "1", SKUText: "B", Quantity: 2, ResolvedSKU: &b, Status: models.LineMatched},
		{SourceOrderID: "1", SKUText: "B2", Quantity: 3, ResolvedSKU: &b, Status: models.LineMatched, StatusText: "Cancelada"},
		{SourceOrderID: "2", SKUText: "x", Quantity: 1, Status: models.LinePending},
		{SourceOrderID: "2", SKUText: "A", Quantity: 0, ResolvedSKU: &a, Status: models.LineMatched},
	}

	orders := groupOrders(lines)
	require.Len(t, orders, 2)

	assert.Equal(t, "ML-1", orders[0].OrderID)
	assert.True(t, orders[0].Cancelled)
	assert.Equal(t, []Item{{SKU: "B", Quantity: 5}}, orders[0].Items)

	assert.Equal(t, "2", orders[1].SourceID)
	assert.Equal(t, 3, orders[1].Lines)
	assert.Equal(t, 1, orders[1].Pending)
	assert.Equal(t, "ML", orders[1].Channel)
	assert.Equal(t, []Item{{SKU: "A", Quantity: 1}}, orders[1].Items)
}
