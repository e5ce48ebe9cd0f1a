package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractShipment(t *testing.T) {
	rows := [][]string{
		{"Envio 4411"},
		{},
		{"Código", "SKU", "Quantidade", "Preço"},
		{"MLB1", "CAM-AZ-38", "2", "19,90"},
		{"MLB2", "", "3"},
		{"MLB3", "BONE", "0"},
		{"", "", ""},
		{"MLB4", " bone-01 ", "1"},
	}

	res, err := ExtractShipment(rows)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "CAM-AZ-38", res.Rows[0].SKUText)
	assert.Equal(t, "MLB1", res.Rows[0].SecondaryCode)
	assert.True(t, res.Rows[0].UnitPrice.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 4, res.Rows[0].Row)
	assert.Equal(t, "bone-01", res.Rows[1].SKUText)
	assert.Equal(t, []RowError{{Row: 5, Reason: "missing sku"}, {Row: 6, Reason: "non-positive quantity"}}, res.Warnings)
}

func TestExtractShipment_MissingColumns(t *testing.T) {
	_, err := ExtractShipment([][]string{{"Foo", "Bar"}, {"1", "2"}})
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = ExtractShipment(nil)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestExtractOrders(t *testing.T) {
	rows := [][]string{
		{"N.º de venda", "Pack ID", "Data da venda", "Estado", "Canal de venda", "Forma de entrega", "SKU", "Unidades", "Preço unitário de venda do anúncio (BRL)"},
		{"2000001", "", "12 de março de 2024 14:05 hs.", "Entregue", "Mercado Livre", "Mercado Envios Full", "cam-az-38", "1", "59,90"},
		{"", "P-77", "12/03/2024", "Cancelada", "", "", "bone", "2", "10"},
		{"", "", "12/03/2024", "", "", "", "x", "1", "1"},
		{"2000002", "", "", "", "", "", "", "1", "1"},
		{"2000001", "", "13/03/2024", "Entregue", "Mercado Livre", "Coleta", "CAM-AZ-38", "1", "59.90"},
		{"2.000003E+6", "", "bad date", "", "", "", "A", "1", "1"},
	}

	res, err := ExtractOrders(rows)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 1, res.Duplicates)
	require.Len(t, res.Rows, 3)

	first := res.Rows[0]
	assert.Equal(t, "2000001", first.SourceOrderID)
	assert.Equal(t, "CAM-AZ-38", first.SKUText)
	assert.Equal(t, "Coleta", first.ShippingMethod, "last occurrence wins")
	require.NotNil(t, first.OrderDate)
	assert.Equal(t, 13, first.OrderDate.Day())

	assert.Equal(t, "P-77", res.Rows[1].SourceOrderID)
	assert.Equal(t, "BONE", res.Rows[1].SKUText)
	assert.Equal(t, "2000003", res.Rows[2].SourceOrderID)

	reasons := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		reasons = append(reasons, w.Reason)
	}
	assert.Equal(t, []string{"missing order id", "missing sku", `unparseable date "bad date"`}, reasons)
}

func TestExtractOrders_RequiresOrderColumn(t *testing.T) {
	_, err := ExtractOrders([][]string{{"SKU", "Unidades"}, {"A", "1"}})
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestDedup(t *testing.T) {
	rows := []OrderRow{
		{Row: 1, SourceOrderID: "1", SKUText: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(5), Buyer: "x"},
		{Row: 2, SourceOrderID: "1", SKUText: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(5)},
		{Row: 3, SourceOrderID: "1", SKUText: "A", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00"), Buyer: "y"},
	}
	out := Dedup(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "y", out[0].Buyer)
	assert.Equal(t, 3, out[0].Row)
}
