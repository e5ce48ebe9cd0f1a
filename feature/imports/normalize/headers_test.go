package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Código", "codigo"},
		{"CÃ³digo", "codigo"},
		{"\ufeffSKU", "sku"},
		{"  Preço  unitário ", "preco unitario"},
		{"# de anúncio", "de anuncio"},
		{"Qtd.", "qtd"},
		{"N.º de venda", "n o de venda"},
		{"Preço unitário de venda do anúncio (BRL)", "preco unitario de venda do anuncio brl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalHeader(tt.in), tt.in)
	}
}

func TestRepairMojibake(t *testing.T) {
	assert.Equal(t, "Código", RepairMojibake("CÃ³digo"))
	assert.Equal(t, "Preço", RepairMojibake("PreÃ§o"))
	assert.Equal(t, "SÃO PAULO", RepairMojibake("SÃO PAULO"))
	assert.Equal(t, "plain", RepairMojibake("plain"))
}

func TestSpecResolve(t *testing.T) {
	header := []string{"CÃ³digo ML", "sku", "Unidades", "Observação"}
	cols, missing := ShipmentSpec.Resolve(header)

	assert.Empty(t, missing)
	assert.Equal(t, 0, cols[FieldSecondaryCode])
	assert.Equal(t, 1, cols[FieldSKU])
	assert.Equal(t, 2, cols[FieldQuantity])
	assert.False(t, cols.Has(FieldUnitPrice))

	_, missing = ShipmentSpec.Resolve([]string{"Produto novo", "Qtd"})
	assert.Equal(t, []Field{FieldSKU}, missing)
}

func TestColumnsCell(t *testing.T) {
	cols := Columns{FieldSKU: 1, FieldQuantity: 5}
	row := []string{"a", "  X-1 "}
	assert.Equal(t, "X-1", cols.Cell(row, FieldSKU))
	assert.Equal(t, "", cols.Cell(row, FieldQuantity))
	assert.Equal(t, "", cols.Cell(row, FieldTitle))
}
