package sheet_test

import (
	"bytes"
	"testing"

	"stock-importer/feature/imports/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecode_CSV(t *testing.T) {
	t.Run("Semicolon with BOM", func(t *testing.T) {
		rows, err := sheet.Decode("envio.csv", []byte("\xef\xbb\xbfSKU;Quantidade\nA-1;2\nB;\n"))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"SKU", "Quantidade"}, {"A-1", "2"}, {"B", ""}}, rows)
	})

	t.Run("Comma", func(t *testing.T) {
		rows, err := sheet.Decode("orders.CSV", []byte("SKU,Unidades\n\"A,1\",3\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A,1", "3"}, rows[1])
	})

	t.Run("Windows-1252", func(t *testing.T) {
		rows, err := sheet.Decode("envio.csv", []byte("C\xf3digo;SKU\n1;A\n"))
		require.NoError(t, err)
		assert.Equal(t, "Código", rows[0][0])
	})
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"SKU", "Quantidade", "Data"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"CAM-AZ-38", 2, 45363}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := sheet.Decode("envio.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"CAM-AZ-38", "2", "45363"}, rows[1])
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := sheet.Decode("report.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, sheet.ErrUnsupportedFormat)

	_, err = sheet.Decode("broken.xlsx", []byte("not a zip"))
	assert.Error(t, err)
}
