package imports_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-importer/core/audit"
	"stock-importer/core/config"
	"stock-importer/core/progress"
	"stock-importer/feature/imports"
	"stock-importer/feature/imports/emit"
	"stock-importer/feature/imports/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T, f *fixture) *fiber.App {
	t.Helper()
	feature := imports.NewFeature(f.db, zap.NewNop(), config.ImportConfig{BatchSize: 10, CatalogTTL: time.Minute}, f.progress, audit.Nop{}, nil)
	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	f := setup(t, "P001")
	app := newApp(t, f)

	body, contentType := multipartBody(t, map[string]string{
		"kind":   string(models.KindShipmentExport),
		"client": "Loja Azul",
	}, "ENV-9.csv", csvFile("SKU;Quantidade", "P001;2", "other;1"))

	req := httptest.NewRequest("POST", "/imports/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(imports.UserHeader, "ana")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res imports.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.AutoMatched)
	assert.Equal(t, 1, res.Pending)
	assert.NotEmpty(t, res.ShipmentID)

	t.Run("Progress", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/imports/progress/"+res.BatchID, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var v progress.Value
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
		assert.Equal(t, progress.StageCompleted, v.Stage)
	})

	t.Run("EmitShipment", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/imports/shipments/"+res.ShipmentID+"/emit", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out emit.ShipmentResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "ENVIO-1-ENV-9", out.SaleID)

		resp, err = app.Test(httptest.NewRequest("POST", "/imports/shipments/"+res.ShipmentID+"/emit", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleUpload_Validation(t *testing.T) {
	f := setup(t)
	app := newApp(t, f)

	body, contentType := multipartBody(t, map[string]string{
		"kind":   string(models.KindShipmentExport),
		"client": "nobody",
	}, "ENV-1.csv", csvFile("SKU;Quantidade", "A;1"))
	req := httptest.NewRequest("POST", "/imports/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/imports/upload", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandlers_ErrorStatus(t *testing.T) {
	f := setup(t, "P001")
	app := newApp(t, f)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"UnknownProgress", "GET", "/imports/progress/nope", "", fiber.StatusNotFound},
		{"UnknownShipment", "POST", "/imports/shipments/nope/emit", "", fiber.StatusNotFound},
		{"UnknownBatch", "POST", "/imports/batches/nope/emit?dry_run=true", "", fiber.StatusNotFound},
		{"UnknownLine", "POST", "/imports/lines/nope/match", `{"sku":"P001"}`, fiber.StatusNotFound},
		{"BadMatchBody", "POST", "/imports/lines/nope/match", `{`, fiber.StatusBadRequest},
		{"RelateWithoutScope", "POST", "/imports/relate", `{}`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusUnprocessableEntity, imports.StatusFor(imports.ErrNothingToEmit))
	assert.Equal(t, fiber.StatusInternalServerError, imports.StatusFor(assert.AnError))
}
