package auth_test

import (
	"net/http/httptest"
	"testing"

	"stock-importer/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: key, Skip: []string{"/metrics"}}))
	app.Get("/imports/progress/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		path   string
		want   int
	}{
		{"Disabled", "", "", "/imports/progress/x", fiber.StatusOK},
		{"Missing key", "secret", "", "/imports/progress/x", fiber.StatusUnauthorized},
		{"Wrong key", "secret", "nope", "/imports/progress/x", fiber.StatusUnauthorized},
		{"Valid key", "secret", "secret", "/imports/progress/x", fiber.StatusOK},
		{"Skipped path", "secret", "", "/metrics", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.HeaderName, tt.header)
			}
			resp, err := newApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
