package server_test

import (
	"testing"

	"stock-importer/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"Default when unset", 0, 32 * 1024 * 1024},
		{"Negative falls back", -1, 32 * 1024 * 1024},
		{"Configured", 8, 8 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.limit}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_IsProtected(t *testing.T) {
	assert.False(t, server.Config{}.IsProtected())
	assert.True(t, server.Config{ApiKey: "secret"}.IsProtected())
}
