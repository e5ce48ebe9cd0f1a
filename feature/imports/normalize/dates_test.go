package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"12/03/2024", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), true},
		{"12/03/2024 14:05", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC), true},
		{"2024-03-12", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-12 08:30:00", time.Date(2024, 3, 12, 8, 30, 0, 0, time.UTC), true},
		{"12 de março de 2024 14:05 hs.", time.Date(2024, 3, 12, 14, 5, 0, 0, time.UTC), true},
		{"1 de dezembro de 2023", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"45363", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), true},
		{"45363.5", time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC), true},
		{"31 de fevereiro de 2024", time.Time{}, false},
		{"ontem", time.Time{}, false},
		{"", time.Time{}, false},
		{"-4", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
		}
	}
}
