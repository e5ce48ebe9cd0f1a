package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{3, 3},
		{int64(7), 7},
		{2.9, 2},
		{"12", 12},
		{" 4 ", 4},
		{"2,0", 2},
		{"3.00", 3},
		{"", 0},
		{"abc", 0},
		{nil, 0},
		{[]byte("5"), 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToInt(tt.in), "input %v", tt.in)
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "ABC", ToString("  ABC "))
	assert.Equal(t, "12345", ToString(float64(12345)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "", ToString(nil))
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"R$ 1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"19,90", "19.9", true},
		{"19.90", "19.9", true},
		{"1.000.000", "1000000", true},
		{"-5,5", "-5.5", true},
		{"", "0", false},
		{"n/a", "0", false},
	}
	for _, tt := range tests {
		got, ok := ParseDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s => %s", tt.in, got)
	}
}

func TestToDecimal(t *testing.T) {
	assert.True(t, ToDecimal(10.5).Equal(decimal.RequireFromString("10.5")))
	assert.True(t, ToDecimal("7,25").Equal(decimal.RequireFromString("7.25")))
	assert.True(t, ToDecimal(nil).IsZero())
}
