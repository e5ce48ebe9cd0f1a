package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToInt converts various types to int using explicit type switching.
// Strings may carry a fractional part ("2.0", "2,0"); it is truncated.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case decimal.Decimal:
		return int(v.IntPart())
	case string:
		return stringToInt(v)
	case []byte:
		return stringToInt(string(v))
	case nil:
		return 0
	default:
		return stringToInt(fmt.Sprintf("%v", v))
	}
}

func stringToInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	d, ok := ParseDecimal(s)
	if !ok {
		return 0
	}
	return int(d.IntPart())
}

// ToString converts various types to a trimmed string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// ToDecimal converts a cell value to a decimal, returning zero when it cannot be parsed.
func ToDecimal(val any) decimal.Decimal {
	switch v := val.(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case nil:
		return decimal.Zero
	default:
		d, _ := ParseDecimal(ToString(v))
		return d
	}
}

// ParseDecimal parses money text in either "1.234,56" or "1,234.56" notation.
// Currency symbols and spaces are ignored. The last separator present is the decimal one.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if s == "" || s == "-" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
