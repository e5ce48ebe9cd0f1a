package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthsPT = map[string]time.Month{
	"janeiro": time.January, "fevereiro": time.February, "marco": time.March,
	"abril": time.April, "maio": time.May, "junho": time.June,
	"julho": time.July, "agosto": time.August, "setembro": time.September,
	"outubro": time.October, "novembro": time.November, "dezembro": time.December,
}

// Matches the canonical form of "12 de março de 2024 14:05 hs.".
var longDatePT = regexp.MustCompile(`^(\d{1,2}) de ([a-z]+) de (\d{4})(?: (\d{1,2}) (\d{2}))?`)

var layouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

// excelEpoch is day zero of spreadsheet serial dates (1900 system).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate reads day-first textual dates, Portuguese long dates, ISO dates and
// spreadsheet serial numbers. Times are UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
		return fromSerial(f)
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	if m := longDatePT.FindStringSubmatch(CanonicalHeader(s)); m != nil {
		return fromLongDate(m)
	}
	return time.Time{}, false
}

func fromSerial(f float64) (time.Time, bool) {
	// 2958465 is 9999-12-31.
	if math.IsNaN(f) || f < 1 || f > 2958465 {
		return time.Time{}, false
	}
	days := math.Floor(f)
	secs := math.Round((f - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), true
}

func fromLongDate(m []string) (time.Time, bool) {
	month, ok := monthsPT[m[2]]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}
