package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a logical column of a schema.
type Field string

// Spec lists, per field, the accepted header names in preference order.
type Spec struct {
	Fields []FieldSpec
}

// FieldSpec is one logical field and its header aliases.
type FieldSpec struct {
	Field    Field
	Aliases  []string
	Required bool
}

// Columns maps each resolved field to its column index.
type Columns map[Field]int

// Has reports whether the field was found in the header row.
func (c Columns) Has(f Field) bool {
	_, ok := c[f]
	return ok
}

// Cell returns the trimmed value of field f in row, or "" when absent.
func (c Columns) Cell(row []string, f Field) string {
	i, ok := c[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Resolve matches the header row against the schema once. For every field the
// first alias present in the header wins. Missing lists required fields that
// were not found.
func (s Spec) Resolve(header []string) (cols Columns, missing []Field) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := CanonicalHeader(h)
		if _, dup := index[key]; key != "" && !dup {
			index[key] = i
		}
	}

	cols = make(Columns)
	for _, fs := range s.Fields {
		for _, a := range fs.Aliases {
			if i, ok := index[CanonicalHeader(a)]; ok {
				cols[fs.Field] = i
				break
			}
		}
		if fs.Required && !cols.Has(fs.Field) {
			missing = append(missing, fs.Field)
		}
	}
	return cols, missing
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalHeader folds a header cell to a comparable key: it repairs UTF-8
// text that was decoded as Windows-1252, drops the BOM and accents, lowercases,
// and collapses every run of punctuation or space into one space.
func CanonicalHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = RepairMojibake(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// RepairMojibake reverses UTF-8 bytes mis-decoded as Windows-1252
// ("CÃ³digo" becomes "Código"). Text that does not round-trip is returned as is.
func RepairMojibake(s string) string {
	if !strings.ContainsAny(s, "ÃÂâ") {
		return s
	}
	raw, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(raw) {
		return s
	}
	return raw
}
