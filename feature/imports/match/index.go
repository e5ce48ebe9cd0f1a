package match

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sized is a catalog SKU split into base and numeric size suffix.
type sized struct {
	sku  string
	size string
}

// Index holds the catalog SKUs keyed for each tier.
type Index struct {
	direct map[string]string
	fuzzy  map[string]string
	smart  map[string][]sized
}

// NewIndex builds the lookup tables for a set of canonical SKUs.
// SKUs whose fuzzy keys collide are left out of the fuzzy table, since
// neither can be chosen without a human decision.
func NewIndex(skus []string) *Index {
	idx := &Index{
		direct: make(map[string]string, len(skus)),
		fuzzy:  make(map[string]string, len(skus)),
		smart:  make(map[string][]sized),
	}

	sorted := append([]string(nil), skus...)
	sort.Strings(sorted)

	collided := make(map[string]bool)
	for _, sku := range sorted {
		if d := DirectKey(sku); d != "" {
			if _, exists := idx.direct[d]; !exists {
				idx.direct[d] = sku
			}
		}

		f := FuzzyKey(sku)
		if f == "" {
			continue
		}
		if _, exists := idx.fuzzy[f]; exists {
			collided[f] = true
		} else {
			idx.fuzzy[f] = sku
		}

		if base, size := SplitSize(f); base != "" && size != "" {
			idx.smart[base] = append(idx.smart[base], sized{sku: sku, size: size})
		}
	}
	for f := range collided {
		delete(idx.fuzzy, f)
	}
	return idx
}

// Len returns the number of indexed SKUs.
func (i *Index) Len() int {
	return len(i.direct)
}

// DirectKey is the comparison form for the direct tier.
func DirectKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// FuzzyKey strips everything but letters and digits and upper-cases the rest.
func FuzzyKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// SplitSize splits a fuzzy key into its base (through the last letter) and
// the trailing digits after it.
func SplitSize(key string) (base, size string) {
	end := 0
	for i, r := range key {
		if unicode.IsLetter(r) {
			end = i + utf8.RuneLen(r)
		}
	}
	return key[:end], key[end:]
}
