package match

import (
	"strings"

	"stock-importer/feature/imports/alias"
	"stock-importer/feature/imports/models"
)

// Candidates is everything a tier may consult for one client.
type Candidates struct {
	Index   *Index
	Aliases map[string]alias.Alias
}

// Tier resolves free text to a canonical SKU. aliasID is set by the alias tier only.
type Tier func(c *Candidates, text string) (sku string, aliasID uint, ok bool)

type step struct {
	source       models.MatchSource
	tier         Tier
	useSecondary bool
}

// cascade is tried in order; the first success wins.
var cascade = []step{
	{models.SourceDirect, Direct, true},
	{models.SourceFuzzy, Fuzzy, true},
	{models.SourceSmart, Smart, false},
	{models.SourceAlias, Alias, true},
}

// Result is a successful resolution.
type Result struct {
	SKU     string
	Source  models.MatchSource
	AliasID uint
}

// Resolve runs the cascade for a line's SKU text and optional secondary code.
func Resolve(c *Candidates, text, secondary string) (Result, bool) {
	for _, s := range cascade {
		inputs := []string{text}
		if s.useSecondary && strings.TrimSpace(secondary) != "" {
			inputs = append(inputs, secondary)
		}
		for _, in := range inputs {
			if strings.TrimSpace(in) == "" {
				continue
			}
			if sku, aliasID, ok := s.tier(c, in); ok {
				return Result{SKU: sku, Source: s.source, AliasID: aliasID}, true
			}
		}
	}
	return Result{}, false
}

// Direct matches on case-insensitive, trimmed equality.
func Direct(c *Candidates, text string) (string, uint, bool) {
	if c.Index == nil {
		return "", 0, false
	}
	sku, ok := c.Index.direct[DirectKey(text)]
	return sku, 0, ok
}

// Fuzzy matches after dropping non-alphanumerics and case on both sides.
func Fuzzy(c *Candidates, text string) (string, uint, bool) {
	if c.Index == nil {
		return "", 0, false
	}
	key := FuzzyKey(text)
	if key == "" {
		return "", 0, false
	}
	sku, ok := c.Index.fuzzy[key]
	return sku, 0, ok
}

// Smart matches size variants: equal bases and a search size fragment that
// contains the candidate's size ("3738" contains "38"). The longest candidate
// size wins; on a tie the one ending the fragment wins, then the lowest SKU.
func Smart(c *Candidates, text string) (string, uint, bool) {
	if c.Index == nil {
		return "", 0, false
	}
	base, size := SplitSize(FuzzyKey(text))
	if base == "" || size == "" {
		return "", 0, false
	}

	var best sized
	bestSuffix := false
	found := false
	for _, cand := range c.Index.smart[base] {
		if !strings.Contains(size, cand.size) {
			continue
		}
		suffix := strings.HasSuffix(size, cand.size)
		if !found || better(cand, suffix, best, bestSuffix) {
			best, bestSuffix, found = cand, suffix, true
		}
	}
	if !found {
		return "", 0, false
	}
	return best.sku, 0, true
}

func better(cand sized, candSuffix bool, best sized, bestSuffix bool) bool {
	if len(cand.size) != len(best.size) {
		return len(cand.size) > len(best.size)
	}
	if candSuffix != bestSuffix {
		return candSuffix
	}
	return cand.sku < best.sku
}

// Alias matches the client's learned aliases by normalized text.
func Alias(c *Candidates, text string) (string, uint, bool) {
	a, ok := c.Aliases[alias.Normalize(text)]
	if !ok {
		return "", 0, false
	}
	return a.SKU, a.ID, true
}
