package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stock-importer/core/metrics"
	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/alias"
	"stock-importer/feature/imports/models"

	"gorm.io/gorm"
)

// Line is the part of a raw line the matcher reads.
type Line struct {
	ID            string
	SKUText       string
	SecondaryCode string
}

// Assignment is a group of lines resolved to the same SKU by the same tier.
type Assignment struct {
	SKU    string
	Source models.MatchSource
	IDs    []string
}

// Outcome is the result of matching a set of lines.
type Outcome struct {
	Assignments []Assignment
	Matched     int
	BySource    map[models.MatchSource]int
	// AliasHits counts matched lines per alias id.
	AliasHits map[uint]int
}

// Plan resolves every line against the candidates without touching storage.
func Plan(c *Candidates, lines []Line) Outcome {
	type groupKey struct {
		sku    string
		source models.MatchSource
	}
	groups := make(map[groupKey][]string)
	out := Outcome{
		BySource:  make(map[models.MatchSource]int),
		AliasHits: make(map[uint]int),
	}

	for _, l := range lines {
		res, ok := Resolve(c, l.SKUText, l.SecondaryCode)
		if !ok {
			continue
		}
		k := groupKey{res.SKU, res.Source}
		groups[k] = append(groups[k], l.ID)
		out.Matched++
		out.BySource[res.Source]++
		if res.AliasID != 0 {
			out.AliasHits[res.AliasID]++
		}
	}

	out.Assignments = make([]Assignment, 0, len(groups))
	for k, ids := range groups {
		out.Assignments = append(out.Assignments, Assignment{SKU: k.sku, Source: k.source, IDs: ids})
	}
	sort.Slice(out.Assignments, func(i, j int) bool {
		a, b := out.Assignments[i], out.Assignments[j]
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		return a.Source < b.Source
	})
	return out
}

// Write persists assignments with one UPDATE per group and chunk.
// Only pending lines are updated, so a line never leaves the matched state.
func Write(db *gorm.DB, model any, assignments []Assignment, batchSize int, now time.Time) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	var updated int64
	for _, a := range assignments {
		for start := 0; start < len(a.IDs); start += batchSize {
			end := min(start+batchSize, len(a.IDs))
			res := db.Model(model).
				Where("id IN ?", a.IDs[start:end]).
				Where("status = ?", models.LinePending).
				Updates(map[string]any{
					"resolved_sku": a.SKU,
					"match_source": a.Source,
					"status":       models.LineMatched,
					"processed_at": now,
				})
			if res.Error != nil {
				return updated, fmt.Errorf("failed to write %s matches for %s: %w", a.Source, a.SKU, res.Error)
			}
			updated += res.RowsAffected
		}
	}
	return updated, nil
}

// Matcher runs the cascade in bulk for one client at a time.
type Matcher struct {
	db        *gorm.DB
	catalog   *catalog.Catalog
	aliases   *alias.Store
	batchSize int
	now       func() time.Time
}

// New creates a matcher.
func New(db *gorm.DB, cat *catalog.Catalog, aliases *alias.Store, batchSize int) *Matcher {
	return &Matcher{db: db, catalog: cat, aliases: aliases, batchSize: batchSize, now: time.Now}
}

// Candidates loads the catalog snapshot and the client's aliases once.
func (m *Matcher) Candidates(ctx context.Context, clientID uint) (*Candidates, error) {
	snap, err := m.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	aliases, err := m.aliases.Preload(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &Candidates{Index: NewIndex(snap.SKUs), Aliases: aliases}, nil
}

// Run matches the given pending lines of model's table and persists the result.
func (m *Matcher) Run(ctx context.Context, model any, clientID uint, lines []Line) (Outcome, error) {
	if len(lines) == 0 {
		return Outcome{}, nil
	}

	cands, err := m.Candidates(ctx, clientID)
	if err != nil {
		return Outcome{}, err
	}

	out := Plan(cands, lines)
	if _, err := Write(m.db.WithContext(ctx), model, out.Assignments, m.batchSize, m.now()); err != nil {
		return out, err
	}
	if err := m.aliases.Touch(ctx, out.AliasHits); err != nil {
		return out, err
	}

	for source, n := range out.BySource {
		metrics.MatchesTotal.WithLabelValues(string(source)).Add(float64(n))
	}
	return out, nil
}
