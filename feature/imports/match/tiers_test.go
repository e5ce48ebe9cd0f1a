package match

import (
	"testing"

	"stock-importer/feature/imports/alias"
	"stock-importer/feature/imports/models"

	"github.com/stretchr/testify/assert"
)

func candidates(skus ...string) *Candidates {
	return &Candidates{Index: NewIndex(skus)}
}

func TestSplitSize(t *testing.T) {
	tests := []struct {
		in, base, size string
	}{
		{"CAMISAAZ38", "CAMISAAZ", "38"},
		{"CAMISAAZ3738", "CAMISAAZ", "3738"},
		{"CAMISAAZ", "CAMISAAZ", ""},
		{"12345", "", "12345"},
		{"A1B2", "A1B", "2"},
		{"", "", ""},
	}
	for _, tt := range tests {
		base, size := SplitSize(tt.in)
		assert.Equal(t, tt.base, base, tt.in)
		assert.Equal(t, tt.size, size, tt.in)
	}
}

func TestDirect(t *testing.T) {
	c := candidates("CAM-AZ-38", "bone-01")

	sku, _, ok := Direct(c, "  cam-az-38 ")
	assert.True(t, ok)
	assert.Equal(t, "CAM-AZ-38", sku)

	sku, _, ok = Direct(c, "BONE-01")
	assert.True(t, ok)
	assert.Equal(t, "bone-01", sku)

	_, _, ok = Direct(c, "CAMAZ38")
	assert.False(t, ok)
}

func TestFuzzy(t *testing.T) {
	c := candidates("CAM-AZ-38")

	sku, _, ok := Fuzzy(c, "cam az/38")
	assert.True(t, ok)
	assert.Equal(t, "CAM-AZ-38", sku)

	_, _, ok = Fuzzy(c, "---")
	assert.False(t, ok)
}

func TestFuzzy_CollisionIsAmbiguous(t *testing.T) {
	c := candidates("AB-1", "A-B1")

	_, _, ok := Fuzzy(c, "ab 1")
	assert.False(t, ok)

	// Direct still works for exact text.
	sku, _, ok := Direct(c, "a-b1")
	assert.True(t, ok)
	assert.Equal(t, "A-B1", sku)
}

func TestSmart(t *testing.T) {
	t.Run("Size range picks stocked size", func(t *testing.T) {
		sku, _, ok := Smart(candidates("CAMISA-AZ-38"), "CAMISA-AZ-37/38")
		assert.True(t, ok)
		assert.Equal(t, "CAMISA-AZ-38", sku)
	})

	t.Run("Longest size wins", func(t *testing.T) {
		sku, _, ok := Smart(candidates("TENIS-8", "TENIS-38"), "TENIS 37/38")
		assert.True(t, ok)
		assert.Equal(t, "TENIS-38", sku)
	})

	t.Run("Tie prefers the size ending the fragment", func(t *testing.T) {
		sku, _, ok := Smart(candidates("CAMISA-AZ-37", "CAMISA-AZ-38"), "CAMISA-AZ-37/38")
		assert.True(t, ok)
		assert.Equal(t, "CAMISA-AZ-38", sku)
	})

	t.Run("Different base", func(t *testing.T) {
		_, _, ok := Smart(candidates("CAMISA-VD-38"), "CAMISA-AZ-37/38")
		assert.False(t, ok)
	})

	t.Run("Search without size", func(t *testing.T) {
		_, _, ok := Smart(candidates("CAMISA-AZ-38"), "CAMISA-AZ")
		assert.False(t, ok)
	})

	t.Run("Candidate without size is never a variant", func(t *testing.T) {
		_, _, ok := Smart(candidates("CAMISA-AZ"), "CAMISA-AZ-38")
		assert.False(t, ok)
	})
}

func TestAlias(t *testing.T) {
	c := &Candidates{Index: NewIndex(nil), Aliases: map[string]alias.Alias{
		"CAMISA AZUL": {ID: 4, SKU: "CAM-AZ-38"},
	}}

	sku, id, ok := Alias(c, " camisa  azul ")
	assert.True(t, ok)
	assert.Equal(t, "CAM-AZ-38", sku)
	assert.Equal(t, uint(4), id)
}

func TestResolve_Cascade(t *testing.T) {
	c := &Candidates{
		Index: NewIndex([]string{"CAMISA-AZ-38", "BONE-01", "MLB123"}),
		Aliases: map[string]alias.Alias{
			"BONE PRETO":   {ID: 1, SKU: "BONE-01"},
			"CAMISA-AZ-38": {ID: 2, SKU: "BONE-01"},
		},
	}

	tests := []struct {
		name      string
		text      string
		secondary string
		sku       string
		source    models.MatchSource
		ok        bool
	}{
		{"Direct beats alias", "camisa-az-38", "", "CAMISA-AZ-38", models.SourceDirect, true},
		{"Fuzzy", "CAMISA AZ 38", "", "CAMISA-AZ-38", models.SourceFuzzy, true},
		{"Smart scenario", "CAMISA-AZ-37/38", "", "CAMISA-AZ-38", models.SourceSmart, true},
		{"Alias last", "bone preto", "", "BONE-01", models.SourceAlias, true},
		{"Secondary code direct", "???", "mlb123", "MLB123", models.SourceDirect, true},
		{"Secondary code fuzzy", "", "MLB-123", "MLB123", models.SourceFuzzy, true},
		{"Unresolved", "SOMETHING ELSE", "", "", "", false},
		{"Empty", "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Resolve(c, tt.text, tt.secondary)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.sku, res.SKU)
			assert.Equal(t, tt.source, res.Source)
		})
	}
}

func TestPlan_GroupsBySKUAndSource(t *testing.T) {
	c := &Candidates{
		Index:   NewIndex([]string{"A-1", "B-2"}),
		Aliases: map[string]alias.Alias{"XYZ": {ID: 9, SKU: "B-2"}},
	}
	lines := []Line{
		{ID: "1", SKUText: "a-1"},
		{ID: "2", SKUText: "A-1"},
		{ID: "3", SKUText: "A 1"},
		{ID: "4", SKUText: "xyz"},
		{ID: "5", SKUText: "XYZ"},
		{ID: "6", SKUText: "nope"},
	}

	out := Plan(c, lines)
	assert.Equal(t, 5, out.Matched)
	assert.Equal(t, 2, out.BySource[models.SourceDirect])
	assert.Equal(t, 1, out.BySource[models.SourceFuzzy])
	assert.Equal(t, 2, out.BySource[models.SourceAlias])
	assert.Equal(t, map[uint]int{9: 2}, out.AliasHits)

	assert.Len(t, out.Assignments, 3)
	assert.Equal(t, Assignment{SKU: "A-1", Source: models.SourceDirect, IDs: []string{"1", "2"}}, out.Assignments[0])
}
