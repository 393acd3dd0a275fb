package product

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleCatalog() []Product {
	return []Product{
		{ID: "p1", Name: "Zapatillas Neon", Category: "Calzado", Price: 45000, Stock: 4, Rating: 4.5},
		{ID: "p2", Name: "Auriculares", Category: "Audio", Price: 30000, Stock: 10, Rating: 4.1},
		{ID: "p3", Name: "Ñandú de peluche", Category: "Juguetes", Price: 0, Stock: 3, Rating: 3.9},
		{ID: "p4", Name: "Parlante", Category: "Audio", Price: 30000, Stock: 2, Rating: 4.8},
		{ID: "p5", Name: "botas", Category: "Calzado", Price: 52000, Stock: 1, Rating: 4.0},
	}
}

func ids(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestApplyFilters_Text(t *testing.T) {
	catalog := sampleCatalog()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty matches everything", "", []string{"p1", "p2", "p3", "p4", "p5"}},
		{"blank is trimmed", "   ", []string{"p1", "p2", "p3", "p4", "p5"}},
		{"name substring case-insensitive", "PARL", []string{"p4"}},
		{"category substring", "audio", []string{"p2", "p4"}},
		{"name or category", "calz", []string{"p1", "p5"}},
		{"non-ascii name", "ñandú", []string{"p3"}},
		{"no match", "televisor", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(catalog, FilterState{Query: tt.query, Category: CategoryAll})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFilters_Category(t *testing.T) {
	catalog := sampleCatalog()

	t.Run("Exact match", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Category: "Audio"})
		assert.Equal(t, []string{"p2", "p4"}, ids(got))
	})

	t.Run("Category is not a substring match", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Category: "Aud"})
		assert.Empty(t, got)
	})

	t.Run("All equals no category filter", func(t *testing.T) {
		all := ApplyFilters(catalog, FilterState{Query: "a", Category: CategoryAll})
		none := ApplyFilters(catalog, FilterState{Query: "a"})
		assert.Equal(t, ids(all), ids(none))
	})

	t.Run("Predicates are ANDed", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Query: "parl", Category: "Calzado"})
		assert.Empty(t, got)
	})
}

func TestApplyFilters_Sort(t *testing.T) {
	catalog := sampleCatalog()

	t.Run("Relevance keeps catalog order", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Sort: SortRelevance})
		assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(got))
	})

	t.Run("Unknown key is relevance", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Sort: "popularity"})
		assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(got))
	})

	t.Run("Price ascending is stable on ties", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Sort: SortPriceAsc})
		assert.Equal(t, []string{"p3", "p2", "p4", "p1", "p5"}, ids(got))
	})

	t.Run("Price descending is stable on ties", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Sort: SortPriceDesc})
		assert.Equal(t, []string{"p5", "p1", "p2", "p4", "p3"}, ids(got))
	})

	t.Run("Name uses collation", func(t *testing.T) {
		got := ApplyFilters(catalog, FilterState{Sort: SortNameAsc})
		// lower-case "botas" sorts with the Bs, Ñ after N
		assert.Equal(t, []string{"p2", "p5", "p3", "p4", "p1"}, ids(got))

		got = ApplyFilters(catalog, FilterState{Sort: SortNameDesc})
		assert.Equal(t, []string{"p1", "p4", "p3", "p5", "p2"}, ids(got))
	})
}

func TestApplyFilters_PriceAscDescAreReversed(t *testing.T) {
	catalog := []Product{
		{ID: "a", Price: 300}, {ID: "b", Price: 100}, {ID: "c", Price: 200}, {ID: "d", Price: 50},
	}

	asc := ids(ApplyFilters(catalog, FilterState{Sort: SortPriceAsc}))
	desc := ids(ApplyFilters(catalog, FilterState{Sort: SortPriceDesc}))

	reversed := make([]string, len(asc))
	for i, id := range asc {
		reversed[len(asc)-1-i] = id
	}
	assert.Equal(t, reversed, desc)
}

func TestApplyFilters_DoesNotMutateAndIsIdempotent(t *testing.T) {
	catalog := sampleCatalog()
	before := sampleCatalog()
	f := FilterState{Query: "a", Category: CategoryAll, Sort: SortNameDesc}

	first := ApplyFilters(catalog, f)
	second := ApplyFilters(catalog, f)

	if diff := cmp.Diff(before, catalog); diff != "" {
		t.Errorf("catalog mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("filter not idempotent (-first +second):\n%s", diff)
	}

	again := ApplyFilters(first, f)
	assert.Equal(t, ids(first), ids(again))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortKey("price-asc"))
	assert.Equal(t, SortNameDesc, ParseSortKey("name-desc"))
	assert.Equal(t, SortRelevance, ParseSortKey(""))
	assert.Equal(t, SortRelevance, ParseSortKey("PRICE-ASC"))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Calzado", "Audio", "Juguetes"}, Categories(sampleCatalog()))
	assert.Empty(t, Categories(nil))
}
