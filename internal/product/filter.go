package product

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll disables the category predicate.
const CategoryAll = "all"

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// ParseSortKey maps unknown or empty keys to SortRelevance.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return k
	default:
		return SortRelevance
	}
}

type FilterState struct {
	Query    string  `json:"query"`
	Category string  `json:"category"`
	Sort     SortKey `json:"sort"`
}

// DefaultFilter is what the reset action restores.
func DefaultFilter() FilterState {
	return FilterState{Category: CategoryAll, Sort: SortRelevance}
}

// Engine filters and sorts catalogs. Name ordering follows the collation
// rules of its language.
type Engine struct {
	lang language.Tag
}

func NewEngine(lang string) *Engine {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &Engine{lang: tag}
}

// ApplyFilters runs the default Spanish-collated engine.
func ApplyFilters(catalog []Product, f FilterState) []Product {
	return NewEngine("es").Apply(catalog, f)
}

// Apply returns a new slice holding the products of catalog matching f,
// ordered by f.Sort. catalog itself is never modified.
func (e *Engine) Apply(catalog []Product, f FilterState) []Product {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(f.Query))
	category := f.Category
	if category == "" {
		category = CategoryAll
	}

	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		okText := q == "" ||
			strings.Contains(fold.String(p.Name), q) ||
			strings.Contains(fold.String(p.Category), q)
		okCat := category == CategoryAll || p.Category == category
		if okText && okCat {
			out = append(out, p)
		}
	}

	switch ParseSortKey(string(f.Sort)) {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortNameAsc:
		c := collate.New(e.lang)
		slices.SortStableFunc(out, func(a, b Product) int { return c.CompareString(a.Name, b.Name) })
	case SortNameDesc:
		c := collate.New(e.lang)
		slices.SortStableFunc(out, func(a, b Product) int { return c.CompareString(b.Name, a.Name) })
	}

	return out
}

// Categories lists distinct categories in first-seen catalog order.
func Categories(catalog []Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range catalog {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
