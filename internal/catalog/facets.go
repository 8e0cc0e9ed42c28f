package catalog

import (
	"sort"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// FacetCount is one value of a filterable dimension with its product count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets holds the data-derived filter dimensions the storefront renders
// (category tiles on the home page, brand checkboxes on the listing page).
type Facets struct {
	Categories []FacetCount `json:"categories"`
	Brands     []FacetCount `json:"brands"`
}

// BuildFacets computes the value->count index for both facet dimensions.
// Rebuilt whenever the product list changes, never per render. Output order
// is deterministic: alphabetical by value.
func BuildFacets(products []domain.Product) Facets {
	categories := make(map[string]int)
	brands := make(map[string]int)
	for _, p := range products {
		if p.Category != "" {
			categories[p.Category]++
		}
		if p.Brand != "" {
			brands[p.Brand]++
		}
	}
	return Facets{
		Categories: sortedCounts(categories),
		Brands:     sortedCounts(brands),
	}
}

func sortedCounts(m map[string]int) []FacetCount {
	out := make([]FacetCount, 0, len(m))
	for v, c := range m {
		out = append(out, FacetCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
