// Package catalog implements the storefront's query engine: a pure,
// deterministic filter/sort/paginate pipeline over an in-memory product list,
// plus the facet index derived from it.
package catalog

import (
	"sort"
	"strings"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

// DefaultPageSize matches the storefront's product grid.
const DefaultPageSize = 12

type SortKey string

const (
	SortFeatured  SortKey = "featured" // stable input order, no reordering
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps an arbitrary string to a sort key, defaulting to
// featured for anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return SortKey(s)
	default:
		return SortFeatured
	}
}

// FilterSpec describes the active filter predicates. Zero values disable a
// predicate: an empty search term matches everything, empty category/brand
// sets select everything, and MaxPrice <= 0 means no upper price bound.
type FilterSpec struct {
	Search     string
	Categories []string
	Brands     []string
	MinPrice   float64
	MaxPrice   float64
}

// Page is one page of query results.
type Page struct {
	Items      []domain.Product `json:"products"`
	TotalCount int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// Query filters, sorts, and paginates products. Pure: the input slice is
// never mutated and identical arguments yield identical output. Page numbers
// are 1-based; a page past the end yields an empty Items slice, not an error.
// page and pageSize below 1 are clamped to 1.
func Query(products []domain.Product, spec FilterSpec, key SortKey, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(&p, &spec) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, key)

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

func matches(p *domain.Product, spec *FilterSpec) bool {
	if term := strings.ToLower(spec.Search); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Brand), term) {
			return false
		}
	}
	if len(spec.Categories) > 0 && !containsString(spec.Categories, p.Category) {
		return false
	}
	if len(spec.Brands) > 0 && !containsFold(spec.Brands, p.Brand) {
		return false
	}
	if p.Price < spec.MinPrice {
		return false
	}
	if spec.MaxPrice > 0 && p.Price > spec.MaxPrice {
		return false
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// sortProducts reorders in place. SliceStable keeps the relative input order
// of products with equal keys, which the pagination contract relies on.
func sortProducts(ps []domain.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case SortPriceHigh:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case SortRating:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
	case SortNewest:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	default:
		// featured: keep input order
	}
}
