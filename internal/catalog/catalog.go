// Package catalog filters and sorts the product listing in memory.
//
// Filtering never fails: a token that resolves to nothing yields an empty
// result rather than an error.
package catalog

import (
	"sort"
	"strings"

	"freshkart/internal/model"

	"github.com/google/uuid"
)

// SortKey orders a listing.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
	SortName      SortKey = "name"
)

// ParseSort maps a query value to a sort key, defaulting to popular.
func ParseSort(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortPriceAsc, SortPriceDesc, SortRating, SortNewest, SortName:
		return k
	}
	return SortPopular
}

// Query is a listing request. Prices are minor units.
type Query struct {
	Category    string
	Subcategory string
	Search      string
	MinPrice    *int64
	MaxPrice    *int64
	MinRating   float64
	Sort        SortKey
}

// Dataset is everything the filter reads.
type Dataset struct {
	Products      []model.Product
	Categories    []model.Category
	Subcategories []model.Subcategory
}

// Filter applies q to ds.Products and returns a new, sorted slice.
func Filter(ds Dataset, q Query) []model.Product {
	products := ds.Products

	if token := strings.TrimSpace(q.Category); token != "" {
		products = filterByCategory(products, ds.Categories, token)
	}

	if token := strings.TrimSpace(q.Subcategory); token != "" {
		products = filterBySubcategory(products, ds.Subcategories, token)
	}

	if term := strings.TrimSpace(q.Search); term != "" {
		products = keep(products, func(p model.Product) bool { return MatchesSearch(p, term) })
	}

	if q.MinPrice != nil {
		minPrice := *q.MinPrice
		products = keep(products, func(p model.Product) bool { return p.Price >= minPrice })
	}
	if q.MaxPrice != nil {
		maxPrice := *q.MaxPrice
		products = keep(products, func(p model.Product) bool { return p.Price <= maxPrice })
	}
	if q.MinRating > 0 {
		products = keep(products, func(p model.Product) bool { return p.Rating >= q.MinRating })
	}

	out := make([]model.Product, len(products))
	copy(out, products)
	Sort(out, q.Sort)
	return out
}

// ResolveCategory finds the category named by token. A UUID-shaped token
// matches only by id; anything else matches slug or name case-insensitively.
func ResolveCategory(categories []model.Category, token string) (model.Category, bool) {
	if id, err := uuid.Parse(token); err == nil {
		for _, c := range categories {
			if c.ID == id {
				return c, true
			}
		}
		return model.Category{}, false
	}

	for _, c := range categories {
		if strings.EqualFold(c.Slug, token) || strings.EqualFold(c.Name, token) {
			return c, true
		}
	}
	return model.Category{}, false
}

// ResolveSubcategory is ResolveCategory for subcategories, treating '-', '_'
// and spaces as the same character.
func ResolveSubcategory(subcategories []model.Subcategory, token string) (model.Subcategory, bool) {
	if id, err := uuid.Parse(token); err == nil {
		for _, s := range subcategories {
			if s.ID == id {
				return s, true
			}
		}
		return model.Subcategory{}, false
	}

	want := normaliseSlug(token)
	for _, s := range subcategories {
		if normaliseSlug(s.Slug) == want || normaliseSlug(s.Name) == want {
			return s, true
		}
	}
	return model.Subcategory{}, false
}

// MatchesSearch reports a case-insensitive substring match on name,
// description or slug.
func MatchesSearch(p model.Product, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Slug), term)
}

// Sort orders products in place. Ties keep their input order.
func Sort(products []model.Product, key SortKey) {
	var less func(a, b model.Product) bool
	switch key {
	case SortPriceAsc:
		less = func(a, b model.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b model.Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b model.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b model.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortName:
		less = func(a, b model.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b model.Product) bool {
			if a.Featured != b.Featured {
				return a.Featured
			}
			return a.Rating > b.Rating
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

func filterByCategory(products []model.Product, categories []model.Category, token string) []model.Product {
	if category, ok := ResolveCategory(categories, token); ok {
		return keep(products, func(p model.Product) bool {
			return p.CategoryID != nil && *p.CategoryID == category.ID
		})
	}

	return matchProductText(products, token)
}

func filterBySubcategory(products []model.Product, subcategories []model.Subcategory, token string) []model.Product {
	if sub, ok := ResolveSubcategory(subcategories, token); ok {
		return keep(products, func(p model.Product) bool {
			return p.SubcategoryID != nil && *p.SubcategoryID == sub.ID
		})
	}
	return matchProductText(products, token)
}

// matchProductText is the fallback for an unresolved category token: a
// case-insensitive substring match on product name or slug. UUID-shaped
// tokens never fall back to text matching.
func matchProductText(products []model.Product, token string) []model.Product {
	if _, err := uuid.Parse(token); err == nil {
		return nil
	}

	term := strings.ToLower(token)
	return keep(products, func(p model.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Slug), term)
	})
}

func normaliseSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

func keep(products []model.Product, pred func(model.Product) bool) []model.Product {
	var out []model.Product
	for _, p := range products {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}
