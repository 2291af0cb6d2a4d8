package catalog

import (
	"testing"
	"time"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chickenCat = model.Category{ID: uuid.New(), Name: "Chicken", Slug: "chicken"}
	muttonCat  = model.Category{ID: uuid.New(), Name: "Mutton & Lamb", Slug: "mutton"}
	boneless   = model.Subcategory{ID: uuid.New(), CategoryID: chickenCat.ID, Name: "Boneless Cuts", Slug: "boneless_cuts"}
)

func ptr[T any](v T) *T { return &v }

func fixture() Dataset {
	now := time.Now()
	return Dataset{
		Categories:    []model.Category{chickenCat, muttonCat},
		Subcategories: []model.Subcategory{boneless},
		Products: []model.Product{
			{ID: uuid.New(), Name: "Chicken Breast Boneless", Slug: "chicken-breast", Description: "Lean cuts", CategoryID: &chickenCat.ID, SubcategoryID: &boneless.ID, Price: 29900, Rating: 4.2, CreatedAt: now.Add(-3 * time.Hour)},
			{ID: uuid.New(), Name: "Chicken Curry Cut", Slug: "chicken-curry-cut", Description: "Skinless pieces", CategoryID: &chickenCat.ID, Price: 18900, Rating: 4.8, Featured: true, CreatedAt: now.Add(-2 * time.Hour)},
			{ID: uuid.New(), Name: "Mutton Keema", Slug: "mutton-keema", Description: "Minced goat meat", CategoryID: &muttonCat.ID, Price: 49900, Rating: 4.5, CreatedAt: now.Add(-1 * time.Hour)},
			{ID: uuid.New(), Name: "Farm Eggs", Slug: "farm-eggs", Description: "Pack of 12, chicken eggs", Price: 9900, Rating: 3.9, CreatedAt: now},
		},
	}
}

func names(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestFilter_CategoryByID(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{Category: muttonCat.ID.String()})

	assert.Equal(t, []string{"Mutton Keema"}, names(got))
}

func TestFilter_UnknownUUIDYieldsEmpty(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{Category: uuid.NewString()})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_CategoryBySlugOrNameCaseInsensitive(t *testing.T) {
	ds := fixture()

	bySlug := Filter(ds, Query{Category: "MUTTON"})
	byName := Filter(ds, Query{Category: "mutton & lamb"})

	assert.Equal(t, []string{"Mutton Keema"}, names(bySlug))
	assert.Equal(t, names(bySlug), names(byName))
}

func TestFilter_CategoryFallsBackToProductSubstring(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{Category: "eggs"})

	assert.Equal(t, []string{"Farm Eggs"}, names(got))
}

func TestFilter_UnmatchedCategoryYieldsEmpty(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{Category: "seafood"})

	assert.Empty(t, got)
}

func TestFilter_SubcategorySlugNormalisation(t *testing.T) {
	ds := fixture()

	for _, token := range []string{"boneless-cuts", "boneless_cuts", "Boneless Cuts", boneless.ID.String()} {
		got := Filter(ds, Query{Subcategory: token})
		assert.Equal(t, []string{"Chicken Breast Boneless"}, names(got), token)
	}

	assert.Empty(t, Filter(ds, Query{Subcategory: "wings"}))
}

func TestFilter_SubcategoryFallsBackToProductSubstring(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{Subcategory: "keema"})
	assert.Equal(t, []string{"Mutton Keema"}, names(got))

	assert.Empty(t, Filter(ds, Query{Subcategory: uuid.NewString()}))
}

func TestFilter_Search(t *testing.T) {
	ds := fixture()

	byDescription := Filter(ds, Query{Search: "MINCED"})
	bySlug := Filter(ds, Query{Search: "curry-cut"})

	assert.Equal(t, []string{"Mutton Keema"}, names(byDescription))
	assert.Equal(t, []string{"Chicken Curry Cut"}, names(bySlug))
}

func TestFilter_PriceAndRating(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{MinPrice: ptr(int64(10000)), MaxPrice: ptr(int64(30000)), Sort: SortPriceAsc})
	assert.Equal(t, []string{"Chicken Curry Cut", "Chicken Breast Boneless"}, names(got))

	got = Filter(ds, Query{MinRating: 4.5, Sort: SortRating})
	assert.Equal(t, []string{"Chicken Curry Cut", "Mutton Keema"}, names(got))
}

func TestFilter_DefaultSortIsFeaturedThenRating(t *testing.T) {
	ds := fixture()

	got := Filter(ds, Query{})

	assert.Equal(t, []string{"Chicken Curry Cut", "Mutton Keema", "Chicken Breast Boneless", "Farm Eggs"}, names(got))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	ds := fixture()
	before := names(ds.Products)

	Filter(ds, Query{Sort: SortPriceDesc})

	assert.Equal(t, before, names(ds.Products))
}

func TestSort_Keys(t *testing.T) {
	ds := fixture()

	tests := []struct {
		key      SortKey
		expected []string
	}{
		{SortPriceDesc, []string{"Mutton Keema", "Chicken Breast Boneless", "Chicken Curry Cut", "Farm Eggs"}},
		{SortNewest, []string{"Farm Eggs", "Mutton Keema", "Chicken Curry Cut", "Chicken Breast Boneless"}},
		{SortName, []string{"Chicken Breast Boneless", "Chicken Curry Cut", "Farm Eggs", "Mutton Keema"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			products := append([]model.Product(nil), ds.Products...)
			Sort(products, tt.key)
			assert.Equal(t, tt.expected, names(products))
		})
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPopular, ParseSort(""))
	assert.Equal(t, SortPopular, ParseSort("bogus"))
	assert.Equal(t, SortPriceAsc, ParseSort("PRICE_ASC"))
	assert.Equal(t, SortNewest, ParseSort(" newest "))
}
