package listing

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CricNagar/internal/catalog"
)

func sampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(context.Background(), catalog.NewMemSource())
	require.NoError(t, err)
	return c
}

func ids(ps []catalog.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func product(id string, price int64) catalog.Product {
	return catalog.Product{ID: id, Name: id, Price: decimal.NewFromInt(price), Category: catalog.CategoryBall}
}

// ============================================
// Derive
// ============================================

func TestDerive_DefaultFilterPutsFeaturedFirst(t *testing.T) {
	c := sampleCatalog(t)

	got := ids(Derive(c, DefaultFilter()))
	assert.Equal(t, []string{"1", "2", "4", "8", "3", "5", "6", "7", "9", "10", "11", "12"}, got)
}

func TestDerive_CategoryAndPriceRange(t *testing.T) {
	c := sampleCatalog(t)

	f := DefaultFilter()
	f.Category = "bat"
	f.MinPrice = 5000
	f.MaxPrice = 16000
	assert.Equal(t, []string{"1", "5"}, ids(Derive(c, f)))

	f.MinPrice = 7501
	assert.Equal(t, []string{"1"}, ids(Derive(c, f)))

	f.MinPrice = 7500
	f.MaxPrice = 7500
	assert.Equal(t, []string{"5"}, ids(Derive(c, f)), "range is inclusive")
}

func TestDerive_SearchIsIntersectedWithCategory(t *testing.T) {
	c := sampleCatalog(t)

	f := DefaultFilter()
	f.Query = "cricket"
	f.Category = "ball"
	f.Sort = SortPriceDesc
	assert.Equal(t, []string{"2", "6"}, ids(Derive(c, f)))

	f.Category = AllCategories
	f.Sort = SortPriceAsc
	assert.Equal(t, []string{"6", "2", "9", "11", "5", "10", "1"}, ids(Derive(c, f)))
}

func TestDerive_NoMatchIsEmpty(t *testing.T) {
	c := sampleCatalog(t)

	f := DefaultFilter()
	f.Category = "helmet"
	f.MaxPrice = 1000
	assert.Empty(t, Derive(c, f))
}

func TestDerive_DoesNotMutateCatalog(t *testing.T) {
	c := sampleCatalog(t)
	before := ids(c.All())

	f := DefaultFilter()
	f.Sort = SortPriceDesc
	f.Query = "pad"
	Derive(c, f)

	assert.Equal(t, before, ids(c.All()))
}

// ============================================
// Sort
// ============================================

func TestSort_Keys(t *testing.T) {
	c := sampleCatalog(t)

	tests := []struct {
		name     string
		key      SortKey
		expected []string
	}{
		{"price ascending", SortPriceAsc, []string{"6", "12", "2", "9", "4", "7", "11", "3", "8", "5", "10", "1"}},
		{"price descending", SortPriceDesc, []string{"1", "10", "5", "8", "3", "11", "7", "4", "9", "2", "12", "6"}},
		{"newest", SortNewest, []string{"12", "11", "10", "9", "8", "7", "6", "5", "4", "3", "2", "1"}},
		{"rating", SortRating, []string{"8", "1", "2", "10", "4", "3", "11", "7", "5", "9", "6", "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := c.All()
			Sort(ps, tt.key)
			assert.Equal(t, tt.expected, ids(ps))
		})
	}
}

func TestSort_PriceIsStableForTies(t *testing.T) {
	ps := []catalog.Product{product("a", 100), product("b", 100), product("c", 50), product("d", 100)}

	asc := append([]catalog.Product(nil), ps...)
	Sort(asc, SortPriceAsc)
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(asc))

	desc := append([]catalog.Product(nil), ps...)
	Sort(desc, SortPriceDesc)
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids(desc))
}

func TestSort_MonotonicPrices(t *testing.T) {
	ps := sampleCatalog(t).All()

	Sort(ps, SortPriceAsc)
	for i := 1; i < len(ps); i++ {
		assert.True(t, ps[i-1].Price.LessThanOrEqual(ps[i].Price))
	}

	Sort(ps, SortPriceDesc)
	for i := 1; i < len(ps); i++ {
		assert.True(t, ps[i-1].Price.GreaterThanOrEqual(ps[i].Price))
	}
}

func TestSort_AbsentRatingCountsAsZero(t *testing.T) {
	unrated := product("unrated", 1)
	rated := product("rated", 1)
	rated.Rating = catalog.Some(0.5)

	ps := []catalog.Product{unrated, rated}
	Sort(ps, SortRating)
	assert.Equal(t, []string{"rated", "unrated"}, ids(ps))
}

func TestSort_NewestUsesCreatedAt(t *testing.T) {
	old := product("old", 1)
	old.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := product("fresh", 1)
	fresh.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ps := []catalog.Product{old, fresh}
	Sort(ps, SortNewest)
	assert.Equal(t, []string{"fresh", "old"}, ids(ps))
}

// ============================================
// URL round trip
// ============================================

func TestParse_Defaults(t *testing.T) {
	assert.Equal(t, DefaultFilter(), Parse(url.Values{}))
	assert.Equal(t, "", DefaultFilter().Encode())
	assert.True(t, DefaultFilter().IsDefault())
}

func TestParse_InvalidValuesFallBack(t *testing.T) {
	f, err := ParseQuery("?category=racket&sort=cheapest&minPrice=abc&maxPrice=&utm_source=x")
	require.NoError(t, err)
	assert.Equal(t, DefaultFilter(), f)
}

func TestParse_ReadsAllParams(t *testing.T) {
	f, err := ParseQuery("category=gloves&query=grip&sort=rating&minPrice=1000&maxPrice=5000")
	require.NoError(t, err)

	assert.Equal(t, FilterState{
		Category: "gloves",
		Query:    "grip",
		Sort:     SortRating,
		MinPrice: 1000,
		MaxPrice: 5000,
	}, f)
}

func TestValues_OmitsDefaults(t *testing.T) {
	f := DefaultFilter()
	f.Sort = SortNewest
	assert.Equal(t, "sort=newest", f.Encode())

	f = DefaultFilter()
	f.MaxPrice = 30000
	assert.Equal(t, "maxPrice=30000", f.Encode())
}

func TestRoundTrip_ReproducesVisibleSet(t *testing.T) {
	c := sampleCatalog(t)

	filters := []FilterState{
		DefaultFilter(),
		{Category: "bat", Query: "", MinPrice: 5000, MaxPrice: 16000, Sort: SortPriceAsc},
		{Category: AllCategories, Query: "Cricket", MinPrice: 0, MaxPrice: 9000, Sort: SortNewest},
		{Category: "pad", Query: "pad", MinPrice: 1, MaxPrice: MaxPriceBound, Sort: SortRating},
		{Category: AllCategories, Query: "a b&c=d", MinPrice: 0, MaxPrice: 0, Sort: SortFeatured},
		{Category: AllCategories, Query: "", MinPrice: 0, MaxPrice: 50000, Sort: SortPriceDesc},
	}

	for _, f := range filters {
		t.Run(f.Encode(), func(t *testing.T) {
			back, err := ParseQuery(f.Encode())
			require.NoError(t, err)

			assert.Equal(t, f, back)
			assert.Equal(t, ids(Derive(c, f)), ids(Derive(c, back)))
		})
	}
}

func TestRun_ReportsCanonicalQuery(t *testing.T) {
	c := sampleCatalog(t)

	f := DefaultFilter()
	f.Category = "ball"

	res := Run(c, f)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "category=ball", res.Query)
}

func TestRun_ReportsWhetherFiltersAreActive(t *testing.T) {
	c := sampleCatalog(t)

	res := Run(c, DefaultFilter())
	assert.True(t, res.IsDefault)
	assert.Equal(t, 12, res.Count)

	f := DefaultFilter()
	f.MaxPrice = 5000
	res = Run(c, f)
	assert.False(t, res.IsDefault)
}
