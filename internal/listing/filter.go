// Package listing derives the visible product list from a FilterState and
// round-trips that state through a URL query string.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"CricNagar/internal/catalog"
)

// MaxPriceBound is the default upper price bound of the range filter.
const MaxPriceBound int64 = 20000

const AllCategories = "all"

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
	SortRating    SortKey = "rating"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortNewest, SortRating:
		return k, true
	}
	return "", false
}

const (
	paramCategory = "category"
	paramQuery    = "query"
	paramSort     = "sort"
	paramMinPrice = "minPrice"
	paramMaxPrice = "maxPrice"
)

type FilterState struct {
	// Category is AllCategories or a catalog category value.
	Category string  `json:"category"`
	Query    string  `json:"query"`
	MinPrice int64   `json:"min_price"`
	MaxPrice int64   `json:"max_price"`
	Sort     SortKey `json:"sort"`
}

func DefaultFilter() FilterState {
	return FilterState{
		Category: AllCategories,
		MinPrice: 0,
		MaxPrice: MaxPriceBound,
		Sort:     SortFeatured,
	}
}

func (f FilterState) IsDefault() bool { return f == DefaultFilter() }

func (f FilterState) category() (catalog.Category, bool) {
	if f.Category == AllCategories {
		return "", false
	}
	return catalog.ParseCategory(f.Category)
}

// Parse reads a FilterState from URL query values. Missing or unparseable
// values take their defaults; unknown parameters are ignored.
func Parse(v url.Values) FilterState {
	f := DefaultFilter()

	if c := v.Get(paramCategory); c != "" {
		if _, ok := catalog.ParseCategory(c); ok {
			f.Category = c
		}
	}

	f.Query = v.Get(paramQuery)

	if s, ok := ParseSortKey(v.Get(paramSort)); ok {
		f.Sort = s
	}

	if n, ok := parsePrice(v.Get(paramMinPrice)); ok {
		f.MinPrice = n
	}
	if n, ok := parsePrice(v.Get(paramMaxPrice)); ok {
		f.MaxPrice = n
	}

	return f
}

func ParseQuery(raw string) (FilterState, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return DefaultFilter(), err
	}
	return Parse(v), nil
}

func parsePrice(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Values serializes f, omitting every parameter equal to its default.
func (f FilterState) Values() url.Values {
	d := DefaultFilter()
	v := url.Values{}

	if f.Category != d.Category && f.Category != "" {
		v.Set(paramCategory, f.Category)
	}
	if f.Query != d.Query {
		v.Set(paramQuery, f.Query)
	}
	if f.Sort != d.Sort && f.Sort != "" {
		v.Set(paramSort, string(f.Sort))
	}
	if f.MinPrice != d.MinPrice {
		v.Set(paramMinPrice, strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice != d.MaxPrice {
		v.Set(paramMaxPrice, strconv.FormatInt(f.MaxPrice, 10))
	}
	return v
}

// Encode returns the canonical query string; empty for the default state.
func (f FilterState) Encode() string { return f.Values().Encode() }
