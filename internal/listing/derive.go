package listing

import (
	"sort"

	"github.com/shopspring/decimal"

	"CricNagar/internal/catalog"
)

type Result struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
	Filter   FilterState       `json:"filter"`
	Query    string            `json:"query"`

	// IsDefault is false while any filter is active; clients show a
	// "clear filters" control then.
	IsDefault bool `json:"is_default"`
}

func Run(c *catalog.Catalog, f FilterState) Result {
	products := Derive(c, f)
	return Result{
		Products: products,
		Count:    len(products),
		Filter:   f,
		Query:    f.Encode(),

		IsDefault: f.IsDefault(),
	}
}

// Derive computes the visible products: category, then search within the
// category, then the inclusive price range, then a stable sort.
func Derive(c *catalog.Catalog, f FilterState) []catalog.Product {
	cat, hasCat := f.category()

	var out []catalog.Product
	if hasCat {
		out = c.ByCategory(cat)
	} else {
		out = c.All()
	}

	if f.Query != "" {
		found := c.Search(f.Query)
		out = found[:0]
		for _, p := range found {
			if !hasCat || p.Category == cat {
				out = append(out, p)
			}
		}
	}

	lo := decimal.NewFromInt(f.MinPrice)
	hi := decimal.NewFromInt(f.MaxPrice)
	n := 0
	for _, p := range out {
		if p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi) {
			out[n] = p
			n++
		}
	}
	out = out[:n]

	Sort(out, f.Sort)
	return out
}

// Sort orders ps in place by key. Equal elements keep their relative order.
func Sort(ps []catalog.Product, key SortKey) {
	var less func(a, b catalog.Product) bool

	switch key {
	case SortPriceAsc:
		less = func(a, b catalog.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b catalog.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNewest:
		less = func(a, b catalog.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortRating:
		less = func(a, b catalog.Product) bool { return a.Rating.Or(0) > b.Rating.Or(0) }
	default:
		less = func(a, b catalog.Product) bool { return a.IsFeatured() && !b.IsFeatured() }
	}

	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}
