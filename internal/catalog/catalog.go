package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Catalog is the read-only product set shared by every client context.
// All queries return fresh slices in catalog order.
type Catalog struct {
	products []Product
}

func New(products []Product) *Catalog {
	p := make([]Product, len(products))
	copy(p, products)
	return &Catalog{products: p}
}

// Load builds a Catalog from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(products), nil
}

func (c *Catalog) Len() int { return len(c.products) }

func (c *Catalog) All() []Product {
	return c.filter(func(Product) bool { return true })
}

func (c *Catalog) ByCategory(cat Category) []Product {
	return c.filter(func(p Product) bool { return p.Category == cat })
}

func (c *Catalog) ByID(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c *Catalog) Featured() []Product {
	return c.filter(Product.IsFeatured)
}

// Search matches q case-insensitively against name or description.
// An empty q is a substring of everything, so it matches every product.
func (c *Catalog) Search(q string) []Product {
	q = strings.ToLower(q)
	return c.filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	})
}

// Related returns up to n products sharing p's category, p excluded.
func (c *Catalog) Related(p Product, n int) []Product {
	out := make([]Product, 0, n)
	for _, q := range c.products {
		if len(out) >= n {
			break
		}
		if q.Category == p.Category && q.ID != p.ID {
			out = append(out, q)
		}
	}
	return out
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
