package catalog

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

// Draft is the admin form input for a new product.
type Draft struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	Featured    bool            `json:"featured"`
}

func (d Draft) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.Join(ErrInvalidProduct, errors.New("name required"))
	}
	if _, ok := ParseCategory(string(d.Category)); !ok {
		return errors.Join(ErrInvalidProduct, errors.New("unknown category"))
	}
	if d.Price.IsNegative() {
		return errors.Join(ErrInvalidProduct, errors.New("negative price"))
	}
	return nil
}

// Workspace is the admin view's private product list. It starts as a copy
// of the Catalog and is never written back to it.
type Workspace struct {
	mu       sync.Mutex
	products []Product
	now      func() time.Time
}

func NewWorkspace(c *Catalog) *Workspace {
	return &Workspace{products: c.All(), now: time.Now}
}

func (w *Workspace) List() []Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Product, len(w.products))
	copy(out, w.products)
	return out
}

func (w *Workspace) Add(d Draft) (Product, error) {
	if err := d.validate(); err != nil {
		return Product{}, err
	}

	p := Product{
		ID:          "product-" + uuid.NewString(),
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		InStock:     d.InStock,
		Featured:    Some(d.Featured),
		CreatedAt:   w.now().UTC(),
	}

	w.mu.Lock()
	w.products = append(w.products, p)
	w.mu.Unlock()

	return p, nil
}

func (w *Workspace) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, p := range w.products {
		if p.ID == id {
			w.products = append(w.products[:i:i], w.products[i+1:]...)
			return true
		}
	}
	return false
}
