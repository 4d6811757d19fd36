package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBat         Category = "bat"
	CategoryBall        Category = "ball"
	CategoryPad         Category = "pad"
	CategoryGloves      Category = "gloves"
	CategoryHelmet      Category = "helmet"
	CategoryApparel     Category = "apparel"
	CategoryAccessories Category = "accessories"
)

type CategoryInfo struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

var categories = []CategoryInfo{
	{Value: CategoryBat, Label: "Bats"},
	{Value: CategoryBall, Label: "Balls"},
	{Value: CategoryPad, Label: "Pads"},
	{Value: CategoryGloves, Label: "Gloves"},
	{Value: CategoryHelmet, Label: "Helmets"},
	{Value: CategoryApparel, Label: "Apparel"},
	{Value: CategoryAccessories, Label: "Accessories"},
}

// Categories returns the closed category set in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range categories {
		if string(c.Value) == s {
			return c.Value, true
		}
	}
	return "", false
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	Featured    Opt[bool]       `json:"featured"`
	Discount    Opt[int]        `json:"discount"`
	Rating      Opt[float64]    `json:"rating"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Product) IsFeatured() bool { return p.Featured.Or(false) }

// SalePrice is the price after the discount percentage, if any.
// Cart totals do not use it.
func (p Product) SalePrice() decimal.Decimal {
	d, ok := p.Discount.Get()
	if !ok || d <= 0 {
		return p.Price
	}
	if d > 100 {
		d = 100
	}
	off := p.Price.Mul(decimal.NewFromInt(int64(d))).Div(decimal.NewFromInt(100))
	return p.Price.Sub(off)
}
