package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const StatusPlaced = "PLACED"

type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Shipping struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"-"`
	UserID    string          `json:"user_id,omitempty"`
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Shipping  Shipping        `json:"shipping"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
	Ping(ctx context.Context) error
}
