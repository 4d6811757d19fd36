package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"CricNagar/internal/cart"
)

const DefaultLatency = 2 * time.Second

// TaxRate is applied to the cart subtotal.
var TaxRate = decimal.New(13, -2)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrMissingField = errors.New("missing shipping field")
)

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Summary() cart.Summary
	Settle(ctx context.Context, ordered []cart.Line)
}

type Request struct {
	ClientID string
	UserID   string
	Shipping Shipping
	Cart     Cart
}

type Service struct {
	Store Store
	Log   *zap.Logger

	// Latency simulates payment processing.
	Latency time.Duration
	Sleep   func(time.Duration)
	Now     func() time.Time
}

func (s *Service) Checkout(ctx context.Context, req Request) (Order, error) {
	if err := validateShipping(req.Shipping); err != nil {
		return Order{}, err
	}

	sum := req.Cart.Summary()
	if len(sum.Lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	// Once processing starts it runs to completion.
	ctx = context.WithoutCancel(ctx)
	s.sleep(s.Latency)

	o := build(sum)
	o.ID = "o_" + uuid.NewString()
	o.ClientID = req.ClientID
	o.UserID = req.UserID
	o.Shipping = req.Shipping
	o.Status = StatusPlaced
	o.CreatedAt = s.now().UTC()

	if err := s.Store.Create(ctx, o); err != nil {
		return Order{}, fmt.Errorf("store order: %w", err)
	}

	// Only what was ordered leaves the cart; items added while the
	// payment was processing stay.
	req.Cart.Settle(ctx, sum.Lines)

	if s.Log != nil {
		s.Log.Info("order placed",
			zap.String("order_id", o.ID),
			zap.Int("items", sum.TotalItems),
			zap.String("total", o.Total.StringFixed(2)),
		)
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, bool, error) {
	return s.Store.Get(ctx, id)
}

// build prices the order from the cart summary. The subtotal is the cart
// total, which ignores product discounts.
func build(sum cart.Summary) Order {
	items := make([]Item, 0, len(sum.Lines))
	for _, l := range sum.Lines {
		items = append(items, Item{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Qty:       l.Quantity,
			UnitPrice: l.Product.Price,
		})
	}

	tax := sum.TotalPrice.Mul(TaxRate).Round(2)
	return Order{
		Items:    items,
		Subtotal: sum.TotalPrice,
		Tax:      tax,
		Total:    sum.TotalPrice.Add(tax),
	}
}

func validateShipping(sh Shipping) error {
	required := []struct {
		name, value string
	}{
		{"full_name", sh.FullName},
		{"address", sh.Address},
		{"city", sh.City},
		{"postal_code", sh.PostalCode},
		{"phone", sh.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

func (s *Service) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
