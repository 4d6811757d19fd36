package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"CricNagar/internal/catalog"
	"CricNagar/internal/notify"
	"CricNagar/internal/storage"
)

// StorageKey is the client storage key holding the serialized cart.
const StorageKey = "cricnagar-cart"

// MaxQuantity caps a single line. Larger requests are clamped to it.
const MaxQuantity = 999

type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type Summary struct {
	Lines      []Line          `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type Deps struct {
	KV       storage.KV
	Notifier notify.Notifier
	Log      *zap.Logger
}

// Store is one client's cart. Lines are unique by product id and every
// quantity is at least 1.
type Store struct {
	mu    sync.Mutex
	lines []Line

	kv       storage.KV
	notifier notify.Notifier
	log      *zap.Logger
}

// Open rehydrates the cart from deps.KV. Unreadable data yields an empty cart.
func Open(ctx context.Context, deps Deps) *Store {
	s := &Store{
		kv:       deps.KV,
		notifier: deps.Notifier,
		log:      deps.Log,
	}
	if s.notifier == nil {
		s.notifier = notify.Nop()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	lines, err := s.load(ctx)
	if err != nil {
		s.log.Warn("discarding saved cart", zap.Error(err))
		lines = nil
	}
	s.lines = lines
	return s
}

func (s *Store) load(ctx context.Context) ([]Line, error) {
	if s.kv == nil {
		return nil, nil
	}

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var saved []Line
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("parse cart: %w", err)
	}

	seen := make(map[string]struct{}, len(saved))
	lines := make([]Line, 0, len(saved))
	for _, l := range saved {
		if l.Product.ID == "" || l.Quantity < 1 {
			continue
		}
		l.Quantity = min(l.Quantity, MaxQuantity)
		if _, dup := seen[l.Product.ID]; dup {
			continue
		}
		seen[l.Product.ID] = struct{}{}
		lines = append(lines, l)
	}
	return lines, nil
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}

	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err == nil {
		err = s.kv.Set(ctx, StorageKey, raw)
	}
	if err != nil {
		s.log.Error("save cart failed", zap.Error(err))
	}
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for p by qty, or appends a new line.
// A qty below 1 counts as 1; the line never exceeds MaxQuantity.
func (s *Store) AddItem(ctx context.Context, p catalog.Product, qty int) Line {
	qty = max(1, min(qty, MaxQuantity))

	s.mu.Lock()
	var (
		line   Line
		notice notify.Notice
	)
	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity = min(s.lines[i].Quantity+qty, MaxQuantity)
		line = s.lines[i]
		notice = notify.Info("Cart updated",
			fmt.Sprintf("%s quantity increased to %d", p.Name, line.Quantity))
	} else {
		line = Line{Product: p, Quantity: qty}
		s.lines = append(s.lines, line)
		notice = notify.Info("Added to cart", p.Name+" added to your cart")
	}
	s.persist(ctx)
	s.mu.Unlock()

	s.notifier.Notify(notice)
	return line
}

// RemoveItem drops the line for productID and reports whether one existed.
func (s *Store) RemoveItem(ctx context.Context, productID string) bool {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.lines[i]
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	s.notifier.Notify(notify.Info("Removed from cart", removed.Product.Name+" removed from your cart"))
	return true
}

// UpdateQuantity sets the quantity of an existing line, clamped to
// MaxQuantity. qty <= 0 removes the line. It never creates a line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) bool {
	if qty <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.lines[i].Quantity = min(qty, MaxQuantity)
	s.persist(ctx)
	return true
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.persist(ctx)
	s.mu.Unlock()

	s.notifier.Notify(notify.Info("Cart cleared", "All items have been removed from your cart"))
}

// Settle removes ordered quantities from the cart. Lines added or grown
// after the order was snapshotted keep the difference.
func (s *Store) Settle(ctx context.Context, ordered []Line) {
	s.mu.Lock()
	for _, o := range ordered {
		i := s.indexOf(o.Product.ID)
		if i < 0 {
			continue
		}
		if left := s.lines[i].Quantity - o.Quantity; left > 0 {
			s.lines[i].Quantity = left
		} else {
			s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
		}
	}
	empty := len(s.lines) == 0
	s.persist(ctx)
	s.mu.Unlock()

	if empty {
		s.notifier.Notify(notify.Info("Cart cleared", "All items have been removed from your cart"))
	}
}

func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

func (s *Store) copyLines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

// TotalPrice sums the undiscounted unit price times quantity.
// TODO: confirm with the product owners whether Product.Discount should
// apply here; the detail page shows the discounted price.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Lines:      s.copyLines(),
		TotalItems: totalItems(s.lines),
		TotalPrice: totalPrice(s.lines),
	}
}

func totalItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func totalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
