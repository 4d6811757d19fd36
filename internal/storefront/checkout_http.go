package storefront

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"CricNagar/internal/notify"
	"CricNagar/internal/order"
	"CricNagar/pkg/kit"
)

type checkoutResp struct {
	Order order.Order `json:"order"`
	withNotices
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	cc := client(r)

	var sh order.Shipping
	if err := kit.DecodeJSON(w, r, &sh); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	req := order.Request{
		ClientID: cc.ID,
		Shipping: sh,
		Cart:     cc.Cart,
	}
	if id, ok := cc.Session.Current(); ok {
		req.UserID = id.ID
	}

	o, err := s.Orders.Checkout(r.Context(), req)
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		kit.WriteError(w, r, http.StatusBadRequest, "cart is empty", nil)
		return
	case errors.Is(err, order.ErrMissingField):
		kit.WriteError(w, r, http.StatusBadRequest, "missing shipping field", map[string]any{"reason": err.Error()})
		return
	case err != nil:
		s.serverError(w, r, "checkout failed", err)
		return
	}

	s.Metrics.cartOp("checkout")
	s.Metrics.orderPlaced(o.Total.InexactFloat64())

	// The cart's own "Cart cleared" notice is superseded by the order notice.
	cc.Notices.Drain()
	cc.Notices.Notify(notify.Info("Order Placed Successfully!", "Your order has been placed and will be processed shortly."))

	kit.WriteJSON(w, http.StatusCreated, checkoutResp{
		Order:       o,
		withNotices: withNotices{Notices: cc.Notices.Drain()},
	})
}

// getOrder only returns orders placed from the caller's client.
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	cc := client(r)
	id := chi.URLParam(r, "id")

	o, ok, err := s.Orders.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, r, "get order failed", err)
		return
	}
	if !ok || o.ClientID != cc.ID {
		kit.WriteError(w, r, http.StatusNotFound, "order not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}
