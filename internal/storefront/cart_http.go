package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"CricNagar/internal/cart"
	"CricNagar/pkg/kit"
)

type cartResponse struct {
	cart.Summary
	withNotices
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateItemReq struct {
	Quantity *int `json:"quantity"`
}

func (s *Server) writeCart(w http.ResponseWriter, status int, cc *ClientContext) {
	kit.WriteJSON(w, status, cartResponse{
		Summary:     cc.Cart.Summary(),
		withNotices: withNotices{Notices: cc.Notices.Drain()},
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.writeCart(w, http.StatusOK, client(r))
}

// addCartItem adds a catalog product. A missing or non-positive quantity
// adds one.
func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	cc := client(r)

	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}
	if req.Quantity > cart.MaxQuantity {
		writeQuantityTooLarge(w, r)
		return
	}

	p, ok := s.Catalog.ByID(req.ProductID)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": req.ProductID})
		return
	}

	cc.Cart.AddItem(r.Context(), p, req.Quantity)
	s.Metrics.cartOp("add")
	s.writeCart(w, http.StatusOK, cc)
}

func writeQuantityTooLarge(w http.ResponseWriter, r *http.Request) {
	kit.WriteError(w, r, http.StatusBadRequest, "quantity too large", map[string]any{"max": cart.MaxQuantity})
}

// updateCartItem sets a line's quantity. Zero or less removes the line.
// Updating a product that is not in the cart changes nothing.
func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	cc := client(r)
	id := chi.URLParam(r, "id")

	var req updateItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity required", nil)
		return
	}

	if *req.Quantity > cart.MaxQuantity {
		writeQuantityTooLarge(w, r)
		return
	}

	if cc.Cart.UpdateQuantity(r.Context(), id, *req.Quantity) {
		s.Metrics.cartOp("update")
	}
	s.writeCart(w, http.StatusOK, cc)
}

// removeCartItem drops a line. Removing an absent product is a no-op and
// returns the unchanged cart.
func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	cc := client(r)
	id := chi.URLParam(r, "id")

	if cc.Cart.RemoveItem(r.Context(), id) {
		s.Metrics.cartOp("remove")
	}
	s.writeCart(w, http.StatusOK, cc)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	cc := client(r)
	cc.Cart.Clear(r.Context())
	s.Metrics.cartOp("clear")
	s.writeCart(w, http.StatusOK, cc)
}
