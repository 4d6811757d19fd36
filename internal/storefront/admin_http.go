package storefront

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"CricNagar/internal/catalog"
	"CricNagar/internal/notify"
	"CricNagar/pkg/kit"
)

type adminProductResp struct {
	Product catalog.Product `json:"product"`
	withNotices
}

// Admin changes land in the client's workspace only. The public catalog
// is never modified.

func (s *Server) adminListProducts(w http.ResponseWriter, r *http.Request) {
	ps := client(r).Workspace().List()
	kit.WriteJSON(w, http.StatusOK, map[string]any{"products": ps, "count": len(ps)})
}

func (s *Server) adminAddProduct(w http.ResponseWriter, r *http.Request) {
	cc := client(r)

	var d catalog.Draft
	if err := kit.DecodeJSON(w, r, &d); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	p, err := cc.Workspace().Add(d)
	if errors.Is(err, catalog.ErrInvalidProduct) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product", map[string]any{"reason": err.Error()})
		return
	}
	if err != nil {
		s.serverError(w, r, "add product failed", err)
		return
	}

	cc.Notices.Notify(notify.Info("Product Added", fmt.Sprintf("%q has been added successfully.", p.Name)))
	s.Metrics.productChange("add")
	kit.WriteJSON(w, http.StatusCreated, adminProductResp{
		Product:     p,
		withNotices: withNotices{Notices: cc.Notices.Drain()},
	})
}

func (s *Server) adminRemoveProduct(w http.ResponseWriter, r *http.Request) {
	cc := client(r)
	id := chi.URLParam(r, "id")

	if !cc.Workspace().Remove(id) {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	cc.Notices.Notify(notify.Info("Product Deleted", "The product has been removed successfully."))
	s.Metrics.productChange("remove")
	kit.WriteJSON(w, http.StatusOK, withNotices{Notices: cc.Notices.Drain()})
}
