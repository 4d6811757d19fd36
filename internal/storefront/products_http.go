package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"CricNagar/internal/catalog"
	"CricNagar/internal/listing"
	"CricNagar/pkg/kit"
)

type productDetail struct {
	Product   catalog.Product   `json:"product"`
	SalePrice decimal.Decimal   `json:"sale_price"`
	Related   []catalog.Product `json:"related"`
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{"categories": catalog.Categories()})
}

// listProducts runs the filter pipeline over the query string. Unknown or
// malformed parameters fall back to their defaults.
func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	res := listing.Run(s.Catalog, listing.Parse(r.URL.Query()))
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) featuredProducts(w http.ResponseWriter, _ *http.Request) {
	ps := s.Catalog.Featured()
	kit.WriteJSON(w, http.StatusOK, map[string]any{"products": ps, "count": len(ps)})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Catalog.ByID(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, productDetail{
		Product:   p,
		SalePrice: p.SalePrice(),
		Related:   s.Catalog.Related(p, relatedLimit),
	})
}
