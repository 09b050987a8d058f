package procedures

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ward-portal/internal/http/respond"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Handler{catalog: catalog}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Search)
	r.Get("/categories", h.Categories)
	r.Get("/{id}", h.Get)
	return r
}

type searchResponse struct {
	Procedures []Procedure `json:"procedures"`
	Count      int         `json:"count"`
}

// Search handles GET /api/procedures?q=&category=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := h.catalog.Search(q.Get("q"), q.Get("category"))
	respond.JSON(w, http.StatusOK, searchResponse{Procedures: items, Count: len(items)})
}

// Categories handles GET /api/procedures/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"categories": h.catalog.Categories()})
}

// Get handles GET /api/procedures/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		respond.Error(w, http.StatusNotFound, "procedure not found")
		return
	}
	respond.JSON(w, http.StatusOK, p)
}
