package tracking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ward-portal/internal/http/respond"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Handler exposes dossier lookup over HTTP.
type Handler struct {
	store  Store
	logger *logging.Logger
}

func NewHandler(store Store, logger *logging.Logger) *Handler {
	if store == nil {
		panic("tracking: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Lookup)
	return r
}

// Lookup handles GET /api/tracking/{id}
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Lookup(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Không tìm thấy hồ sơ")
	case err != nil:
		h.logger.Error("dossier lookup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
	default:
		respond.JSON(w, http.StatusOK, doc)
	}
}
