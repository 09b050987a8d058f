package notifications

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/ward-portal/internal/http/respond"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Handler exposes the inbox over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an inbox handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts the inbox endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/unread", h.Unread)
	r.Post("/{id}/open", h.Open)
	return r
}

// InboxFrom reads the caller's inbox id from InboxHeader, falling back to the
// inbox query parameter for clients that cannot set headers.
func InboxFrom(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(InboxHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("inbox"))
}

type listResponse struct {
	Items  []Item `json:"items"`
	Count  int    `json:"count"`
	Unread int    `json:"unread"`
}

// List handles GET /api/notifications?category=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	category, err := ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	inbox := InboxFrom(r)
	items, err := h.service.List(r.Context(), category, inbox)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	unread, err := h.service.UnreadCount(r.Context(), inbox)
	if err != nil {
		h.logger.Error("failed to count unread notifications", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Items: items, Count: len(items), Unread: unread})
}

// Unread handles GET /api/notifications/unread
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.UnreadCount(r.Context(), InboxFrom(r))
	if err != nil {
		h.logger.Error("failed to count unread notifications", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int{"unread": n})
}

type openResponse struct {
	Item   *Item  `json:"item"`
	Action Action `json:"action"`
}

// Open handles POST /api/notifications/{id}/open
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	item, action, err := h.service.Open(r.Context(), chi.URLParam(r, "id"), InboxFrom(r))
	if errors.Is(err, ErrNotFound) {
		respond.Error(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to open notification", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to open notification")
		return
	}
	respond.JSON(w, http.StatusOK, openResponse{Item: item, Action: action})
}
