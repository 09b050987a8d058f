package portal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ward-portal/internal/http/respond"
	"github.com/wolfman30/ward-portal/internal/locale"
)

// Handler serves the directory endpoints under /api.
type Handler struct {
	links Links
	now   func() time.Time
}

// NewHandler creates a directory handler. now must return times in the
// office timezone.
func NewHandler(links Links, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{links: links, now: now}
}

// Register adds the directory endpoints to r, which is mounted at /api.
func (h *Handler) Register(r chi.Router) {
	r.Get("/links", h.GetLinks)
	r.Get("/online-services", h.ListOnlineServices)
	r.Get("/today", h.Today)
}

// GetLinks handles GET /api/links
func (h *Handler) GetLinks(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.links)
}

// ListOnlineServices handles GET /api/online-services
func (h *Handler) ListOnlineServices(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"services": OnlineServices()})
}

type todayResponse struct {
	Date    string `json:"date"`
	ISODate string `json:"iso_date"`
	Time    string `json:"time"`
	Weekday string `json:"weekday"`
}

var weekdaysVI = [...]string{"Chủ Nhật", "Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy"}

// Today handles GET /api/today?lang=
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	weekday := now.Weekday().String()
	if locale.Parse(r.URL.Query().Get("lang")) == locale.Vietnamese {
		weekday = weekdaysVI[now.Weekday()]
	}
	respond.JSON(w, http.StatusOK, todayResponse{
		Date:    now.Format("02/01/2006"),
		ISODate: now.Format(time.DateOnly),
		Time:    now.Format("15:04"),
		Weekday: weekday,
	})
}
