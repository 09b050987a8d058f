package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/ward-portal/internal/http/respond"
	"github.com/wolfman30/ward-portal/internal/locale"
	"github.com/wolfman30/ward-portal/internal/notifications"
	"github.com/wolfman30/ward-portal/internal/schedule"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// Handler exposes the appointment flow over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("booking: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CatalogRoutes serves the pickers under /api/booking.
func (h *Handler) CatalogRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/services", h.ListServices)
	r.Get("/dates", h.ListDates)
	r.Get("/slots", h.ListSlots)
	r.Post("/preview", h.Preview)
	return r
}

// Routes serves bookings under /api/bookings.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Confirm)
	r.Get("/", h.History)
	r.Get("/{code}", h.Get)
	return r
}

// ListServices handles GET /api/booking/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"services": Services()})
}

type dateOption struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Weekday string `json:"weekday"`
	IsToday bool   `json:"is_today"`
}

// ListDates handles GET /api/booking/dates
func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	dates := h.service.Dates()
	out := make([]dateOption, 0, len(dates))
	for i, d := range dates {
		out = append(out, dateOption{
			Date:    d.Format(schedule.DateLayout),
			Label:   DisplayDate(d),
			Weekday: weekdayName(d.Weekday(), locale.Parse(r.URL.Query().Get("lang"))),
			IsToday: i == 0 && schedule.SameDay(d, h.service.now()),
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"dates": out})
}

type slotsResponse struct {
	Date      string          `json:"date"`
	Slots     []schedule.Slot `json:"slots"`
	Exhausted bool            `json:"exhausted"`
	IsToday   bool            `json:"is_today"`
	Message   string          `json:"message,omitempty"`
}

// ListSlots handles GET /api/booking/slots?date=YYYY-MM-DD&lang=
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.service.now().Format(schedule.DateLayout)
	}
	avail, err := h.service.Availability(date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := slotsResponse{
		Date:      avail.Date.Format(schedule.DateLayout),
		Slots:     avail.Slots,
		Exhausted: avail.Exhausted,
		IsToday:   avail.IsToday,
	}
	if avail.Exhausted {
		strs := locale.Strings(locale.Parse(r.URL.Query().Get("lang")))
		resp.Message = strs.NoSlotsOnDate
		if avail.IsToday {
			resp.Message = strs.NoSlotsToday
		}
	}
	respond.JSON(w, http.StatusOK, resp)
}

// Preview handles POST /api/booking/preview
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	preview, err := h.service.Preview(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, preview)
}

// Confirm handles POST /api/bookings
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var draft Draft
	if err := respond.Decode(r, &draft); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if draft.InboxID == "" {
		draft.InboxID = notifications.InboxFrom(r)
	}
	conf, err := h.service.Confirm(r.Context(), draft)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, conf)
}

// Get handles GET /api/bookings/{code}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, b.View())
}

// History handles GET /api/bookings?national_id=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("national_id")
	if id == "" {
		respond.FieldError(w, "national_id", "national_id is required")
		return
	}
	list, err := h.service.History(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	views := make([]View, 0, len(list))
	for i := range list {
		views = append(views, list[i].View())
	}
	respond.JSON(w, http.StatusOK, map[string]any{"bookings": views, "count": len(views)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.FieldError(w, verr.Field, verr.Error())
	case errors.Is(err, ErrInvalidDraft), errors.Is(err, schedule.ErrInvalidDate):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDateOutOfWindow):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrSlotUnavailable):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("booking request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

var weekdaysVI = [...]string{"Chủ Nhật", "Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy"}

func weekdayName(d time.Weekday, lang locale.Language) string {
	if lang == locale.English {
		return d.String()
	}
	return weekdaysVI[d]
}
