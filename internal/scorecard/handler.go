package scorecard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/wolfman30/ward-portal/internal/http/respond"
)

// Handler serves GET /api/scorecard?year=&month=
type Handler struct {
	now func() time.Time
}

// NewHandler creates a scorecard handler; now supplies the default period.
func NewHandler(now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{now: now}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	current := h.now()
	year, month := current.Year(), int(current.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond.FieldError(w, "year", "year must be a number")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond.FieldError(w, "month", "month must be a number")
			return
		}
		month = n
	}

	report, err := Build(year, month)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, report)
}
