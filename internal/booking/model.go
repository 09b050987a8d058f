package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/wolfman30/ward-portal/internal/schedule"
)

var (
	// ErrInvalidDraft is wrapped by every draft validation failure.
	ErrInvalidDraft = errors.New("booking: invalid draft")

	// ErrSlotUnavailable is returned when the chosen slot is no longer offered.
	ErrSlotUnavailable = errors.New("booking: slot unavailable")

	// ErrDateOutOfWindow is returned for dates outside the bookable window.
	ErrDateOutOfWindow = errors.New("booking: date outside booking window")

	// ErrUnknownService is returned for service ids that are not offered.
	ErrUnknownService = errors.New("booking: unknown service")

	// ErrNotFound is returned when no booking matches a code.
	ErrNotFound = errors.New("booking: not found")
)

// ServiceCategory identifies one of the counters citizens can book.
type ServiceCategory string

const (
	ServiceCertification     ServiceCategory = "certification"
	ServiceCivilStatus       ServiceCategory = "civil_status"
	ServiceSocialProtection  ServiceCategory = "social_protection"
	ServiceMaritalStatus     ServiceCategory = "marital_status"
	ServiceLand              ServiceCategory = "land"
	ServiceHouseholdBusiness ServiceCategory = "household_business"
	ServiceOther             ServiceCategory = "other"
)

// ServiceInfo describes an offered service and the counter that handles it.
type ServiceInfo struct {
	ID      ServiceCategory `json:"id"`
	Label   string          `json:"label"`
	Counter string          `json:"counter"`
}

var services = []ServiceInfo{
	{ID: ServiceCertification, Label: "Chứng thực bản sao/chữ ký", Counter: "07"},
	{ID: ServiceCivilStatus, Label: "Hộ tịch (Khai sinh/Kết hôn)", Counter: "10"},
	{ID: ServiceSocialProtection, Label: "Bảo trợ xã hội & Chính sách", Counter: "03"},
	{ID: ServiceMaritalStatus, Label: "Xác nhận tình trạng hôn nhân", Counter: "10"},
	{ID: ServiceLand, Label: "Thủ tục đất đai/xây dựng", Counter: "11"},
	{ID: ServiceHouseholdBusiness, Label: "Đăng ký hộ kinh doanh", Counter: "12"},
	{ID: ServiceOther, Label: "Khác (Tư vấn hành chính)", Counter: "01"},
}

// Services lists the offered services in display order.
func Services() []ServiceInfo {
	out := make([]ServiceInfo, len(services))
	copy(out, services)
	return out
}

// Info returns the label and counter of c.
func (c ServiceCategory) Info() (ServiceInfo, bool) {
	for _, s := range services {
		if s.ID == c {
			return s, true
		}
	}
	return ServiceInfo{}, false
}

// Label is the Vietnamese display name, or the raw id when unknown.
func (c ServiceCategory) Label() string {
	if info, ok := c.Info(); ok {
		return info.Label
	}
	return string(c)
}

// Counter is the service counter number. Unknown services go to counter 01.
func (c ServiceCategory) Counter() string {
	if info, ok := c.Info(); ok {
		return info.Counter
	}
	return "01"
}

// Draft is a booking being filled in by a citizen.
type Draft struct {
	Service     ServiceCategory `json:"service" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Slot        string          `json:"slot" validate:"required"`
	CitizenName string          `json:"citizen_name" validate:"required,max=200"`
	NationalID  string          `json:"national_id" validate:"required,len=12,numeric"`
	Phone       string          `json:"phone" validate:"required,max=20"`
	Note        string          `json:"note,omitempty" validate:"max=1000"`

	// InboxID addresses the confirmation notice. A fresh one is issued when empty.
	InboxID string `json:"inbox_id,omitempty" validate:"max=64"`
}

// Booking is a confirmed appointment.
type Booking struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Service     ServiceCategory `json:"service"`
	ServiceName string          `json:"service_name"`
	Counter     string          `json:"counter"`
	Date        time.Time       `json:"-"`
	DateLabel   string          `json:"date"`
	Slot        schedule.Slot   `json:"slot"`
	CitizenName string          `json:"citizen_name"`
	NationalID  string          `json:"national_id"`
	Phone       string          `json:"phone"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// View is a booking as returned by lookups. National id and phone keep only
// their last three characters.
type View struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Service     ServiceCategory `json:"service"`
	ServiceName string          `json:"service_name"`
	Counter     string          `json:"counter"`
	DateLabel   string          `json:"date"`
	Slot        schedule.Slot   `json:"slot"`
	CitizenName string          `json:"citizen_name"`
	NationalID  string          `json:"national_id"`
	Phone       string          `json:"phone"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// View returns the masked lookup view of b.
func (b *Booking) View() View {
	return View{
		ID:          b.ID,
		Code:        b.Code,
		Service:     b.Service,
		ServiceName: b.ServiceName,
		Counter:     b.Counter,
		DateLabel:   b.DateLabel,
		Slot:        b.Slot,
		CitizenName: b.CitizenName,
		NationalID:  MaskTail(b.NationalID, 3),
		Phone:       MaskTail(b.Phone, 3),
		Note:        b.Note,
		CreatedAt:   b.CreatedAt,
	}
}

// MaskTail replaces every rune of s except the last keep with '*'.
func MaskTail(s string, keep int) string {
	runes := []rune(s)
	if len(runes) <= keep {
		return strings.Repeat("*", len(runes))
	}
	for i := 0; i < len(runes)-keep; i++ {
		runes[i] = '*'
	}
	return string(runes)
}

// DisplayDate renders a date the way tickets print it.
func DisplayDate(t time.Time) string {
	return t.Format("02/01/2006")
}
