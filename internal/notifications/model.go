package notifications

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an item id is unknown.
	ErrNotFound = errors.New("notifications: item not found")

	// ErrInvalidCategory is returned for categories outside the inbox taxonomy.
	ErrInvalidCategory = errors.New("notifications: invalid category")

	// ErrInboxRequired is returned when a personal notice has no recipient inbox.
	ErrInboxRequired = errors.New("notifications: inbox id required")
)

// Category groups inbox items the way the portal's tabs do.
type Category string

const (
	CategoryAnnouncement Category = "announcement"
	CategoryNews         Category = "news"
	CategoryEvent        Category = "event"
)

// ParseCategory validates a category filter. Empty and "all" select every item.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case "", "all":
		return "", nil
	case CategoryAnnouncement, CategoryNews, CategoryEvent:
		return Category(raw), nil
	default:
		return "", ErrInvalidCategory
	}
}

// BookingSnapshot is the denormalized copy of a confirmed booking carried by
// its confirmation notice.
type BookingSnapshot struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Service string `json:"service"`
	Time    string `json:"time"`
	Date    string `json:"date"`
	Counter string `json:"counter"`
}

// InboxHeader carries the caller's inbox id. Items addressed to an inbox are
// only visible to requests presenting the same id.
const InboxHeader = "X-Inbox-ID"

// Item is one entry in the citizen's inbox. Items with an empty Inbox are
// broadcast to everyone.
type Item struct {
	ID        string           `json:"id"`
	Inbox     string           `json:"inbox,omitempty"`
	Title     string           `json:"title"`
	Summary   string           `json:"summary"`
	Timestamp time.Time        `json:"timestamp"`
	Category  Category         `json:"category"`
	Read      bool             `json:"read"`
	Important bool             `json:"important,omitempty"`
	URL       string           `json:"url,omitempty"`
	IsBooking bool             `json:"is_booking,omitempty"`
	Booking   *BookingSnapshot `json:"booking,omitempty"`
}

// Action tells the client what opening an item should do.
type Action string

const (
	ActionNone       Action = "none"
	ActionShowTicket Action = "show_ticket"
	ActionOpenURL    Action = "open_url"
)

// ActionFor derives the open action from the item's payload.
func ActionFor(item *Item) Action {
	switch {
	case item.IsBooking && item.Booking != nil:
		return ActionShowTicket
	case item.URL != "" && item.URL != "#":
		return ActionOpenURL
	default:
		return ActionNone
	}
}

// VisibleTo reports whether inbox may see item.
func (item *Item) VisibleTo(inbox string) bool {
	return item.Inbox == "" || item.Inbox == inbox
}

func matches(item *Item, category Category, inbox string) bool {
	return item.VisibleTo(inbox) && (category == "" || item.Category == category)
}

// Seed returns the static editorial items the portal ships with.
func Seed() []Item {
	loc := time.FixedZone("ICT", 7*60*60)
	return []Item{
		{
			ID:        "seed-1",
			Title:     "Thông báo về việc nghỉ lễ Tết dương lịch 01/01/2026",
			Summary:   "UBND Phường Tây Thạnh thông báo lịch nghỉ lễ và trực giải quyết hồ sơ cấp bách.",
			Timestamp: time.Date(2024, 8, 25, 10, 30, 0, 0, loc),
			Category:  CategoryAnnouncement,
			URL:       "https://thuvienphapluat.vn/chinh-sach-phap-luat-moi/vn/ho-tro-phap-luat/tu-van-phap-luat/92028/lich-nghi-le-quoc-khanh-2-9-2025-nguoi-lao-dong-duoc-nghi-le-4-ngay-hay-3-ngay",
			Important: true,
		},
		{
			ID:        "seed-3",
			Title:     "Hướng dẫn nộp hồ sơ trực tuyến qua Cổng dịch vụ công mới",
			Summary:   "Các bước đơn giản để nộp hồ sơ chứng thực bản sao và đăng ký khai sinh ngay tại nhà.",
			Timestamp: time.Date(2025, 1, 5, 5, 0, 0, 0, loc),
			Category:  CategoryNews,
			URL:       "https://www.youtube.com/watch?v=HSmgjZ4Q6dM",
			Read:      true,
			Important: true,
		},
	}
}
