// Package procedures serves the ward's administrative procedure catalog.
package procedures

import "strings"

// AllCategories is the category filter value that matches every procedure.
const AllCategories = "Tất cả"

// Procedure describes one administrative procedure handled at the ward.
type Procedure struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	EstimatedDays int    `json:"estimated_days"`
	Cost          string `json:"cost"`
}

var catalog = []Procedure{
	{ID: "1", Title: "Đăng ký khai sinh", Category: "Hộ tịch", Description: "Đăng ký khai sinh cho trẻ em sinh ra tại địa phương.", EstimatedDays: 1, Cost: "Miễn phí"},
	{ID: "2", Title: "Đăng ký kết hôn", Category: "Hộ tịch", Description: "Đăng ký kết hôn cho công dân Việt Nam cư trú trong nước.", EstimatedDays: 1, Cost: "Miễn phí"},
	{ID: "3", Title: "Chứng thực bản sao từ bản chính", Category: "Chứng thực", Description: "Chứng thực các loại giấy tờ, văn bằng từ bản gốc.", EstimatedDays: 0, Cost: "2,000đ/trang"},
	{ID: "4", Title: "Cấp giấy xác nhận tình trạng hôn nhân", Category: "Hộ tịch", Description: "Cấp giấy xác nhận độc thân để sử dụng vào các mục đích pháp lý.", EstimatedDays: 3, Cost: "Miễn phí"},
	{ID: "5", Title: "Khai báo tạm trú", Category: "Cư trú", Description: "Thông báo lưu trú đối với người từ nơi khác đến.", EstimatedDays: 0, Cost: "Miễn phí"},
	{ID: "6", Title: "Hỗ trợ mai táng phí", Category: "Bảo trợ xã hội", Description: "Thủ tục dành cho người có công hoặc đối tượng chính sách.", EstimatedDays: 7, Cost: "Miễn phí"},
}

// Catalog is a read-only list of procedures.
type Catalog struct {
	items []Procedure
}

// NewCatalog returns the ward's standard catalog.
func NewCatalog() *Catalog {
	return &Catalog{items: append([]Procedure(nil), catalog...)}
}

// Search returns procedures whose title contains term (case-insensitive) and
// whose category equals category. An empty category, "all" or AllCategories
// matches every category.
func (c *Catalog) Search(term, category string) []Procedure {
	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.TrimSpace(category)
	anyCategory := category == "" || category == AllCategories || strings.EqualFold(category, "all")

	out := make([]Procedure, 0, len(c.items))
	for _, p := range c.items {
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) {
			continue
		}
		if !anyCategory && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Get returns the procedure with id.
func (c *Catalog) Get(id string) (Procedure, bool) {
	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return Procedure{}, false
}

// Categories lists AllCategories followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c.items))
	out := []string{AllCategories}
	for _, p := range c.items {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
