// Package portal serves the ward's static directory: outbound links, online
// submission shortcuts and the office's current date.
package portal

// Links are the external destinations the portal opens in a new browser
// context. The service never fetches them.
type Links struct {
	ZaloOA         string `json:"zalo_oa"`
	CityEServices  string `json:"city_e_services"`
	NationalPortal string `json:"national_portal"`
	KioskLookup    string `json:"kiosk_lookup"`
	OfficeAddress  string `json:"office_address"`
}

// DefaultLinks returns the ward's published destinations.
func DefaultLinks() Links {
	return Links{
		ZaloOA:         "https://zalo.me/1358120320651896785",
		CityEServices:  "https://dichvucong.hochiminhcity.gov.vn",
		NationalPortal: "https://thutuc.dichvucong.gov.vn/p/home/dvc-tthc-trang-chu.html",
		KioskLookup:    "https://kiosk.hochiminhcity.gov.vn/vi/kiosk/tracuuhoso",
		OfficeAddress:  "200/12 Nguyễn Hữu Tiến, Phường Tây Thạnh",
	}
}

// OnlineService is a shortcut to a procedure's page on an e-services portal.
type OnlineService struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Time     string `json:"time"`
	Fee      string `json:"fee"`
	Hot      bool   `json:"hot"`
	URL      string `json:"url"`
}

var onlineServices = []OnlineService{
	{ID: 1, Name: "Đăng ký khai sinh", Category: "Hộ tịch", Time: "Trong ngày", Fee: "Miễn phí", Hot: true,
		URL: "https://dichvucong.gov.vn/p/home/dvc-chi-tiet-thu-tuc-hanh-chinh.html?ma_thu_tuc=1.001193"},
	{ID: 2, Name: "Thực hiện trợ cấp xã hội hàng tháng cho người cao tuổi", Category: "Bảo trợ xã hội", Time: "7 ngày làm việc", Fee: "Miễn phí", Hot: true,
		URL: "https://dichvucong.hochiminhcity.gov.vn/vi/thu-tuc-hanh-chinh/chi-tiet?ma=1.000494.000.00.00.H29"},
	{ID: 3, Name: "Đăng ký Kết hôn", Category: "Hộ tịch", Time: "Trong ngày", Fee: "Miễn phí",
		URL: "https://dichvucong.gov.vn/p/home/dvc-chi-tiet-thu-tuc-dung-chung.html?ma_thu_tuc=1.000894"},
	{ID: 4, Name: "Hỗ trợ chi phí mai táng cho đối tượng bảo trợ xã hội", Category: "Bảo trợ xã hội", Time: "3 ngày làm việc", Fee: "Miễn phí",
		URL: "https://dichvucong.hochiminhcity.gov.vn/vi/thu-tuc-hanh-chinh/chi-tiet?ma=1.000497.000.00.00.H29"},
	{ID: 5, Name: "Chứng thực bản sao từ bản chính các giấy tờ, văn bản", Category: "Chứng thực", Time: "1 giờ", Fee: "2.000đ/trang", Hot: true,
		URL: "https://dichvucong.gov.vn/p/home/dvc-danh-sach-dich-vu-cong.html?tinh_thanh=Th%C3%A0nh%20ph%E1%BB%91%20H%E1%BB%93%20Ch%C3%AD%20Minh&quan_huyen=Ph%C6%B0%E1%BB%9Dng%20T%C3%A2y%20Th%E1%BA%A1nh&ma_tt=2.000815"},
}

// OnlineServices lists the submission shortcuts, most requested first.
func OnlineServices() []OnlineService {
	out := make([]OnlineService, 0, len(onlineServices))
	for _, s := range onlineServices {
		if s.Hot {
			out = append(out, s)
		}
	}
	for _, s := range onlineServices {
		if !s.Hot {
			out = append(out, s)
		}
	}
	return out
}
