// Package locale holds the portal's two static string tables.
package locale

import "strings"

// Language selects one of the supported string tables.
type Language string

const (
	Vietnamese Language = "vi"
	English    Language = "en"
)

// Parse maps a user-supplied language tag onto a supported Language.
// Anything unrecognised falls back to Vietnamese.
func Parse(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.HasPrefix(tag, "en") {
		return English
	}
	return Vietnamese
}

// Table is the set of user-facing strings the backend produces itself.
type Table struct {
	Welcome             string
	Thinking            string
	EmptyReply          string
	Instruction         string
	ApologyGeneric      string
	ApologyMissingKey   string
	ApologyQuota        string
	ApologyInvalidKey   string
	ApologyNetwork      string
	NoSlotsToday        string
	NoSlotsOnDate       string
	BookingConfirmTitle string
	Suggestions         []string
}

var tables = map[Language]Table{
	Vietnamese: {
		Welcome:             "Kính chào ông/bà, tôi là Trợ lý AI Smart 4.0 Plus của Phường Tây Thạnh. Tôi có thể giúp gì cho ông/bà hôm nay?",
		Thinking:            "AI đang xử lý...",
		EmptyReply:          "Xin lỗi, tôi gặp sự cố.",
		Instruction:         "Hãy phản hồi bằng tiếng Việt.",
		ApologyGeneric:      "Hệ thống đang bận cập nhật, vui lòng thử lại sau.",
		ApologyMissingKey:   "Dạ, Trợ lý ảo chưa được cấu hình khóa truy cập. Ông/bà vui lòng liên hệ trực tiếp UBND Phường Tây Thạnh tại số 200/12 Nguyễn Hữu Tiến để được hỗ trợ ạ.",
		ApologyQuota:        "Dạ, Trợ lý ảo đang quá tải do có nhiều yêu cầu cùng lúc. Ông/bà vui lòng thử lại sau ít phút ạ.",
		ApologyInvalidKey:   "Dạ, khóa truy cập của Trợ lý ảo không hợp lệ. Cán bộ kỹ thuật đã được thông báo, ông/bà vui lòng thử lại sau ạ.",
		ApologyNetwork:      "Dạ, thành thật xin lỗi ông/bà, hệ thống Trợ lý ảo đang gặp sự cố kết nối. Ông/bà vui lòng thử lại sau ít phút ạ.",
		NoSlotsToday:        "Đã hết khung giờ tiếp nhận trong ngày hôm nay. Ông/bà vui lòng chọn ngày khác.",
		NoSlotsOnDate:       "Không còn khung giờ trống trong ngày này. Ông/bà vui lòng chọn ngày khác.",
		BookingConfirmTitle: "Lịch hẹn thành công",
		Suggestions: []string{
			"Thủ tục làm Khai sinh?",
			"Địa chỉ UBND Phường ở đâu?",
			"Làm sao để đặt lịch hẹn?",
			"Phó Giám đốc Trung tâm là ai?",
			"Phí chứng thực bản sao?",
		},
	},
	English: {
		Welcome:             "Welcome, I am the Smart 4.0 Plus AI Assistant of Tay Thanh Ward. How can I assist you today?",
		Thinking:            "AI is thinking...",
		EmptyReply:          "Sorry, I encountered an error.",
		Instruction:         "Please respond in English.",
		ApologyGeneric:      "System is busy updating, please try again later.",
		ApologyMissingKey:   "The assistant has not been configured with an access key yet. Please contact the Tay Thanh Ward office at 200/12 Nguyen Huu Tien for help.",
		ApologyQuota:        "The assistant is handling too many requests right now. Please try again in a few minutes.",
		ApologyInvalidKey:   "The assistant's access key was rejected. Our technical staff have been notified, please try again later.",
		ApologyNetwork:      "We are sorry, the assistant cannot reach its service right now. Please try again in a few minutes.",
		NoSlotsToday:        "There are no time slots left today. Please choose another day.",
		NoSlotsOnDate:       "There are no free time slots on this day. Please choose another day.",
		BookingConfirmTitle: "Appointment confirmed",
		Suggestions: []string{
			"Birth registration process?",
			"Where is the Ward Office?",
			"How to book an appointment?",
			"Who is the Deputy Director?",
			"Notarization service fees?",
		},
	},
}

// Strings returns the table for lang, defaulting to Vietnamese.
func Strings(lang Language) Table {
	if t, ok := tables[lang]; ok {
		return t
	}
	return tables[Vietnamese]
}
