package tabs

import "github.com/zatekoja/premier-landing/backend/internal/domain/entities"

// DefaultTab is the tab shown when the location names none
const DefaultTab = entities.TabAppointment

// DefaultTabs is the action panel in display order
func DefaultTabs() []entities.Tab {
	return []entities.Tab{
		{
			ID:          entities.TabAppointment,
			Label:       "Đặt lịch hẹn",
			Description: "Chọn thời gian phù hợp nhất với bạn",
			Form:        entities.FormKindAppointment,
		},
		{
			ID:          entities.TabConsult,
			Label:       "Tư vấn trực tuyến",
			Description: "Nhận tư vấn chuyên nghiệp trực tuyến",
			Form:        entities.FormKindConsult,
		},
		{
			ID:          entities.TabSupport,
			Label:       "Gửi yêu cầu hỗ trợ",
			Description: "Gửi yêu cầu và nhận hỗ trợ nhanh chóng",
			Form:        entities.FormKindSupportTicket,
		},
	}
}
