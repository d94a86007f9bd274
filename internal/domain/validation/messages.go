package validation

// MessageKey names one failure reason of one field
type MessageKey string

const (
	MsgNameRequired        MessageKey = "name.required"
	MsgPhoneRequired       MessageKey = "phone.required"
	MsgPhoneInvalid        MessageKey = "phone.invalid"
	MsgEmailRequired       MessageKey = "email.required"
	MsgEmailInvalid        MessageKey = "email.invalid"
	MsgContactRequired     MessageKey = "contact.required"
	MsgMeetingTypeRequired MessageKey = "meetingType.required"
	MsgMeetingTypeInvalid  MessageKey = "meetingType.invalid"
	MsgDateRequired        MessageKey = "date.required"
	MsgDateInvalid         MessageKey = "date.invalid"
	MsgDatePast            MessageKey = "date.past"
	MsgDescriptionRequired MessageKey = "description.required"
	MsgDescriptionTooShort MessageKey = "description.tooShort"
	MsgSubmissionFailed    MessageKey = "submission.failed"
)

// vi is the only locale the page ships with
var vi = map[MessageKey]string{
	MsgNameRequired:        "Vui lòng nhập họ và tên",
	MsgPhoneRequired:       "Vui lòng nhập số điện thoại",
	MsgPhoneInvalid:        "Số điện thoại không hợp lệ",
	MsgEmailRequired:       "Vui lòng nhập email",
	MsgEmailInvalid:        "Email không hợp lệ",
	MsgContactRequired:     "Vui lòng nhập email hoặc số điện thoại",
	MsgMeetingTypeRequired: "Vui lòng chọn hình thức gặp mặt",
	MsgMeetingTypeInvalid:  "Hình thức gặp mặt không hợp lệ",
	MsgDateRequired:        "Vui lòng chọn ngày",
	MsgDateInvalid:         "Ngày không hợp lệ",
	MsgDatePast:            "Ngày phải từ hôm nay trở đi",
	MsgDescriptionRequired: "Vui lòng nhập mô tả chi tiết",
	MsgDescriptionTooShort: "Mô tả phải có ít nhất 20 ký tự",
	MsgSubmissionFailed:    "Gửi yêu cầu không thành công. Vui lòng thử lại.",
}

// Message returns the display text for key, or the key itself when unknown
func Message(key MessageKey) string {
	if msg, ok := vi[key]; ok {
		return msg
	}
	return string(key)
}
