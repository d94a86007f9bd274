package validation

import (
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

// MinDescriptionChars is the shortest accepted support ticket description
const MinDescriptionChars = 20

// Closed option sets of the selector fields
var (
	MeetingTypes = []string{"in-person", "video-call", "phone-call"}
	Topics       = []string{"account-opening", "wealth-management", "insurance", "other"}
	Channels     = []string{"zalo", "whatsapp", "teams", "google-meet"}
	RequestTypes = []string{"product-info", "document-support", "appointment", "feedback"}
)

// AppointmentSchema validates the appointment booking form
var AppointmentSchema = &Schema{
	Kind: entities.FormKindAppointment,
	Fields: []Field{
		{Name: "name", Input: InputText},
		{Name: "phone", Input: InputTel},
		{Name: "email", Input: InputEmail},
		{Name: "meetingType", Input: InputSelect, Options: MeetingTypes},
		{Name: "date", Input: InputDate},
		{Name: "time", Input: InputTime},
		{Name: "notes", Input: InputTextArea},
	},
	Rules: []Rule{
		FieldRule("name", Required(MsgNameRequired)),
		FieldRule("phone", Required(MsgPhoneRequired), Phone(MsgPhoneInvalid)),
		FieldRule("email", Optional(Email(MsgEmailInvalid))),
		FieldRule("meetingType", Required(MsgMeetingTypeRequired), OneOf(MsgMeetingTypeInvalid, MeetingTypes...)),
		FieldRule("date", Required(MsgDateRequired), TodayOrLater(MsgDateInvalid, MsgDatePast)),
	},
}

// ConsultSchema validates the online consultation request
var ConsultSchema = &Schema{
	Kind: entities.FormKindConsult,
	Fields: []Field{
		{Name: "name", Input: InputText},
		{Name: "email", Input: InputEmail},
		{Name: "phone", Input: InputTel},
		{Name: "topic", Input: InputSelect, Options: Topics},
		{Name: "channel", Input: InputSelect, Options: Channels},
		{Name: "preferredTime", Input: InputText},
		{Name: "content", Input: InputTextArea},
	},
	Rules: []Rule{
		FieldRule("name", Required(MsgNameRequired)),
		RequireAny(MsgContactRequired, "email", "phone"),
		FieldRule("email", Optional(Email(MsgEmailInvalid))),
		FieldRule("phone", Optional(Phone(MsgPhoneInvalid))),
	},
}

// SupportTicketSchema validates the support ticket. The ticket has no title
// field, so no title rule exists.
var SupportTicketSchema = &Schema{
	Kind: entities.FormKindSupportTicket,
	Fields: []Field{
		{Name: "name", Input: InputText},
		{Name: "email", Input: InputEmail},
		{Name: "phone", Input: InputTel},
		{Name: "requestType", Input: InputSelect, Options: RequestTypes},
		{Name: "description", Input: InputTextArea},
	},
	Rules: []Rule{
		FieldRule("name", Required(MsgNameRequired)),
		FieldRule("email", Required(MsgEmailRequired), Email(MsgEmailInvalid)),
		FieldRule("description", Required(MsgDescriptionRequired), MinChars(MinDescriptionChars, MsgDescriptionTooShort)),
	},
}

// SchemaFor returns the schema of a form kind
func SchemaFor(kind entities.FormKind) (*Schema, bool) {
	switch kind {
	case entities.FormKindAppointment:
		return AppointmentSchema, true
	case entities.FormKindConsult:
		return ConsultSchema, true
	case entities.FormKindSupportTicket:
		return SupportTicketSchema, true
	}
	return nil, false
}

// ValidateAppointment validates appointment values; now fixes "today".
func ValidateAppointment(values entities.FormValues, now time.Time) entities.ValidationResult {
	return AppointmentSchema.Validate(values, now)
}

// ValidateConsult validates consultation request values.
func ValidateConsult(values entities.FormValues, now time.Time) entities.ValidationResult {
	return ConsultSchema.Validate(values, now)
}

// ValidateSupportTicket validates support ticket values.
func ValidateSupportTicket(values entities.FormValues, now time.Time) entities.ValidationResult {
	return SupportTicketSchema.Validate(values, now)
}
