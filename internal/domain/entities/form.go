package entities

import (
	"time"
)

// FormKind identifies one of the three action-panel forms. The value doubles
// as the submission type discriminator.
type FormKind string

const (
	FormKindAppointment   FormKind = "appointment"
	FormKindConsult       FormKind = "consult"
	FormKindSupportTicket FormKind = "support_ticket"
)

// FormKinds lists every form in panel order
var FormKinds = []FormKind{FormKindAppointment, FormKindConsult, FormKindSupportTicket}

// ParseFormKind accepts a form kind or its tab id
func ParseFormKind(s string) (FormKind, bool) {
	switch s {
	case string(FormKindAppointment):
		return FormKindAppointment, true
	case string(FormKindConsult):
		return FormKindConsult, true
	case string(FormKindSupportTicket), string(TabSupport):
		return FormKindSupportTicket, true
	}
	return "", false
}

// Tab returns the tab that hosts the form
func (k FormKind) Tab() TabID {
	switch k {
	case FormKindConsult:
		return TabConsult
	case FormKindSupportTicket:
		return TabSupport
	default:
		return TabAppointment
	}
}

// FormValues maps field name to its current raw value
type FormValues map[string]string

// Clone returns an independent copy
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FieldErrors maps field name to a message. A missing key means the field has
// no error or has not been validated.
type FieldErrors map[string]string

// Clone returns an independent copy
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, msg := range e {
		out[k] = msg
	}
	return out
}

// ValidationResult is the outcome of running a form's rules.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool        `json:"isValid"`
	Errors FieldErrors `json:"errors"`
}

// SubmissionState is the position of a form in its submit lifecycle
type SubmissionState string

const (
	SubmissionStateEditing    SubmissionState = "editing"
	SubmissionStateSubmitting SubmissionState = "submitting"
	SubmissionStateSuccess    SubmissionState = "success"
)

// Submission is the payload handed to the submission transport
type Submission struct {
	ID          string     `json:"id"`
	Type        FormKind   `json:"type"`
	Data        FormValues `json:"data"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// FormSnapshot is a point-in-time read of one form instance
type FormSnapshot struct {
	Form         FormKind        `json:"form"`
	State        SubmissionState `json:"state"`
	Values       FormValues      `json:"values"`
	Errors       FieldErrors     `json:"errors"`
	FormError    string          `json:"form_error,omitempty"`
	SubmissionID string          `json:"submission_id,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HasError reports whether the field currently carries a message
func (s FormSnapshot) HasError(field string) bool {
	_, ok := s.Errors[field]
	return ok
}
