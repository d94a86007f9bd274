package entities

import "time"

// FormEventType describes what happened to a form instance
type FormEventType string

const (
	FormEventChanged    FormEventType = "form.changed"
	FormEventSubmitting FormEventType = "form.submitting"
	FormEventSucceeded  FormEventType = "form.succeeded"
	FormEventFailed     FormEventType = "form.failed"
	FormEventDismissed  FormEventType = "form.dismissed"
	FormEventInvalid    FormEventType = "form.invalid"
)

// FormEvent is published whenever a session's form changes state
type FormEvent struct {
	ID        string        `json:"id"`
	Type      FormEventType `json:"type"`
	SessionID string        `json:"session_id"`
	Snapshot  FormSnapshot  `json:"snapshot"`
	At        time.Time     `json:"at"`
}
