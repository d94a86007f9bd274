package entities

// TabID identifies a tab in the action panel
type TabID string

const (
	TabAppointment TabID = "appointment"
	TabConsult     TabID = "consult"
	TabSupport     TabID = "support"
)

// TabQueryParam is the location query parameter mirroring the active tab
const TabQueryParam = "tab"

// Tab describes one entry of the tab list
type Tab struct {
	ID          TabID    `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Form        FormKind `json:"form" yaml:"-"`
}

// ControlID is the element id of the tab button
func (t TabID) ControlID() string {
	return "tab-" + string(t)
}

// PanelID is the element id of the tab panel
func (t TabID) PanelID() string {
	return "tabpanel-" + string(t)
}

// FormKind returns the form hosted by the tab
func (t TabID) FormKind() FormKind {
	switch t {
	case TabConsult:
		return FormKindConsult
	case TabSupport:
		return FormKindSupportTicket
	default:
		return FormKindAppointment
	}
}

// TabState is the coordinator's view of the panel
type TabState struct {
	ActiveTabID TabID `json:"active"`
	Tabs        []Tab `json:"tabs"`
}
