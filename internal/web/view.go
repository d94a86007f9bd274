package web

import (
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/application/visibility"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/validation"
)

// PageView is everything the index template reads
type PageView struct {
	Content   *entities.PageContent
	Tabs      []TabView
	ActiveTab entities.TabID
	CTA       CTAView
}

// TabView is one tab button and its panel
type TabView struct {
	ID          entities.TabID
	Label       string
	Description string
	ControlID   string
	PanelID     string
	Active      bool
	Form        FormView
}

// FormView is one form as rendered from its snapshot
type FormView struct {
	Kind       entities.FormKind
	Action     string
	API        string
	State      entities.SubmissionState
	Submitting bool
	Success    bool
	FormError  string
	Fields     []FieldView
	Copy       entities.FormCopy
}

// FieldView is one input with its current value and message
type FieldView struct {
	Name        string
	ID          string
	ErrorID     string
	Label       string
	Input       string
	Placeholder string
	Value       string
	Error       string
	Min         string
	Options     []entities.Option
}

// CTAView configures the floating call-to-action
type CTAView struct {
	Label         string
	AnchorID      string
	Threshold     float64
	RootMarginTop float64
	Visible       bool
}

// PageInput is the session state a page is rendered from
type PageInput struct {
	Tabs       entities.TabState
	Snapshots  map[entities.FormKind]entities.FormSnapshot
	CTA        visibility.Options
	CTAVisible bool
	Now        time.Time
}

// NewPageView assembles the template view from copy and session state
func NewPageView(content *entities.PageContent, in PageInput) PageView {
	view := PageView{
		Content:   content,
		ActiveTab: in.Tabs.ActiveTabID,
		CTA: CTAView{
			Label:         content.StickyCTA,
			AnchorID:      in.CTA.AnchorID,
			Threshold:     in.CTA.Threshold,
			RootMarginTop: in.CTA.RootMarginTop,
			Visible:       in.CTAVisible,
		},
	}

	today := in.Now.Format("2006-01-02")
	for _, tab := range in.Tabs.Tabs {
		kind := tab.ID.FormKind()
		view.Tabs = append(view.Tabs, TabView{
			ID:          tab.ID,
			Label:       tab.Label,
			Description: tab.Description,
			ControlID:   tab.ID.ControlID(),
			PanelID:     tab.ID.PanelID(),
			Active:      tab.ID == in.Tabs.ActiveTabID,
			Form:        newFormView(kind, content.Forms[kind], in.Snapshots[kind], today),
		})
	}
	return view
}

func newFormView(kind entities.FormKind, formCopy entities.FormCopy, snapshot entities.FormSnapshot, today string) FormView {
	view := FormView{
		Kind:       kind,
		Action:     "/forms/" + string(kind),
		API:        "/api/forms/" + string(kind),
		State:      snapshot.State,
		Submitting: snapshot.State == entities.SubmissionStateSubmitting,
		Success:    snapshot.State == entities.SubmissionStateSuccess,
		FormError:  snapshot.FormError,
		Copy:       formCopy,
	}

	schema, ok := validation.SchemaFor(kind)
	if !ok {
		return view
	}
	for _, field := range schema.Fields {
		id := string(kind) + "-" + field.Name
		fv := FieldView{
			Name:        field.Name,
			ID:          id,
			ErrorID:     id + "-error",
			Label:       formCopy.Labels[field.Name],
			Input:       string(field.Input),
			Placeholder: formCopy.Placeholders[field.Name],
			Value:       snapshot.Values[field.Name],
			Error:       snapshot.Errors[field.Name],
			Options:     formCopy.Options[field.Name],
		}
		if fv.Label == "" {
			fv.Label = field.Name
		}
		if field.Input == validation.InputDate {
			fv.Min = today
		}
		if len(fv.Options) == 0 {
			for _, value := range field.Options {
				fv.Options = append(fv.Options, entities.Option{Value: value, Label: value})
			}
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}
