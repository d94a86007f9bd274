package tabs

import (
	"fmt"
	"sync"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

// Direction is a keyboard movement inside the tab list
type Direction string

const (
	DirectionPrevious Direction = "previous"
	DirectionNext     Direction = "next"
	DirectionFirst    Direction = "first"
	DirectionLast     Direction = "last"
)

// DirectionForKey maps a keyboard key name to a movement
func DirectionForKey(key string) (Direction, bool) {
	switch key {
	case "ArrowLeft":
		return DirectionPrevious, true
	case "ArrowRight":
		return DirectionNext, true
	case "Home":
		return DirectionFirst, true
	case "End":
		return DirectionLast, true
	}
	return "", false
}

// FocusRequest asks the page to move keyboard focus to a tab control
type FocusRequest struct {
	TabID     entities.TabID `json:"tab"`
	ControlID string         `json:"control_id"`
}

// ChangeFunc is told about every selection
type ChangeFunc func(id entities.TabID)

// Coordinator holds the active tab of one page and keeps the location's
// tab parameter in step with it.
type Coordinator struct {
	mu       sync.RWMutex
	tabs     []entities.Tab
	active   entities.TabID
	location Location
	onChange ChangeFunc
}

// NewCoordinator creates an uninitialized coordinator
func NewCoordinator(onChange ChangeFunc) *Coordinator {
	return &Coordinator{onChange: onChange}
}

// Initialize adopts the location's tab parameter when it names a known tab,
// otherwise defaultID. The callback is not invoked and the location is left
// untouched.
func (c *Coordinator) Initialize(tabs []entities.Tab, defaultID entities.TabID, location Location) error {
	if len(tabs) == 0 {
		return apperrors.NewValidationError("tab list is empty")
	}
	if indexOf(tabs, defaultID) < 0 {
		return apperrors.NewValidationError(fmt.Sprintf("default tab %q is not in the tab list", defaultID))
	}

	active := defaultID
	if location != nil {
		if requested := entities.TabID(location.Query(entities.TabQueryParam)); indexOf(tabs, requested) >= 0 {
			active = requested
		}
	}

	c.mu.Lock()
	c.tabs = append([]entities.Tab(nil), tabs...)
	c.active = active
	c.location = location
	c.mu.Unlock()
	return nil
}

// Select makes id active, invokes the change callback and replaces the
// location's tab parameter.
func (c *Coordinator) Select(id entities.TabID) error {
	c.mu.Lock()
	if indexOf(c.tabs, id) < 0 {
		c.mu.Unlock()
		return apperrors.NewNotFoundError(fmt.Sprintf("tab %q not found", id))
	}
	c.active = id
	location := c.location
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(id)
	}
	if location != nil {
		location.ReplaceQuery(entities.TabQueryParam, string(id))
	}
	return nil
}

// Activate is the entry point for controls outside the tab list, such as
// navbar links and the floating CTA.
func (c *Coordinator) Activate(id entities.TabID) error {
	return c.Select(id)
}

// MoveFocus selects the neighbour of current in direction and asks for focus
// on its control. Previous and next wrap around.
func (c *Coordinator) MoveFocus(current entities.TabID, direction Direction) (FocusRequest, error) {
	c.mu.RLock()
	idx := indexOf(c.tabs, current)
	n := len(c.tabs)
	c.mu.RUnlock()

	if idx < 0 {
		return FocusRequest{}, apperrors.NewNotFoundError(fmt.Sprintf("tab %q not found", current))
	}

	var next int
	switch direction {
	case DirectionPrevious:
		next = (idx - 1 + n) % n
	case DirectionNext:
		next = (idx + 1) % n
	case DirectionFirst:
		next = 0
	case DirectionLast:
		next = n - 1
	default:
		return FocusRequest{}, apperrors.NewValidationError(fmt.Sprintf("unknown direction %q", direction))
	}

	c.mu.RLock()
	target := c.tabs[next].ID
	c.mu.RUnlock()

	if err := c.Select(target); err != nil {
		return FocusRequest{}, err
	}
	return FocusRequest{TabID: target, ControlID: target.ControlID()}, nil
}

// Active returns the active tab id
func (c *Coordinator) Active() entities.TabID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// State returns the active id and a copy of the tab list
func (c *Coordinator) State() entities.TabState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return entities.TabState{
		ActiveTabID: c.active,
		Tabs:        append([]entities.Tab(nil), c.tabs...),
	}
}

// URL returns the current location, or "" when there is none
func (c *Coordinator) URL() string {
	c.mu.RLock()
	location := c.location
	c.mu.RUnlock()
	if location == nil {
		return ""
	}
	return location.String()
}

func indexOf(tabs []entities.Tab, id entities.TabID) int {
	for i, t := range tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
