package visibility

import (
	"fmt"
	"math"
	"sync"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

// AnchorAppointment is the element that hosts the tabbed action panel
const AnchorAppointment = "hero-appointment"

// Options configures when the floating CTA shows
type Options struct {
	// Threshold is the visible fraction of the anchor at which it counts as
	// intersecting
	Threshold float64 `json:"threshold"`

	// RootMarginTop grows (positive) or shrinks (negative) the viewport at
	// the top, in CSS pixels
	RootMarginTop float64 `json:"root_margin_top"`

	AnchorID string `json:"anchor_id"`

	// ActivateTab is selected when jumping to the anchor; empty selects nothing
	ActivateTab entities.TabID `json:"activate_tab,omitempty"`
}

// DefaultOptions watches the action panel and hides the CTA while at least a
// tenth of it sits below the top 100px of the viewport.
func DefaultOptions() Options {
	return Options{
		Threshold:     0.1,
		RootMarginTop: -100,
		AnchorID:      AnchorAppointment,
		ActivateTab:   entities.TabAppointment,
	}
}

// Rect is an element box in viewport coordinates
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry is what the page reports when it cannot observe intersections itself
type Geometry struct {
	Anchor         Rect    `json:"anchor"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

// ScrollTarget tells the page where to scroll
type ScrollTarget struct {
	AnchorID string `json:"anchor_id"`
	Block    string `json:"block"`
	Behavior string `json:"behavior"`
}

// TabActivator selects a tab on behalf of the CTA
type TabActivator interface {
	Activate(id entities.TabID) error
}

// Trigger decides whether the floating CTA is shown. The CTA is visible
// exactly when the anchor is not intersecting.
type Trigger struct {
	mu        sync.Mutex
	opts      Options
	visible   bool
	activator TabActivator
	onChange  func(visible bool)
}

// NewTrigger creates a trigger with the CTA hidden
func NewTrigger(opts Options, activator TabActivator, onChange func(visible bool)) *Trigger {
	return &Trigger{
		opts:      opts,
		activator: activator,
		onChange:  onChange,
	}
}

// Options returns the trigger's configuration
func (t *Trigger) Options() Options {
	return t.opts
}

// Visible reports the current CTA visibility
func (t *Trigger) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// Observe records an intersection report and returns the new visibility
func (t *Trigger) Observe(isIntersecting bool) bool {
	visible := !isIntersecting

	t.mu.Lock()
	changed := visible != t.visible
	t.visible = visible
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(visible)
	}
	return visible
}

// Evaluate computes the intersection from raw geometry and observes it
func (t *Trigger) Evaluate(g Geometry) (bool, error) {
	intersecting, err := Intersecting(g, t.opts)
	if err != nil {
		return t.Visible(), err
	}
	return t.Observe(intersecting), nil
}

// JumpToAnchor returns the scroll target for the CTA and selects the
// configured tab
func (t *Trigger) JumpToAnchor() (ScrollTarget, error) {
	if t.activator != nil && t.opts.ActivateTab != "" {
		if err := t.activator.Activate(t.opts.ActivateTab); err != nil {
			return ScrollTarget{}, err
		}
	}
	return ScrollTarget{
		AnchorID: t.opts.AnchorID,
		Block:    "center",
		Behavior: "smooth",
	}, nil
}

// Intersecting applies the root margin and threshold to g. A zero-area anchor
// intersects when its box touches the root.
func Intersecting(g Geometry, opts Options) (bool, error) {
	if g.ViewportHeight <= 0 {
		return false, apperrors.NewValidationError("viewport height must be positive")
	}
	if g.Anchor.Width < 0 || g.Anchor.Height < 0 {
		return false, apperrors.NewValidationError(fmt.Sprintf("anchor size %vx%v is negative", g.Anchor.Width, g.Anchor.Height))
	}

	rootTop := -opts.RootMarginTop
	rootBottom := g.ViewportHeight
	if rootBottom <= rootTop {
		return false, nil
	}

	top := math.Max(g.Anchor.Top, rootTop)
	bottom := math.Min(g.Anchor.Top+g.Anchor.Height, rootBottom)
	if bottom < top {
		return false, nil
	}

	// horizontal extent is only checked when the page reports it
	overlapWidth := g.Anchor.Width
	if g.ViewportWidth > 0 {
		left := math.Max(g.Anchor.Left, 0)
		right := math.Min(g.Anchor.Left+g.Anchor.Width, g.ViewportWidth)
		if right < left {
			return false, nil
		}
		overlapWidth = right - left
	}

	area := g.Anchor.Width * g.Anchor.Height
	if area == 0 {
		return true, nil
	}
	ratio := (overlapWidth * (bottom - top)) / area
	return ratio > 0 && ratio >= opts.Threshold, nil
}
