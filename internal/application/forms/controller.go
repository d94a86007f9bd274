package forms

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/domain/validation"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

const (
	defaultSuccessWindow = 3 * time.Second
	defaultSubmitTimeout = 15 * time.Second
)

// TransitionFunc observes every change of a form. It is called without the
// controller lock held and must not block for long.
type TransitionFunc func(eventType entities.FormEventType, snapshot entities.FormSnapshot)

// Options tunes a Controller
type Options struct {
	// SuccessWindow is how long the success message stays before the form
	// returns to editing
	SuccessWindow time.Duration

	// SubmitTimeout bounds a single transport call
	SubmitTimeout time.Duration

	Clock        Clock
	OnTransition TransitionFunc
	NewID        func() string
}

// Controller runs the editing → submitting → success lifecycle of one form
// instance and owns its Store.
type Controller struct {
	mu        sync.Mutex
	schema    *validation.Schema
	store     *Store
	transport providers.SubmissionTransport
	opts      Options

	state        entities.SubmissionState
	formError    string
	submissionID string
	updatedAt    time.Time

	generation uint64
	dismiss    Timer
	inflight   context.CancelFunc
	closed     bool

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// NewController creates a controller in the editing state with empty values
func NewController(schema *validation.Schema, transport providers.SubmissionTransport, opts Options) *Controller {
	if opts.SuccessWindow <= 0 {
		opts.SuccessWindow = defaultSuccessWindow
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}
	if opts.Clock == nil {
		opts.Clock = NewSystemClock(nil)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		schema:     schema,
		store:      NewStore(schema),
		transport:  transport,
		opts:       opts,
		state:      entities.SubmissionStateEditing,
		updatedAt:  opts.Clock.Now(),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Kind returns the form kind the controller validates
func (c *Controller) Kind() entities.FormKind {
	return c.schema.Kind
}

// State returns the current lifecycle state
func (c *Controller) State() entities.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a consistent copy of the form
func (c *Controller) Snapshot() entities.FormSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Change records a field edit and clears that field's error
func (c *Controller) Change(name, value string) (entities.FormSnapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return entities.FormSnapshot{}, apperrors.NewConflictError("form is closed")
	}
	if err := c.store.Change(name, value); err != nil {
		c.mu.Unlock()
		return entities.FormSnapshot{}, err
	}
	c.touchLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(entities.FormEventChanged, snap)
	return snap, nil
}

// ChangeAll applies several edits in one step. Unknown names abort before
// anything is written.
func (c *Controller) ChangeAll(values entities.FormValues) (entities.FormSnapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return entities.FormSnapshot{}, apperrors.NewConflictError("form is closed")
	}
	if err := c.store.ChangeAll(values); err != nil {
		c.mu.Unlock()
		return entities.FormSnapshot{}, err
	}
	c.touchLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if len(values) > 0 {
		c.notify(entities.FormEventChanged, snap)
	}
	return snap, nil
}

// Submit validates the current values and, when they pass, hands a sanitized
// copy to the transport in the background. An invalid form is reported through
// the returned result, not an error. Submitting while a dispatch is in flight
// returns a conflict error and changes nothing.
//
// ctx scopes logging only; the dispatch itself outlives the caller and is
// bounded by SubmitTimeout. Its outcome is logged with ctx's logger.
func (c *Controller) Submit(ctx context.Context) (entities.ValidationResult, error) {
	return c.SubmitValues(ctx, nil)
}

// SubmitValues applies values and submits in one step. A conflict or an
// unknown field name rejects the call before any value is written, so a
// dispatch in flight keeps what it was started with.
func (c *Controller) SubmitValues(ctx context.Context, values entities.FormValues) (entities.ValidationResult, error) {
	logger := *observability.LoggerFromContext(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return entities.ValidationResult{}, apperrors.NewConflictError("form is closed")
	}
	if c.state == entities.SubmissionStateSubmitting {
		c.mu.Unlock()
		return entities.ValidationResult{}, apperrors.NewConflictError("submission already in progress")
	}
	if err := c.store.ChangeAll(values); err != nil {
		c.mu.Unlock()
		return entities.ValidationResult{}, err
	}
	if c.state == entities.SubmissionStateSuccess {
		c.stopDismissLocked()
		c.state = entities.SubmissionStateEditing
	}
	c.formError = ""

	now := c.opts.Clock.Now()
	current := c.store.Values()
	result := c.schema.Validate(current, now)
	if !result.Valid {
		c.store.ReplaceErrors(result.Errors)
		c.touchLocked()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		logger.Debug().
			Str("form", string(c.schema.Kind)).
			Int("errors", len(result.Errors)).
			Msg("form rejected by validation")
		c.notify(entities.FormEventInvalid, snap)
		return result, nil
	}

	c.store.ClearErrors()
	c.generation++
	gen := c.generation
	c.state = entities.SubmissionStateSubmitting
	c.submissionID = c.opts.NewID()
	c.touchLocked()

	submission := &entities.Submission{
		ID:          c.submissionID,
		Type:        c.schema.Kind,
		Data:        SanitizeValues(current),
		SubmittedAt: now,
	}
	dispatchCtx, cancel := context.WithTimeout(c.baseCtx, c.opts.SubmitTimeout)
	c.inflight = cancel
	c.wg.Add(1)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	logger.Debug().
		Str("form", string(c.schema.Kind)).
		Str("submission_id", submission.ID).
		Msg("form submitting")
	c.notify(entities.FormEventSubmitting, snap)

	go c.dispatch(dispatchCtx, cancel, logger, gen, submission)
	return result, nil
}

// dispatch logs through the submitter's logger; ctx derives from the
// controller and carries no request fields.
func (c *Controller) dispatch(ctx context.Context, cancel context.CancelFunc, logger zerolog.Logger, gen uint64, submission *entities.Submission) {
	defer c.wg.Done()
	defer cancel()

	err := c.transport.Submit(observability.WithLogger(ctx, logger), submission)

	c.mu.Lock()
	if c.closed || gen != c.generation || c.state != entities.SubmissionStateSubmitting {
		c.mu.Unlock()
		return
	}
	c.inflight = nil

	if err != nil {
		c.state = entities.SubmissionStateEditing
		c.formError = validation.Message(validation.MsgSubmissionFailed)
		c.touchLocked()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		logger.Warn().
			Err(err).
			Str("form", string(submission.Type)).
			Str("submission_id", submission.ID).
			Str("transport", c.transport.Name()).
			Msg("form submission failed")
		c.notify(entities.FormEventFailed, snap)
		return
	}

	c.state = entities.SubmissionStateSuccess
	c.store.Reset()
	c.dismiss = c.opts.Clock.AfterFunc(c.opts.SuccessWindow, func() { c.dismissSuccess(gen) })
	c.touchLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	logger.Debug().
		Str("form", string(submission.Type)).
		Str("submission_id", submission.ID).
		Msg("form submitted")
	c.notify(entities.FormEventSucceeded, snap)
}

func (c *Controller) dismissSuccess(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.state != entities.SubmissionStateSuccess {
		c.mu.Unlock()
		return
	}
	c.dismiss = nil
	c.state = entities.SubmissionStateEditing
	c.touchLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(entities.FormEventDismissed, snap)
}

// Close cancels the dismissal timer and any in-flight dispatch, then waits
// for the dispatch goroutine to return. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.generation++
	c.stopDismissLocked()
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.mu.Unlock()

	c.baseCancel()
	c.wg.Wait()
}

func (c *Controller) stopDismissLocked() {
	if c.dismiss != nil {
		c.dismiss.Stop()
		c.dismiss = nil
	}
}

func (c *Controller) touchLocked() {
	c.updatedAt = c.opts.Clock.Now()
}

func (c *Controller) snapshotLocked() entities.FormSnapshot {
	return entities.FormSnapshot{
		Form:         c.schema.Kind,
		State:        c.state,
		Values:       c.store.Values(),
		Errors:       c.store.Errors(),
		FormError:    c.formError,
		SubmissionID: c.submissionID,
		UpdatedAt:    c.updatedAt,
	}
}

func (c *Controller) notify(eventType entities.FormEventType, snap entities.FormSnapshot) {
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(eventType, snap)
	}
}
