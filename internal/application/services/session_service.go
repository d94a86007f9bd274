package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/premier-landing/backend/internal/application/forms"
	"github.com/zatekoja/premier-landing/backend/internal/application/tabs"
	"github.com/zatekoja/premier-landing/backend/internal/application/visibility"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/domain/validation"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

const publishTimeout = 2 * time.Second

// TransitionRecorder receives every form transition for metrics
type TransitionRecorder interface {
	RecordFormTransition(ctx context.Context, snapshot entities.FormSnapshot, eventType entities.FormEventType)
}

// SessionConfig holds what every new session is built from
type SessionConfig struct {
	TTL            time.Duration
	SweepInterval  time.Duration
	SubmitTimeout  time.Duration
	SuccessWindows map[entities.FormKind]time.Duration
	Clock          forms.Clock
	Tabs           []entities.Tab
	DefaultTab     entities.TabID
	CTA            visibility.Options
}

// Session is one visitor's page: a controller per form, the tab coordinator
// and the floating CTA trigger.
type Session struct {
	ID    string
	Tabs  *tabs.Coordinator
	CTA   *visibility.Trigger
	forms map[entities.FormKind]*forms.Controller

	tabList    []entities.Tab
	defaultTab entities.TabID

	mu       sync.Mutex
	lastSeen time.Time
}

// Form returns the controller of one form
func (s *Session) Form(kind entities.FormKind) (*forms.Controller, error) {
	ctrl, ok := s.forms[kind]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("form %q not found", kind))
	}
	return ctrl, nil
}

// Snapshots returns every form in panel order
func (s *Session) Snapshots() []entities.FormSnapshot {
	out := make([]entities.FormSnapshot, 0, len(s.forms))
	for _, kind := range entities.FormKinds {
		if ctrl, ok := s.forms[kind]; ok {
			out = append(out, ctrl.Snapshot())
		}
	}
	return out
}

// Load re-runs tab initialization against a fresh page location
func (s *Session) Load(rawURL string) error {
	return s.Tabs.Initialize(s.tabList, s.defaultTab, tabs.NewURLLocation(rawURL))
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) close() {
	for _, ctrl := range s.forms {
		ctrl.Close()
	}
}

// SessionService owns every live session and evicts idle ones
type SessionService struct {
	transport providers.SubmissionTransport
	eventBus  providers.EventBus
	recorder  TransitionRecorder
	cfg       SessionConfig
	newID     func() string

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewSessionService creates a session service. eventBus and recorder may be nil.
func NewSessionService(
	transport providers.SubmissionTransport,
	eventBus providers.EventBus,
	recorder TransitionRecorder,
	cfg SessionConfig,
) *SessionService {
	if cfg.Clock == nil {
		cfg.Clock = forms.NewSystemClock(nil)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if len(cfg.Tabs) == 0 {
		cfg.Tabs = tabs.DefaultTabs()
	}
	if cfg.DefaultTab == "" {
		cfg.DefaultTab = tabs.DefaultTab
	}
	if cfg.CTA.AnchorID == "" {
		cfg.CTA = visibility.DefaultOptions()
	}
	return &SessionService{
		transport: transport,
		eventBus:  eventBus,
		recorder:  recorder,
		cfg:       cfg,
		newID:     uuid.NewString,
		sessions:  make(map[string]*Session),
	}
}

// Get returns a live session and marks it used
func (s *SessionService) Get(id string) (*Session, bool) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	session.touch(s.cfg.Clock.Now())
	return session, true
}

// GetOrCreate returns the session named by id, or a new one when id is empty
// or unknown. created reports which.
func (s *SessionService) GetOrCreate(ctx context.Context, id string) (session *Session, created bool, err error) {
	if id != "" {
		if session, ok := s.Get(id); ok {
			return session, false, nil
		}
	}

	session, err = s.newSession(s.newID())
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		session.close()
		return nil, false, apperrors.NewConflictError("session service is shut down")
	}
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	observability.LoggerFromContext(ctx).Debug().
		Str("session_id", session.ID).
		Int("sessions", count).
		Msg("session created")
	return session, true, nil
}

func (s *SessionService) newSession(id string) (*Session, error) {
	session := &Session{
		ID:         id,
		forms:      make(map[entities.FormKind]*forms.Controller, len(entities.FormKinds)),
		tabList:    s.cfg.Tabs,
		defaultTab: s.cfg.DefaultTab,
		lastSeen:   s.cfg.Clock.Now(),
	}

	session.Tabs = tabs.NewCoordinator(func(tab entities.TabID) {
		observability.GetLogger().Debug().
			Str("session_id", id).
			Str("tab", string(tab)).
			Msg("tab selected")
	})
	if err := session.Load("/"); err != nil {
		return nil, err
	}
	session.CTA = visibility.NewTrigger(s.cfg.CTA, session.Tabs, nil)

	for _, kind := range entities.FormKinds {
		schema, _ := validation.SchemaFor(kind)
		session.forms[kind] = forms.NewController(schema, s.transport, forms.Options{
			SuccessWindow: s.cfg.SuccessWindows[kind],
			SubmitTimeout: s.cfg.SubmitTimeout,
			Clock:         s.cfg.Clock,
			OnTransition:  s.transitionHandler(id),
		})
	}
	return session, nil
}

func (s *SessionService) transitionHandler(sessionID string) forms.TransitionFunc {
	return func(eventType entities.FormEventType, snapshot entities.FormSnapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if s.recorder != nil {
			s.recorder.RecordFormTransition(ctx, snapshot, eventType)
		}
		if s.eventBus == nil {
			return
		}

		event := &entities.FormEvent{
			ID:        s.newID(),
			Type:      eventType,
			SessionID: sessionID,
			Snapshot:  snapshot,
			At:        s.cfg.Clock.Now(),
		}
		if err := s.eventBus.Publish(ctx, providers.GetSessionChannel(sessionID), event); err != nil {
			observability.GetLogger().Warn().
				Err(err).
				Str("session_id", sessionID).
				Str("event", string(eventType)).
				Msg("failed to publish form event")
		}
	}
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and forgets sessions idle for longer than the TTL
func (s *SessionService) Sweep(now time.Time) int {
	var expired []*Session

	s.mu.Lock()
	for id, session := range s.sessions {
		if now.Sub(session.LastSeen()) > s.cfg.TTL {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.close()
	}
	return len(expired)
}

// Run sweeps idle sessions every SweepInterval until ctx ends, then closes
// every remaining session.
func (s *SessionService) Run(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Dur("ttl", s.cfg.TTL).
		Dur("interval", s.cfg.SweepInterval).
		Msg("session janitor started")

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			logger.Info().Msg("session janitor stopped")
			return nil
		case <-ticker.C:
			if n := s.Sweep(s.cfg.Clock.Now()); n > 0 {
				logger.Debug().Int("evicted", n).Int("remaining", s.Count()).Msg("idle sessions evicted")
			}
		}
	}
}

// Close closes every session. Later GetOrCreate calls fail.
func (s *SessionService) Close() {
	s.mu.Lock()
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}
}
