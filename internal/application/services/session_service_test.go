package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zatekoja/premier-landing/backend/internal/application/forms"
	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	apperrors "github.com/zatekoja/premier-landing/backend/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Mocks

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// AfterFunc never fires; dismissal timing is covered by the forms package
func (c *manualClock) AfterFunc(d time.Duration, f func()) forms.Timer {
	return noopTimer{}
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

type MockSubmissionTransport struct {
	mock.Mock
}

func (m *MockSubmissionTransport) Submit(ctx context.Context, submission *entities.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionTransport) Name() string { return "mock" }

type MockEventBus struct {
	mu        sync.Mutex
	published map[string][]*entities.FormEvent
	notify    chan struct{}
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		published: make(map[string][]*entities.FormEvent),
		notify:    make(chan struct{}, 64),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.FormEvent) error {
	m.mu.Lock()
	m.published[channel] = append(m.published[channel], event)
	m.mu.Unlock()
	m.notify <- struct{}{}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FormEvent, error) {
	return make(chan *entities.FormEvent), nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (m *MockEventBus) Close() error { return nil }

func (m *MockEventBus) Events(channel string) []*entities.FormEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.FormEvent(nil), m.published[channel]...)
}

type MockRecorder struct {
	mu    sync.Mutex
	calls []entities.FormEventType
}

func (m *MockRecorder) RecordFormTransition(ctx context.Context, snapshot entities.FormSnapshot, eventType entities.FormEventType) {
	m.mu.Lock()
	m.calls = append(m.calls, eventType)
	m.mu.Unlock()
}

func (m *MockRecorder) Calls() []entities.FormEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.FormEventType(nil), m.calls...)
}

// Tests

func newService(t *testing.T, transport providers.SubmissionTransport, bus providers.EventBus, recorder services.TransitionRecorder) (*services.SessionService, *manualClock) {
	t.Helper()
	clock := &manualClock{now: time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)}
	svc := services.NewSessionService(transport, bus, recorder, services.SessionConfig{
		TTL:           30 * time.Minute,
		SweepInterval: 10 * time.Millisecond,
		SubmitTimeout: time.Second,
		Clock:         clock,
	})
	t.Cleanup(svc.Close)
	return svc, clock
}

func TestSessionService_GetOrCreate(t *testing.T) {
	svc, _ := newService(t, new(MockSubmissionTransport), nil, nil)
	ctx := context.Background()

	t.Run("creates a session when none is named", func(t *testing.T) {
		session, created, err := svc.GetOrCreate(ctx, "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, session.ID)
		assert.Len(t, session.Snapshots(), 3)
		assert.Equal(t, entities.TabAppointment, session.Tabs.Active())
		assert.False(t, session.CTA.Visible())
	})

	t.Run("returns the same session for a known id", func(t *testing.T) {
		first, _, err := svc.GetOrCreate(ctx, "")
		require.NoError(t, err)

		again, created, err := svc.GetOrCreate(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Same(t, first, again)
	})

	t.Run("replaces an unknown id", func(t *testing.T) {
		session, created, err := svc.GetOrCreate(ctx, "expired-cookie")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, "expired-cookie", session.ID)
	})
}

func TestSession_FormLookup(t *testing.T) {
	svc, _ := newService(t, new(MockSubmissionTransport), nil, nil)
	session, _, err := svc.GetOrCreate(context.Background(), "")
	require.NoError(t, err)

	ctrl, err := session.Form(entities.FormKindSupportTicket)
	require.NoError(t, err)
	assert.Equal(t, entities.FormKindSupportTicket, ctrl.Kind())

	_, err = session.Form("newsletter")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestSession_LoadAdoptsTabQuery(t *testing.T) {
	svc, _ := newService(t, new(MockSubmissionTransport), nil, nil)
	session, _, err := svc.GetOrCreate(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, session.Load("/?tab=support"))
	assert.Equal(t, entities.TabSupport, session.Tabs.Active())

	target, err := session.CTA.JumpToAnchor()
	require.NoError(t, err)
	assert.Equal(t, "hero-appointment", target.AnchorID)
	assert.Equal(t, entities.TabAppointment, session.Tabs.Active())
	assert.Equal(t, "/?tab=appointment", session.Tabs.URL())
}

func TestSessionService_PublishesTransitions(t *testing.T) {
	transport := new(MockSubmissionTransport)
	transport.On("Submit", mock.Anything, mock.MatchedBy(func(s *entities.Submission) bool {
		return s.Type == entities.FormKindConsult && s.Data["email"] == "lan@example.vn"
	})).Return(nil).Once()

	bus := NewMockEventBus()
	recorder := &MockRecorder{}
	svc, _ := newService(t, transport, bus, recorder)

	session, _, err := svc.GetOrCreate(context.Background(), "")
	require.NoError(t, err)
	ctrl, err := session.Form(entities.FormKindConsult)
	require.NoError(t, err)

	_, err = ctrl.ChangeAll(entities.FormValues{"name": "Lan", "email": "lan@example.vn"})
	require.NoError(t, err)
	result, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, result.Valid)

	// changed, submitting, succeeded
	for i := 0; i < 3; i++ {
		select {
		case <-bus.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d events published", i)
		}
	}

	events := bus.Events(providers.GetSessionChannel(session.ID))
	require.Len(t, events, 3)
	assert.Equal(t, entities.FormEventChanged, events[0].Type)
	assert.Equal(t, entities.FormEventSubmitting, events[1].Type)
	assert.Equal(t, entities.FormEventSucceeded, events[2].Type)
	assert.Equal(t, session.ID, events[2].SessionID)
	assert.Equal(t, entities.SubmissionStateSuccess, events[2].Snapshot.State)

	assert.Equal(t, []entities.FormEventType{
		entities.FormEventChanged,
		entities.FormEventSubmitting,
		entities.FormEventSucceeded,
	}, recorder.Calls())
	transport.AssertExpectations(t)
}

func TestSessionService_SweepEvictsIdleSessions(t *testing.T) {
	svc, clock := newService(t, new(MockSubmissionTransport), nil, nil)
	ctx := context.Background()

	idle, _, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)
	clock.Add(20 * time.Minute)
	active, _, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)

	clock.Add(15 * time.Minute)
	_, ok := svc.Get(active.ID)
	require.True(t, ok)

	evicted := svc.Sweep(clock.Now())

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, svc.Count())
	_, ok = svc.Get(idle.ID)
	assert.False(t, ok)

	_, err = idle.Form(entities.FormKindAppointment)
	require.NoError(t, err)
	ctrl, _ := idle.Form(entities.FormKindAppointment)
	_, err = ctrl.Change("name", "late")
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err), "evicted forms are closed")
}

func TestSessionService_RunStopsOnCancel(t *testing.T) {
	svc, clock := newService(t, new(MockSubmissionTransport), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	_, _, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)
	clock.Add(time.Hour)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return svc.Count() == 0 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}

	_, _, err = svc.GetOrCreate(context.Background(), "")
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
}
