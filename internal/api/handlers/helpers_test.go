package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
)

// stubTransport succeeds at once unless release is set, in which case every
// Submit waits for it to be closed
type stubTransport struct {
	mu      sync.Mutex
	release chan struct{}
	err     error
	got     []*entities.Submission
}

func (s *stubTransport) Submit(ctx context.Context, submission *entities.Submission) error {
	s.mu.Lock()
	s.got = append(s.got, submission)
	release := s.release
	s.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

func (s *stubTransport) Name() string { return "stub" }

func (s *stubTransport) Submissions() []*entities.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.Submission(nil), s.got...)
}

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.FormEvent
	published   []*entities.FormEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.FormEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.FormEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	channels := append([]chan *entities.FormEvent(nil), m.subscribers[channel]...)
	m.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FormEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.FormEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	subs := m.subscribers
	m.subscribers = make(map[string][]chan *entities.FormEvent)
	m.mu.Unlock()
	for _, channels := range subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}

func (m *MockEventBus) SubscriberCount(channel string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers[channel])
}

type countingRecorder struct {
	mu    sync.Mutex
	forms []entities.FormKind
}

func (c *countingRecorder) RecordRateLimited(ctx context.Context, form entities.FormKind) {
	c.mu.Lock()
	c.forms = append(c.forms, form)
	c.mu.Unlock()
}

func newSession(t *testing.T, transport providers.SubmissionTransport, bus providers.EventBus) *services.Session {
	t.Helper()
	svc := services.NewSessionService(transport, bus, nil, services.SessionConfig{
		SubmitTimeout: time.Second,
	})
	t.Cleanup(svc.Close)

	session, _, err := svc.GetOrCreate(context.Background(), "")
	require.NoError(t, err)
	return session
}

func withSession(req *http.Request, session *services.Session) *http.Request {
	return req.WithContext(services.WithSession(req.Context(), session))
}

func decodeBody(t *testing.T, body io.Reader, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(dst))
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 2).Format("2006-01-02")
}

// serve runs fn against a request carrying session
func serve(fn http.HandlerFunc, session *services.Session, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	if session != nil {
		req = withSession(req, session)
	}
	fn(w, req)
	return w
}
