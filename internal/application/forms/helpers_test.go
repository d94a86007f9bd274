package forms

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var ict = time.FixedZone("ICT", 7*60*60)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 19, 10, 0, 0, 0, ict)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks on the caller's goroutine
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// stubTransport blocks each Submit until the test releases it, unless
// autoResult is set.
type stubTransport struct {
	mu         sync.Mutex
	calls      []*entities.Submission
	release    chan error
	autoResult bool
	result     error
}

func newBlockingTransport() *stubTransport {
	return &stubTransport{release: make(chan error, 1)}
}

func newInstantTransport(result error) *stubTransport {
	return &stubTransport{autoResult: true, result: result}
}

func (s *stubTransport) Submit(ctx context.Context, submission *entities.Submission) error {
	s.mu.Lock()
	s.calls = append(s.calls, submission)
	s.mu.Unlock()

	if s.autoResult {
		return s.result
	}
	select {
	case err := <-s.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubTransport) Name() string { return "stub" }

func (s *stubTransport) Calls() []*entities.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.Submission(nil), s.calls...)
}

type transitionRecorder struct {
	ch chan entities.FormSnapshot
	mu sync.Mutex
	ts []entities.FormEventType
}

func newRecorder() *transitionRecorder {
	return &transitionRecorder{ch: make(chan entities.FormSnapshot, 32)}
}

func (r *transitionRecorder) observe(eventType entities.FormEventType, snap entities.FormSnapshot) {
	r.mu.Lock()
	r.ts = append(r.ts, eventType)
	r.mu.Unlock()
	r.ch <- snap
}

func (r *transitionRecorder) types() []entities.FormEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.FormEventType(nil), r.ts...)
}

// waitForState drains recorded snapshots until one is in want
func (r *transitionRecorder) waitForState(t *testing.T, want entities.SubmissionState) entities.FormSnapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap := <-r.ch:
			if snap.State == want {
				return snap
			}
		case <-timeout:
			t.Fatalf("form never reached state %s", want)
			return entities.FormSnapshot{}
		}
	}
}

// syncBuffer collects log output written from the dispatch goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
