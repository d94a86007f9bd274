package submission

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

func testSubmission() *entities.Submission {
	return &entities.Submission{
		ID:          "sub-42",
		Type:        entities.FormKindSupportTicket,
		Data:        entities.FormValues{"name": "Minh", "email": "minh@example.vn"},
		SubmittedAt: time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC),
	}
}

func fastWebhook(url string, attempts int) *WebhookTransport {
	transport := NewWebhookTransport(url, attempts, 5*time.Second)
	transport.retry.InitialDelay = time.Millisecond
	transport.retry.MaxDelay = 5 * time.Millisecond
	return transport
}

func TestWebhookTransport_Success(t *testing.T) {
	var received entities.Submission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "sub-42", r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, 3).Submit(context.Background(), testSubmission())

	require.NoError(t, err)
	assert.Equal(t, entities.FormKindSupportTicket, received.Type)
	assert.Equal(t, "Minh", received.Data["name"])
	assert.Equal(t, "webhook", fastWebhook(server.URL, 1).Name())
}

func TestWebhookTransport_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, 3).Submit(context.Background(), testSubmission())

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookTransport_GivesUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, 2).Submit(context.Background(), testSubmission())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWebhookTransport_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	err := fastWebhook(server.URL, 3).Submit(context.Background(), testSubmission())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWebhookTransport_HonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := fastWebhook(server.URL, 3).Submit(ctx, testSubmission())

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
