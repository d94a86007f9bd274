package routes_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/premier-landing/backend/internal/adapters/events"
	"github.com/zatekoja/premier-landing/backend/internal/adapters/submission"
	"github.com/zatekoja/premier-landing/backend/internal/api/handlers"
	"github.com/zatekoja/premier-landing/backend/internal/api/middleware"
	"github.com/zatekoja/premier-landing/backend/internal/api/routes"
	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/web"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { bus.Close() })

	sessions := services.NewSessionService(submission.NewSimulatedTransport(0), bus, nil, services.SessionConfig{
		SubmitTimeout: time.Second,
	})
	t.Cleanup(sessions.Close)

	content, err := web.LoadContent("")
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	router := routes.NewRouter(
		routes.Handlers{
			Page:   handlers.NewPageHandler(renderer, content, nil),
			Form:   handlers.NewFormHandler(nil, 0, time.Hour, nil),
			Tab:    handlers.NewTabHandler(),
			CTA:    handlers.NewCTAHandler(),
			SSE:    handlers.NewSSEHandler(bus),
			Static: web.StaticHandler(),
		},
		middleware.SessionMiddleware(sessions, middleware.SessionOptions{
			CookieName: "premier_session",
			TTL:        30 * time.Minute,
		}),
		middleware.NewIdempotencyMiddleware(nil, "premier_session", time.Hour),
		nil,
	)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return server, client
}

func do(t *testing.T, client *http.Client, method, url, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestRouter_Health(t *testing.T) {
	server, client := newTestServer(t)

	resp, body := do(t, client, "GET", server.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRouter_SessionFollowsTheVisitor(t *testing.T) {
	server, client := newTestServer(t)

	resp, body := do(t, client, "GET", server.URL+"/?tab=support", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="tabpanel-support"`)
	assert.Equal(t, "private, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

	resp, body = do(t, client, "GET", server.URL+"/api/tabs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"active":"support"`)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp, _ = do(t, client, "PATCH", server.URL+"/api/forms/support/fields", `{"name":"name","value":"Phạm Dũng"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, client, "GET", server.URL+"/api/forms/support_ticket", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Phạm Dũng")
}

func TestRouter_FallbackFormRedirectsToItsTab(t *testing.T) {
	server, client := newTestServer(t)

	req, err := http.NewRequest("POST", server.URL+"/forms/appointment", strings.NewReader("name=An"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?tab=appointment#tabpanel-appointment", resp.Header.Get("Location"))
}

func TestRouter_UnknownRoutes(t *testing.T) {
	server, client := newTestServer(t)

	resp, _ := do(t, client, "GET", server.URL+"/pricing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, client, "DELETE", server.URL+"/api/tabs", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_StaticAssets(t *testing.T) {
	server, client := newTestServer(t)

	resp, body := do(t, client, "GET", server.URL+"/static/app.js", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body)
	assert.NotEmpty(t, resp.Header.Get("ETag"))
	assert.Equal(t, "public, max-age=3600, must-revalidate", resp.Header.Get("Cache-Control"))
}
