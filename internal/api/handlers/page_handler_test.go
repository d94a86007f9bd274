package handlers_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/premier-landing/backend/internal/api/handlers"
	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
	"github.com/zatekoja/premier-landing/backend/internal/web"
)

type failingRenderer struct{}

func (failingRenderer) RenderPage(w io.Writer, view web.PageView) error {
	return errors.New("template exploded")
}

func newPageHandler(t *testing.T) *handlers.PageHandler {
	t.Helper()
	content, err := web.LoadContent("")
	require.NoError(t, err)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	return handlers.NewPageHandler(renderer, content, func() time.Time {
		return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	})
}

func TestPageHandler_Index(t *testing.T) {
	session := newSession(t, &stubTransport{}, nil)
	handler := newPageHandler(t)

	w := serve(handler.Index, session, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `id="tab-appointment"`)
	assert.Contains(t, body, `id="tabpanel-support"`)
	assert.Contains(t, body, `action="/forms/consult"`)
	assert.Contains(t, body, `min="2026-03-02"`)
	assert.Equal(t, entities.TabAppointment, session.Tabs.Active())
}

func TestPageHandler_IndexHonoursTabParameter(t *testing.T) {
	session := newSession(t, &stubTransport{}, nil)
	handler := newPageHandler(t)

	w := serve(handler.Index, session, httptest.NewRequest("GET", "/?tab=consult", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.TabConsult, session.Tabs.Active())
	assert.Equal(t, "/?tab=consult", session.Tabs.URL())
}

func TestPageHandler_IndexIgnoresUnknownTab(t *testing.T) {
	session := newSession(t, &stubTransport{}, nil)
	handler := newPageHandler(t)

	w := serve(handler.Index, session, httptest.NewRequest("GET", "/?tab=pricing", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.TabAppointment, session.Tabs.Active())
}

func TestPageHandler_RenderFailure(t *testing.T) {
	session := newSession(t, &stubTransport{}, nil)
	content, err := web.LoadContent("")
	require.NoError(t, err)
	handler := handlers.NewPageHandler(failingRenderer{}, content, nil)

	w := serve(handler.Index, session, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "exploded")
}
