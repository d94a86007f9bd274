package routes

import (
	"net/http"

	"github.com/zatekoja/premier-landing/backend/internal/api/handlers"
	"github.com/zatekoja/premier-landing/backend/internal/api/middleware"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	pageHandler *handlers.PageHandler
	formHandler *handlers.FormHandler
	tabHandler  *handlers.TabHandler
	ctaHandler  *handlers.CTAHandler
	sseHandler  *handlers.SSEHandler
	static      http.Handler

	session     func(http.Handler) http.Handler
	idempotency *middleware.IdempotencyMiddleware
	metrics     *observability.Metrics
}

// Handlers groups everything the router mounts
type Handlers struct {
	Page   *handlers.PageHandler
	Form   *handlers.FormHandler
	Tab    *handlers.TabHandler
	CTA    *handlers.CTAHandler
	SSE    *handlers.SSEHandler
	Static http.Handler
}

// NewRouter creates a new router. session wraps every route that needs the
// visitor's session.
func NewRouter(
	h Handlers,
	session func(http.Handler) http.Handler,
	idempotency *middleware.IdempotencyMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		pageHandler: h.Page,
		formHandler: h.Form,
		tabHandler:  h.Tab,
		ctaHandler:  h.CTA,
		sseHandler:  h.SSE,
		static:      h.Static,
		session:     session,
		idempotency: idempotency,
		metrics:     metrics,
	}
}

func (r *Router) withSession(fn http.HandlerFunc) http.Handler {
	return r.session(fn)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Static assets
	if r.static != nil {
		r.mux.Handle("GET /static/", http.StripPrefix("/static", middleware.ETag(r.static)))
	}

	// Landing page
	r.mux.Handle("GET /{$}", r.withSession(r.pageHandler.Index))

	// Form endpoints
	r.mux.Handle("GET /api/forms/{kind}", r.withSession(r.formHandler.GetForm))
	r.mux.Handle("PATCH /api/forms/{kind}/fields", r.withSession(r.formHandler.ChangeField))
	submit := r.withSession(r.formHandler.SubmitForm)
	if r.idempotency != nil {
		submit = r.session(r.idempotency.Middleware(http.HandlerFunc(r.formHandler.SubmitForm)))
	}
	r.mux.Handle("POST /api/forms/{kind}/submit", submit)

	// Form-encoded fallback for browsers without scripts
	r.mux.Handle("POST /forms/{kind}", r.withSession(r.formHandler.SubmitFallback))

	// Tab endpoints
	r.mux.Handle("GET /api/tabs", r.withSession(r.tabHandler.GetTabs))
	r.mux.Handle("PUT /api/tabs/active", r.withSession(r.tabHandler.SelectTab))
	r.mux.Handle("POST /api/tabs/move", r.withSession(r.tabHandler.MoveFocus))

	// Floating CTA endpoints
	r.mux.Handle("GET /api/cta", r.withSession(r.ctaHandler.GetCTA))
	r.mux.Handle("POST /api/cta/visibility", r.withSession(r.ctaHandler.ReportVisibility))
	r.mux.Handle("POST /api/cta/jump", r.withSession(r.ctaHandler.Jump))

	// SSE streaming endpoints
	if r.sseHandler != nil {
		r.mux.Handle("GET /api/stream/forms", r.withSession(r.sseHandler.StreamFormUpdates))
		r.mux.HandleFunc("GET /api/stream/stats", r.sseHandler.Stats)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// Observability sits directly on the mux so it can read the matched
	// pattern; CORS is outermost so every response gets its headers.
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CacheControl(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
