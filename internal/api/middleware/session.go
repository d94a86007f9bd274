package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/application/services"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
)

// SessionStore resolves a visitor's session from its cookie value
type SessionStore interface {
	GetOrCreate(ctx context.Context, id string) (*services.Session, bool, error)
}

// SessionOptions configures the session cookie
type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware loads or creates the visitor's session, refreshes its
// cookie and stores it in the request context
func SessionMiddleware(store SessionStore, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(opts.CookieName); err == nil {
				id = cookie.Value
			}

			session, created, err := store.GetOrCreate(r.Context(), id)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to resolve session")
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    session.ID,
				Path:     "/",
				MaxAge:   int(opts.TTL.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			logger := observability.RequestLogger(r.Context()).With().Str("session_id", session.ID).Logger()
			ctx := services.WithSession(r.Context(), session)
			ctx = observability.WithLogger(ctx, logger)
			if created {
				observability.LoggerFromContext(ctx).Debug().Msg("new visitor session")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
