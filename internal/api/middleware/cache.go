package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zatekoja/premier-landing/backend/internal/domain/providers"
	"github.com/zatekoja/premier-landing/backend/internal/infrastructure/observability"
)

// IdempotencyHeader lets a client retry a submission without submitting twice
const IdempotencyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 200

// IdempotencyMiddleware replays the stored response of a POST that carried
// the same Idempotency-Key from the same session within the TTL
type IdempotencyMiddleware struct {
	cache      providers.CacheProvider
	cookieName string
	ttl        time.Duration
}

// NewIdempotencyMiddleware creates the middleware. A nil cache disables it.
func NewIdempotencyMiddleware(cache providers.CacheProvider, cookieName string, ttl time.Duration) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{
		cache:      cache,
		cookieName: cookieName,
		ttl:        ttl,
	}
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Middleware returns the idempotency handler
func (m *IdempotencyMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyHeader)
		if m.cache == nil || r.Method != http.MethodPost || key == "" || len(key) > maxIdempotencyKeyLength {
			next.ServeHTTP(w, r)
			return
		}

		logger := observability.LoggerFromContext(r.Context())
		cacheKey := m.cacheKey(r, key)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err == nil {
				logger.Debug().Str("idempotency_key", key).Msg("replaying stored response")
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.Status)
				w.Write(stored.Body)
				return
			}
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if !replayable(recorder.statusCode) {
			return
		}
		data, err := json.Marshal(storedResponse{
			Status:      recorder.statusCode,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := m.cache.Set(r.Context(), cacheKey, data, int(m.ttl.Seconds())); err != nil {
			logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store response")
		}
	})
}

// replayable excludes answers that a retry may legitimately change
func replayable(status int) bool {
	switch status {
	case http.StatusConflict, http.StatusTooManyRequests:
		return false
	}
	return status < http.StatusInternalServerError
}

// cacheKey scopes the client's key to its session and route
func (m *IdempotencyMiddleware) cacheKey(r *http.Request, key string) string {
	session := ""
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		session = cookie.Value
	}
	hash := sha256.Sum256([]byte(session + "|" + r.URL.Path + "|" + key))
	return "http:idempotency:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response while writing it through
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
