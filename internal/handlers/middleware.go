package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"dazhangman/internal/models"
	"dazhangman/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Verifier turns a bearer token into a caller identity
type Verifier interface {
	Verify(token string) (models.Identity, error)
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier Verifier
	logger   zerolog.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(verifier Verifier, logger zerolog.Logger) *Middleware {
	return &Middleware{verifier: verifier, logger: logger}
}

// RequireAuth rejects requests without a valid bearer token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, r, http.StatusUnauthorized, MsgUnauthorized, "", nil)
			return
		}
		id, err := m.verifier.Verify(token)
		if err != nil {
			respondWithError(w, r, http.StatusUnauthorized, MsgUnauthorized, "token rejected", err)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, id)
		logger := zerolog.Ctx(ctx).With().Str("learner", id.LearnerID).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(ctx)))
	})
}

// RequireTeacher rejects authenticated callers without the teacher role
func (m *Middleware) RequireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			respondWithError(w, r, http.StatusUnauthorized, MsgUnauthorized, "", nil)
			return
		}
		if !id.IsTeacher() {
			respondWithError(w, r, http.StatusForbidden, MsgForbidden, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit throttles each learner separately. It must run after RequireAuth.
func (m *Middleware) RateLimit(limiter *security.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if id, ok := IdentityFromContext(r.Context()); ok {
				key = id.LearnerID
			}
			if !limiter.Allow(key) {
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.RetryAfter().Seconds())))
				respondWithError(w, r, http.StatusTooManyRequests, MsgTooManyRequests, "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logging attaches a request-scoped logger and logs every request once done
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := m.logger.With().
			Str("request_id", chimw.GetReqID(r.Context())).
			Logger()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// IdentityFromContext retrieves the caller identity set by RequireAuth
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(models.Identity)
	return id, ok
}

func bearerToken(r *http.Request) string {
	a := r.Header.Get("Authorization")
	if len(a) > 7 && strings.EqualFold(a[:7], "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
