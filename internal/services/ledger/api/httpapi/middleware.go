package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/identity"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(body []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(body)
}

// withRecovery converts a handler panic into a storage-failure response so
// unexpected faults never escape the operation boundary as a raw panic.
func (h *Handler) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if h.logger != nil {
					h.logger.Error("handler panic",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", recovered),
					)
				}
				writeError(w, r, apperrors.New(apperrors.CodeStorageFailure, "internal fault"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests beyond the configured rate with 429.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow() {
			if h.metrics != nil {
				h.metrics.RecordRateLimitHit(r.URL.Path)
			}
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withIdentity verifies the bearer token and stores the caller principal in
// the request context. Verification applies only when a public key is
// configured; the health and metrics probes are always exempt.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	if !h.identity.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := identity.VerifyToken(bearerToken(r), h.identity)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), principal)))
	})
}

// withInstrumentation logs each request and records the HTTP metrics.
func (h *Handler) withInstrumentation(next http.Handler) http.Handler {
	if h.logger == nil && h.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(started)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		if h.metrics != nil {
			h.metrics.RecordRequest(r.Method, routePattern(r), status, elapsed)
		}
		if h.logger != nil {
			h.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
			)
		}
	})
}

// routePattern prefers the matched mux pattern over the raw path so metric
// labels stay low-cardinality.
func routePattern(r *http.Request) string {
	if pattern := r.Pattern; pattern != "" {
		if _, path, found := strings.Cut(pattern, " "); found {
			return path
		}
		return pattern
	}
	return r.URL.Path
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
