package httpapi

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/louisbranch/crowdfund/internal/platform/identity"
	"github.com/louisbranch/crowdfund/internal/platform/telemetry/metrics"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
)

// Handler serves the ledger JSON API over a CampaignService.
type Handler struct {
	service    *service.CampaignService
	logger     *zap.Logger
	metrics    *metrics.Metrics
	identity   identity.Config
	limiter    *rate.Limiter
	statistics storage.StatisticsStore
}

// Option configures optional Handler dependencies.
type Option func(*Handler)

// WithLogger attaches a request logger. A nil logger disables request logs.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics attaches the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithIdentity enables bearer-token verification for mutating routes.
func WithIdentity(cfg identity.Config) Option {
	return func(h *Handler) {
		h.identity = cfg
	}
}

// WithRateLimit bounds the request rate across all routes.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(h *Handler) {
		h.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithStatistics exposes aggregate ledger counts on GET /stats.
func WithStatistics(stats storage.StatisticsStore) Option {
	return func(h *Handler) {
		h.statistics = stats
	}
}

// New builds the route mux for the ledger API wrapped in the middleware
// stack. Requests flow recovery → rate limit → identity → instrumentation →
// route handler.
func New(svc *service.CampaignService, opts ...Option) http.Handler {
	h := &Handler{service: svc}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /campaigns", h.createCampaign)
	mux.HandleFunc("GET /campaigns", h.listCampaigns)
	mux.HandleFunc("GET /campaigns/{id}", h.getCampaign)
	mux.HandleFunc("PATCH /campaigns/{id}", h.updateCampaign)
	mux.HandleFunc("DELETE /campaigns/{id}", h.deleteCampaign)
	mux.HandleFunc("GET /campaigns/{id}/deadline", h.getDeadline)
	mux.HandleFunc("PUT /campaigns/{id}/deadline", h.updateDeadline)
	mux.HandleFunc("GET /campaigns/{id}/status", h.getStatus)
	mux.HandleFunc("POST /campaigns/{id}/donations", h.donate)
	mux.HandleFunc("GET /campaigns/{id}/donors", h.listDonors)
	mux.HandleFunc("POST /campaigns/{id}/donors", h.addDonor)

	if h.statistics != nil {
		mux.HandleFunc("GET /stats", h.getStatistics)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	var handler http.Handler = mux
	handler = h.withInstrumentation(handler)
	handler = h.withIdentity(handler)
	handler = h.withRateLimit(handler)
	handler = h.withRecovery(handler)
	return handler
}
