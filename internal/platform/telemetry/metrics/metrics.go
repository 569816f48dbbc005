package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the ledger service.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Campaign metrics
	CampaignsCreated prometheus.Counter
	CampaignsDeleted prometheus.Counter

	// Donation metrics
	Donations      *prometheus.CounterVec
	DonationAmount prometheus.Histogram

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers the ledger collectors on the given registerer.
// A nil registerer falls back to the default Prometheus registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "path"},
		),

		CampaignsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaigns_created_total",
				Help:      "Total campaigns created",
			},
		),
		CampaignsDeleted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaigns_deleted_total",
				Help:      "Total campaigns deleted",
			},
		),

		Donations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "donations_total",
				Help:      "Donation attempts by outcome",
			},
			[]string{"outcome"},
		),
		DonationAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "donation_amount",
				Help:      "Accepted donation amounts",
				Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
			},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records a handled HTTP request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCampaignCreated records a successful campaign creation.
func (m *Metrics) RecordCampaignCreated() {
	m.CampaignsCreated.Inc()
}

// RecordCampaignDeleted records a successful campaign deletion.
func (m *Metrics) RecordCampaignDeleted() {
	m.CampaignsDeleted.Inc()
}

// RecordDonation records a donation attempt. Accepted donations also
// observe the amount histogram.
func (m *Metrics) RecordDonation(outcome string, amount int64) {
	m.Donations.WithLabelValues(outcome).Inc()
	if outcome == "accepted" {
		m.DonationAmount.Observe(float64(amount))
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitHit(path string) {
	m.RateLimitHits.WithLabelValues(path).Inc()
}
