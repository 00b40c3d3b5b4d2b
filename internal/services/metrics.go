package services

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Version check outcomes by source ("release", "tag", "none") and outcome
	VersionChecks *prometheus.CounterVec

	// Outbound GitHub calls
	GitHubRequests       *prometheus.CounterVec
	GitHubRequestLatency *prometheus.HistogramVec
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// InitMetrics initializes the Prometheus metrics. Safe to call more than once.
func InitMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			VersionChecks: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "versioncheck_checks_total",
				Help: "Total number of version checks by source and outcome",
			}, []string{"source", "outcome"}), // outcome: "outdated", "current", "no_versions", "error"

			GitHubRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "versioncheck_github_requests_total",
				Help: "Total number of GitHub API requests by endpoint and status class",
			}, []string{"endpoint", "status"}),

			GitHubRequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "versioncheck_github_request_duration_seconds",
				Help:    "GitHub API request latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			}, []string{"endpoint"}),
		}
	})
	return globalMetrics
}

// GetMetrics returns the global metrics instance, nil until InitMetrics runs
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordCheck records a version check outcome
func (m *Metrics) RecordCheck(source, outcome string) {
	if m == nil {
		return
	}
	m.VersionChecks.WithLabelValues(source, outcome).Inc()
}

// RecordGitHubRequest records one outbound call
func (m *Metrics) RecordGitHubRequest(endpoint, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GitHubRequests.WithLabelValues(endpoint, status).Inc()
	m.GitHubRequestLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
