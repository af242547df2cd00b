package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// HTTPRequests counts every served request.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests",
	}, []string{"tool", "endpoint", "method", "status"})

	// TutorialGenerated counts successful analyses by resolved language.
	TutorialGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorial_generated_total",
		Help: "Tutorials generated",
	}, []string{"tool", "language"})

	// TutorialDuration is the upstream generation time, success or failure.
	TutorialDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutorial_generation_seconds",
		Help:    "Tutorial generation duration",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
	}, []string{"tool"})

	TutorialFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorial_failures_total",
		Help: "Failed tutorial requests by error kind",
	}, []string{"tool", "kind"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			TutorialGenerated,
			TutorialDuration,
			TutorialFailures,
		)
	})
}
