package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the ask pipeline.
type Metrics struct {
	Requests        *prometheus.CounterVec
	ModelSelections *prometheus.CounterVec
	ModelCalls      *prometheus.HistogramVec
	Categories      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ritcompass_ask_requests_total",
			Help: "Ask requests by outcome (ok or error kind)",
		}, []string{"outcome"}),
		ModelSelections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ritcompass_model_selections_total",
			Help: "Extraction model selections by mode",
		}, []string{"mode"}),
		ModelCalls: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ritcompass_model_call_duration_seconds",
			Help:    "Duration of model invocations by pipeline stage",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"stage", "status"}),
		Categories: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ritcompass_classified_categories",
			Help:    "Number of categories the classifier matched per request",
			Buckets: []float64{0, 1, 2, 3, 5},
		}),
	}
}

func (m *Metrics) ObserveRequest(outcome string) {
	m.Requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSelection(mode string) {
	m.ModelSelections.WithLabelValues(mode).Inc()
}

func (m *Metrics) ObserveModelCall(stage, status string, seconds float64) {
	m.ModelCalls.WithLabelValues(stage, status).Observe(seconds)
}

func (m *Metrics) ObserveCategories(n int) {
	m.Categories.Observe(float64(n))
}
