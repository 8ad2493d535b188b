package metrics

import "github.com/prometheus/client_golang/prometheus"

// ContactMetrics exposes counters/histograms for the contact submission flow.
type ContactMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	handlerLatency     *prometheus.HistogramVec
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keva",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by terminal outcome",
		}, []string{"outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keva",
			Subsystem: "contact",
			Name:      "notifications_total",
			Help:      "Operator notification emails by provider and result",
		}, []string{"provider", "status"}),
		handlerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "keva",
			Subsystem: "contact",
			Name:      "handler_latency_seconds",
			Help:      "Latency of contact submission handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.notificationsTotal, m.handlerLatency)
	return m
}

// ObserveSubmission records one handled submission and its latency.
func (m *ContactMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.handlerLatency.WithLabelValues(outcome).Observe(seconds)
}

// ObserveNotification records the result of a notification attempt.
// status is one of "sent", "failed" or "skipped".
func (m *ContactMetrics) ObserveNotification(provider, status string) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "none"
	}
	m.notificationsTotal.WithLabelValues(provider, status).Inc()
}
