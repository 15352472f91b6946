package app

import "github.com/prometheus/client_golang/prometheus"

// ==========================================
// МЕТРИКИ
// ==========================================

const (
	outcomePublished       = "published"
	outcomePublishedDirect = "published_direct"
	outcomeRejected        = "rejected"
	outcomeStale           = "stale"
	outcomeMalformed       = "malformed"
	outcomeDisallowed      = "disallowed"
	outcomeErrored         = "errored"
	outcomeDuplicate       = "duplicate"
)

var (
	submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pollbot_submissions_total",
		Help: "Total number of poll submissions received",
	})

	moderationOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pollbot_moderation_outcomes_total",
		Help: "Terminal moderation outcomes by kind",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(submissionsTotal, moderationOutcomes)
}

func countSubmission() {
	submissionsTotal.Inc()
}

func countOutcome(outcome string) {
	moderationOutcomes.WithLabelValues(outcome).Inc()
}
