package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verification outcome counters, labelled by the terminal state of each call.
// Registered on the default registry; /metrics serves them via promhttp.
var (
	StartsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_starts_total",
		Help: "StartVerification calls by outcome",
	}, []string{"outcome"})

	SubmitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_submits_total",
		Help: "SubmitCode calls by outcome",
	}, []string{"outcome"})

	CodesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verification_codes_sent_total",
		Help: "Verification code emails dispatched",
	})

	GrantFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verification_grant_failures_total",
		Help: "Role grants that failed after a correct code",
	})
)
