package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	drawClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draw_claims_total",
			Help: "Daily draw claims by result",
		},
		[]string{"result"},
	)
	matchesResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_resolved_total",
			Help: "Match entries resolved by outcome",
		},
		[]string{"outcome"},
	)
	giftOpens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gift_opens_total",
			Help: "Gift redemption attempts by result",
		},
		[]string{"result"},
	)
	// CompensationFailures counts writes left inconsistent after a failed
	// rollback. Any increase here needs manual reconciliation.
	compensationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compensation_failures_total",
			Help: "Failed compensating writes, by flow",
		},
		[]string{"flow"},
	)
)

func init() {
	prometheus.MustRegister(drawClaims)
	prometheus.MustRegister(matchesResolved)
	prometheus.MustRegister(giftOpens)
	prometheus.MustRegister(compensationFailures)
}
