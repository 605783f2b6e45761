package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clearcue_analyses_total",
		Help: "Analysis requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clearcue_analysis_duration_seconds",
		Help:    "Time spent in the external analysis call.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
	}, []string{"provider"})

	SessionSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clearcue_session_saves_total",
		Help: "Session save attempts by backend and outcome.",
	}, []string{"backend", "outcome"})
)
