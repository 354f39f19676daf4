package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"talentboard/internal/core/apperror"
)

// Store call metrics.
var (
	StoreQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_queries_total",
			Help:      "Total number of store calls by outcome",
		},
		[]string{"table", "op", "outcome"},
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Store call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"table", "op"},
	)
)

func init() {
	prometheus.MustRegister(StoreQueriesTotal)
	prometheus.MustRegister(StoreQueryDuration)
}

// StoreObserver feeds repository call outcomes into the store metrics.
type StoreObserver struct{}

// ObserveQuery records one store call.
func (StoreObserver) ObserveQuery(table, op string, d time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(table, op).Observe(d.Seconds())
	StoreQueriesTotal.WithLabelValues(table, op, Outcome(err)).Inc()
}

// Outcome is the label of a call result: "ok", the lowercased AppError code,
// or "error" for anything else.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr, ok := apperror.AsAppError(err); ok {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
