package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
	"github.com/0xsj/overwatch-follows/internal/port/outbound/metrics"
)

// lookupMetrics implements metrics.LookupMetrics.
type lookupMetrics struct {
	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	followsFetched prometheus.Histogram
}

// NewLookupMetrics creates LookupMetrics and registers its collectors with reg.
func NewLookupMetrics(reg prometheus.Registerer) (metrics.LookupMetrics, error) {
	m := &lookupMetrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "follows_lookups_total", Help: "Follows lookups by outcome and failed step"},
			[]string{"outcome", "step"},
		),
		lookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "follows_lookup_duration_seconds",
				Help:    "Duration of the four-step follows lookup",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		followsFetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "follows_lookup_records",
			Help:    "Records returned by successful lookups",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
	}

	for _, c := range []prometheus.Collector{m.lookupsTotal, m.lookupDuration, m.followsFetched} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *lookupMetrics) ObserveLookup(outcome model.LookupOutcome, step string, duration time.Duration, followCount int) {
	m.lookupsTotal.WithLabelValues(outcome.String(), step).Inc()
	m.lookupDuration.WithLabelValues(outcome.String()).Observe(duration.Seconds())
	if outcome == model.LookupOutcomeSucceeded {
		m.followsFetched.Observe(float64(followCount))
	}
}
