package engine

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ==============================================================================
// Prometheus Metrics
// ==============================================================================

const (
	outcomeOK           = "ok"
	outcomeBadTimestamp = "invalid_timestamp"
	outcomeCalendar     = "calendar_error"
	outcomeLookup       = "lookup_error"
)

type metrics struct {
	casts    *prometheus.CounterVec
	duration prometheus.Histogram
}

// newMetrics registers the cast collectors on reg. Engines sharing a
// registry share the collectors. A nil reg yields nil, which every method
// tolerates.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	casts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qimen_casts_total",
		Help: "Total chart casts by outcome",
	}, []string{"outcome"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "qimen_cast_duration_seconds",
		Help:    "Chart cast duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
	})

	m := &metrics{}
	var err error
	if m.casts, err = register(reg, casts); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (m *metrics) observe(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.casts.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}
