package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spektr-org/qimen/calendar"
)

// ============================================================================
// ENGINE OPTIONS: functional options for New()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Resolver calendar.Resolver
	Logger   *zap.Logger
	Registry prometheus.Registerer // nil disables metrics
	Location *time.Location        // zone timestamps are read in
}

// WithCalendar replaces the default lunar-go resolver.
func WithCalendar(r calendar.Resolver) Option {
	return func(c *config) {
		c.Resolver = r
	}
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithMetrics registers cast counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.Registry = reg
	}
}

// WithLocation sets the time zone Cast reads timestamps in.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Resolver: calendar.NewLunarResolver(),
		Logger:   zap.NewNop(),
		Location: time.Local,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
