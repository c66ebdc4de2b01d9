package oximeter

import (
	"time"

	"oxlog/pkg/metrics"
)

// Config holds the handler configuration.
type Config struct {
	// ReadBudget is the maximum number of reports read while waiting for an
	// answer, 0 waits forever.
	ReadBudget int

	// KeepAliveInterval is the number of reports read between two keepalive
	// frames while streaming live data.
	KeepAliveInterval int

	// Metrics receives frame and sample counts (optional)
	Metrics *metrics.Metrics

	// now returns the wall clock time of live samples
	now func() time.Time
}

func defaultConfig() Config {
	return Config{
		KeepAliveInterval: 8,
		now:               time.Now,
	}
}

// Option is a functional option for configuring the Handler.
type Option func(*Config)

// WithReadBudget limits the number of reports read per exchange.
func WithReadBudget(reads int) Option {
	return func(c *Config) {
		if reads >= 0 {
			c.ReadBudget = reads
		}
	}
}

// WithKeepAliveInterval sets the number of reports read between two keepalive frames.
func WithKeepAliveInterval(reads int) Option {
	return func(c *Config) {
		if reads > 0 {
			c.KeepAliveInterval = reads
		}
	}
}

// WithMetrics sets the metrics updated by the handler.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}
