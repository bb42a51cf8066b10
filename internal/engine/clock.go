package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/miradorstack/mirador-twin/internal/utils"
)

// Ticker is the engine surface a Clock drives.
type Ticker interface {
	Tick() bool
}

// Clock calls Tick once per interval until its context ends. Pausing and
// stopping are engine states: ticks delivered while not running are no-ops.
type Clock struct {
	ticker    Ticker
	interval  time.Duration
	logger    *slog.Logger
	latencies *utils.LatencyTracker
}

// NewClock constructs a Clock; interval defaults to one second.
func NewClock(ticker Ticker, interval time.Duration, logger *slog.Logger) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Clock{
		ticker:    ticker,
		interval:  interval,
		logger:    logger,
		latencies: utils.NewLatencyTracker(512),
	}
}

// Run blocks, ticking until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) error {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	c.logger.Info("simulation clock started", slog.Duration("interval", c.interval))
	processed := 0
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("simulation clock stopped", slog.Int("ticks", processed))
			return nil
		case <-t.C:
			start := time.Now()
			if !c.ticker.Tick() {
				continue
			}
			c.latencies.Observe(time.Since(start))
			processed++
			if count := c.latencies.Count(); count >= 60 && processed%60 == 0 {
				c.logger.Debug("tick latency", slog.Duration("p95", c.latencies.Percentile(95)), slog.Int("samples", count))
			}
		}
	}
}

// TickP95 returns the p95 wall-clock cost of recent ticks.
func (c *Clock) TickP95() time.Duration {
	return c.latencies.Percentile(95)
}
