package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SimulatorConfig describes one simulated dispenser session.
type SimulatorConfig struct {
	Modules     []int
	Events      int           // dispense events per module
	PickupDelay time.Duration // reported gap between dispense and pickup
	Start       time.Time     // first dispense; zero means now
	Interval    time.Duration // gap between dispenses on one module
	Seed        bool
	Clear       bool
}

// Summary is what a simulator run did.
type Summary struct {
	Seeded    int
	Published int
	Failed    int
	Cleared   int64
}

// Simulate plays the dispenser unit: every module reports its events from
// its own goroutine, as the physical modules do.
func Simulate(ctx context.Context, c *Client, cfg SimulatorConfig, logger *zap.Logger) (Summary, error) {
	var summary Summary

	if cfg.Seed {
		pills, err := c.SeedPills(ctx)
		if err != nil {
			return summary, err
		}
		summary.Seeded = len(pills)
		logger.Info("Pill definitions seeded", zap.Int("count", len(pills)))
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Now().UTC()
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, module := range cfg.Modules {
		wg.Add(1)
		go func(module int) {
			defer wg.Done()
			for i := 0; i < cfg.Events; i++ {
				if ctx.Err() != nil {
					return
				}
				dispensed := start.Add(time.Duration(i) * cfg.Interval)
				_, err := c.PublishDispense(ctx, module, dispensed, dispensed.Add(cfg.PickupDelay))
				if err != nil && ctx.Err() != nil {
					return
				}

				mu.Lock()
				if err != nil {
					summary.Failed++
					logger.Warn("Publish failed", zap.Int("module", module), zap.Int("event", i), zap.Error(err))
				} else {
					summary.Published++
				}
				mu.Unlock()
			}
		}(module)
	}
	wg.Wait()

	logger.Info("Dispense events published",
		zap.Int("published", summary.Published),
		zap.Int("failed", summary.Failed),
	)

	if cfg.Clear {
		deleted, err := c.ClearStatistics(ctx)
		if err != nil {
			return summary, err
		}
		summary.Cleared = deleted
		logger.Info("Statistics cleared", zap.Int64("deleted", deleted))
	}

	return summary, ctx.Err()
}
