package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/solvetrack/config"
)

// ElementWaiter is anything that can wait for a selector, usually a Session.
type ElementWaiter interface {
	WaitElement(ctx context.Context, selector string, timeout time.Duration) error
}

// Poller waits for client-rendered markup to appear. A missing selector is
// an expected outcome and is reported as false, never as an error.
type Poller struct {
	MaxRetries     int
	AttemptTimeout time.Duration
	Interval       time.Duration

	sleep func(context.Context, time.Duration) error
}

// NewPoller builds a Poller from the scraper settings.
func NewPoller(cfg config.ScraperConfig) *Poller {
	return &Poller{
		MaxRetries:     cfg.PollRetries,
		AttemptTimeout: cfg.PollAttemptTimeout,
		Interval:       cfg.PollInterval,
		sleep:          sleepCtx,
	}
}

// WaitAndRetrySelector checks for selector up to MaxRetries times, sleeping
// a fixed Interval between failed checks.
func (p *Poller) WaitAndRetrySelector(ctx context.Context, page ElementWaiter, selector string) bool {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		if err := page.WaitElement(ctx, selector, p.AttemptTimeout); err == nil {
			return true
		}
		slog.Warn("selector not ready, retrying",
			"selector", selector, "attempt", attempt, "maxRetries", p.MaxRetries)

		if attempt < p.MaxRetries {
			if err := sleep(ctx, p.Interval); err != nil {
				return false
			}
		}
	}
	return false
}
