// Package tracker runs one full check: scrape every profile in turn,
// persist the new counters, then email each student a report.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/use-agent/solvetrack/config"
	"github.com/use-agent/solvetrack/models"
)

// ProfileStore is the datastore the tracker reads and updates.
type ProfileStore interface {
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, u models.CountUpdate) error
}

// Fetcher runs the site adapters.
type Fetcher interface {
	Count(ctx context.Context, site models.Site, url string) int
	Questions(ctx context.Context, url string) models.QuestionList
}

// Notifier delivers a report.
type Notifier interface {
	Notify(ctx context.Context, r models.Report) error
}

// Summary describes a finished run.
type Summary struct {
	ProfilesProcessed int
	EmailsQueued      int
	EmailsSent        int
	EmailsFailed      int
	Reports           []models.Report
}

// Tracker processes profiles one at a time and sites one at a time within
// a profile.
type Tracker struct {
	store    ProfileStore
	fetcher  Fetcher
	notifier Notifier
	quota    int
	dryRun   bool
	now      func() time.Time

	profileLimiter *rate.Limiter
	emailLimiter   *rate.Limiter
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithDryRun skips persistence and delivery; reports are still returned.
func WithDryRun(dry bool) Option {
	return func(t *Tracker) { t.dryRun = dry }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New builds a Tracker. notifier may be nil when delivery is disabled.
func New(store ProfileStore, fetcher Fetcher, notifier Notifier, cfg config.TrackerConfig, opts ...Option) *Tracker {
	t := &Tracker{
		store:          store,
		fetcher:        fetcher,
		notifier:       notifier,
		quota:          cfg.DailyQuota,
		now:            time.Now,
		profileLimiter: newLimiter(cfg.ProfileDelay),
		emailLimiter:   newLimiter(cfg.EmailDelay),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// newLimiter admits one event per delay.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Run processes every stored profile, then sends the queued reports. Only
// a failed profile listing or cancellation aborts the run; per-profile,
// store and delivery failures are logged and skipped.
func (t *Tracker) Run(ctx context.Context) (Summary, error) {
	slog.Info("starting profile check", "runtime", config.DetectRuntime(os.Getenv), "dryRun", t.dryRun)

	profiles, err := t.store.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list profiles: %w", err)
	}
	slog.Info("fetched profiles", "count", len(profiles))

	sum := Summary{ProfilesProcessed: len(profiles)}

	// ── 1. Scrape and persist, one profile at a time ─────────────────
	for _, p := range profiles {
		if err := t.profileLimiter.Wait(ctx); err != nil {
			return sum, fmt.Errorf("profile loop interrupted: %w", err)
		}
		report, ok := t.processProfile(ctx, p)
		if ok {
			sum.Reports = append(sum.Reports, report)
		}
	}
	sum.EmailsQueued = len(sum.Reports)

	if t.dryRun {
		return sum, nil
	}
	if t.notifier == nil {
		slog.Warn("no notifier configured, reports not delivered", "queued", sum.EmailsQueued)
		return sum, nil
	}

	// ── 2. Deliver reports sequentially ─────────────────────────────
	slog.Info("sending reports", "count", sum.EmailsQueued)
	for _, r := range sum.Reports {
		if err := t.emailLimiter.Wait(ctx); err != nil {
			return sum, fmt.Errorf("delivery loop interrupted: %w", err)
		}
		if err := t.notifier.Notify(ctx, r); err != nil {
			sum.EmailsFailed++
			slog.Error("failed to send report", "email", r.Email, "error", err)
			continue
		}
		sum.EmailsSent++
	}
	return sum, nil
}

// processProfile scrapes one profile and writes its counters back. A
// panic anywhere in the profile is contained to that profile.
func (t *Tracker) processProfile(ctx context.Context, p models.Profile) (report models.Report, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("error processing profile", "email", p.Email, "panic", fmt.Sprint(rec))
			ok = false
		}
	}()

	slog.Info("processing profile", "name", p.DisplayName(), "email", p.Email)
	now := t.now()

	counts := make(map[models.Site]int, len(models.CountedSites))
	sum := 0
	for _, site := range models.CountedSites {
		fetched := t.fetcher.Count(ctx, site, p.URLs[site])
		counts[site] = max(fetched, p.Counts[site])
		sum += counts[site]
	}

	days := ElapsedDays(p.PrevDate, now)
	due, total := Overdue(days, t.quota, p.PrevRecord, sum)

	report = models.Report{
		Email:  p.Email,
		Name:   p.DisplayName(),
		Due:    due,
		Total:  total,
		Counts: counts,
	}
	if url := p.URLs[models.SiteCodolio]; url != "" {
		q := t.fetcher.Questions(ctx, url)
		report.Questions = &q
	}

	slog.Info("profile checked", "email", p.Email, "days", days, "total", total, "due", due)

	if !t.dryRun {
		err := t.store.Update(ctx, models.CountUpdate{
			Email:      p.Email,
			Counts:     counts,
			PrevRecord: p.PrevRecord,
			PrevDate:   now,
		})
		if err != nil {
			slog.Error("failed to update profile", "email", p.Email, "error", err)
		}
	}
	return report, true
}

// Handle runs the tracker and shapes the outcome as a function response.
func (t *Tracker) Handle(ctx context.Context) models.RunResponse {
	sum, err := t.Run(ctx)
	if err != nil {
		slog.Error("profile check failed", "error", err)
		return models.NewRunFailure(err)
	}
	return models.NewRunSuccess(sum.ProfilesProcessed, sum.EmailsQueued)
}
