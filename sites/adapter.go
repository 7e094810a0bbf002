// Package sites holds one extraction strategy per tracked website. Every
// adapter is total: invalid input, browser failures, missing markup and
// parse errors all degrade to the adapter's zero result.
package sites

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/scraper"
)

// Opener opens a browser session already navigated to a URL.
type Opener interface {
	Open(ctx context.Context, url string) (*scraper.Session, error)
}

// Poller waits for client-rendered markup to appear.
type Poller interface {
	WaitAndRetrySelector(ctx context.Context, page scraper.ElementWaiter, selector string) bool
}

// Counter is the capability shared by the counting adapters.
type Counter interface {
	Site() models.Site
	Count(ctx context.Context, url string) int
}

// runner carries the collaborators every adapter needs.
type runner struct {
	opener   Opener
	poller   Poller
	listWait time.Duration
}

// scrape is the frame shared by all adapters: validate, open a session,
// extract, always release the session, and fall back on any failure.
func scrape[T any](ctx context.Context, r *runner, site models.Site, url string, fallback T,
	extract func(ctx context.Context, s *scraper.Session) (T, error)) (result T) {

	if scraper.InvalidURL(url) {
		slog.Debug("skipping site: no valid profile url", "site", site, "url", url)
		return fallback
	}

	slog.Info("fetching profile", "site", site, "url", url)
	s, err := r.opener.Open(ctx, url)
	if err != nil {
		slog.Error("failed to fetch profile", "site", site, "url", url, "error", err)
		return fallback
	}

	defer func() {
		if err := s.Close(); err != nil {
			slog.Warn("failed to close browser", "site", site, "error", err)
		}
	}()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("extraction panicked", "site", site, "url", url, "panic", fmt.Sprint(rec))
			result = fallback
		}
	}()

	v, err := extract(ctx, s)
	if err != nil {
		slog.Error("failed to extract profile", "site", site, "url", url, "error", err)
		return fallback
	}

	slog.Info("profile fetched", "site", site, "result", v)
	return v
}

// polledHTML waits for selector through the poller and returns the page
// markup once it has appeared.
func (r *runner) polledHTML(ctx context.Context, s *scraper.Session, selector string) (string, error) {
	if !r.poller.WaitAndRetrySelector(ctx, s, selector) {
		return "", models.NewScrapeError(models.ErrCodeSelectorNotFound,
			fmt.Sprintf("selector %q never appeared", selector), nil)
	}
	return pageHTML(ctx, s)
}

func pageHTML(ctx context.Context, s *scraper.Session) (string, error) {
	raw, err := s.HTML(ctx)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeExtraction, "failed to read page HTML", err)
	}
	return raw, nil
}
