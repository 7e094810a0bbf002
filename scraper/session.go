package scraper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/solvetrack/models"
)

// PageOptions prepares a fresh page before navigation.
type PageOptions struct {
	UserAgent string
	Viewport  Viewport
}

// Page is a single browser tab.
type Page interface {
	// Navigate loads url and waits for network activity to settle,
	// giving up after timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitElement blocks until selector matches or timeout elapses.
	WaitElement(ctx context.Context, selector string, timeout time.Duration) error

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)
}

// Browser is a launched browser process.
type Browser interface {
	NewPage(ctx context.Context, opts PageOptions) (Page, error)
	Close() error
}

// Driver launches browser processes.
type Driver interface {
	Launch(ctx context.Context, cfg SessionConfig) (Browser, error)
}

// Session pairs one browser with its single page. It is owned by the
// caller that opened it and must be closed on every exit path.
type Session struct {
	browser Browser
	page    Page

	once     sync.Once
	closeErr error
}

// NewSession wraps an already prepared browser and page.
func NewSession(browser Browser, page Page) *Session {
	return &Session{browser: browser, page: page}
}

// WaitElement blocks until selector matches or timeout elapses.
func (s *Session) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	return s.page.WaitElement(ctx, selector, timeout)
}

// HTML returns the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.HTML(ctx)
}

// Close shuts the browser down. Only the first call does any work.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closeErr = s.browser.Close()
	})
	return s.closeErr
}

// closeQuietly releases a partially created browser, logging failures.
func closeQuietly(b Browser, url string) {
	if b == nil {
		return
	}
	if err := b.Close(); err != nil {
		slog.Warn("failed to close browser", "url", url, "error", err)
	}
}

// categorizeError wraps raw errors into typed ScrapeErrors.
func categorizeError(err error, code, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(code, msg, err)
	}
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
