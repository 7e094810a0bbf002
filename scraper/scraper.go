package scraper

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/use-agent/solvetrack/config"
	"github.com/use-agent/solvetrack/models"
)

// retryState is a step of the launch-and-navigate state machine.
type retryState int

const (
	stateAttempting retryState = iota
	stateBackoff
	stateExhausted
	stateSucceeded
)

func (s retryState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateBackoff:
		return "backoff"
	case stateExhausted:
		return "exhausted"
	case stateSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Manager opens browser sessions, retrying failed launches and navigations
// with a fresh browser each time. At most one browser is alive per attempt.
type Manager struct {
	driver     Driver
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
	getenv     func(string) string
	sleep      func(context.Context, time.Duration) error
}

// Option customises a Manager.
type Option func(*Manager)

// WithGetenv replaces the environment lookup used for runtime detection.
func WithGetenv(getenv func(string) string) Option {
	return func(m *Manager) { m.getenv = getenv }
}

// WithSleep replaces the delay used for settling and backoff.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(m *Manager) { m.sleep = sleep }
}

// NewManager returns a Manager launching browsers through driver.
func NewManager(driver Driver, browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, opts ...Option) *Manager {
	m := &Manager{
		driver:     driver,
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		getenv:     os.Getenv,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open navigates a new session to url using the configured retry count.
func (m *Manager) Open(ctx context.Context, url string) (*Session, error) {
	return m.SafeGotoNewPage(ctx, url, m.scraperCfg.LaunchRetries)
}

// SafeGotoNewPage launches a browser and navigates it to url, trying up to
// retries times. Attempt n is followed by a backoff of n times the base
// delay. On success the caller owns the returned session.
func (m *Manager) SafeGotoNewPage(ctx context.Context, url string, retries int) (*Session, error) {
	if retries < 1 {
		retries = 1
	}

	var (
		state   = stateAttempting
		attempt int
		session *Session
		lastErr error
	)

	for {
		switch state {
		case stateAttempting:
			attempt++
			s, err := m.attempt(ctx, url)
			if err == nil {
				session = s
				state = stateSucceeded
				continue
			}
			lastErr = err
			slog.Warn("browser launch/navigation attempt failed",
				"url", url, "attempt", attempt, "retries", retries, "error", err)
			if attempt >= retries {
				state = stateExhausted
			} else {
				state = stateBackoff
			}

		case stateBackoff:
			delay := m.scraperCfg.RetryBackoff * time.Duration(attempt)
			slog.Debug("backing off before next browser attempt",
				"url", url, "attempt", attempt, "delay", delay)
			if err := m.sleep(ctx, delay); err != nil {
				lastErr = categorizeError(err, models.ErrCodeTimeout, "backoff interrupted")
				state = stateExhausted
				continue
			}
			state = stateAttempting

		case stateSucceeded:
			return session, nil

		case stateExhausted:
			return nil, lastErr
		}
	}
}

// attempt runs one launch, page setup, navigation and settle delay. The
// browser is closed on any failure.
func (m *Manager) attempt(ctx context.Context, url string) (*Session, error) {
	cfg := SelectSessionConfig(m.getenv, m.browserCfg)

	browser, err := m.driver.Launch(ctx, cfg)
	if err != nil {
		return nil, categorizeError(err, models.ErrCodeBrowserLaunch, "failed to launch browser")
	}

	page, err := browser.NewPage(ctx, PageOptions{UserAgent: cfg.UserAgent, Viewport: cfg.Viewport})
	if err != nil {
		closeQuietly(browser, url)
		return nil, categorizeError(err, models.ErrCodeBrowserLaunch, "failed to open page")
	}

	if err := page.Navigate(ctx, url, m.scraperCfg.NavigationTimeout); err != nil {
		closeQuietly(browser, url)
		return nil, categorizeError(err, models.ErrCodeNavigation, "navigation to target URL failed")
	}

	if err := m.sleep(ctx, m.scraperCfg.SettleDelay); err != nil {
		closeQuietly(browser, url)
		return nil, categorizeError(err, models.ErrCodeTimeout, "settle delay interrupted")
	}

	return NewSession(browser, page), nil
}
