package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// requestIdle is how long the network must stay quiet after navigation.
const requestIdle = 500 * time.Millisecond

// longLivedTypes never count as in-flight for the idle wait. Sockets,
// event streams and beacons stay open for the life of a page and would
// otherwise keep every navigation from settling.
var longLivedTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeEventSource,
	proto.NetworkResourceTypePing,
	proto.NetworkResourceTypeMedia,
}

// RodDriver launches Chromium through go-rod.
type RodDriver struct{}

type launchResult struct {
	browser *rod.Browser
	err     error
}

// Launch starts a browser process and connects to it over CDP, giving up
// after cfg.Timeout.
func (RodDriver) Launch(ctx context.Context, cfg SessionConfig) (Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Leakless(cfg.Leakless)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))

	for _, arg := range cfg.Args {
		l.Set(flags.Flag(arg.Name), arg.Values...)
	}

	done := make(chan launchResult, 1)
	go func() {
		controlURL, err := l.Launch()
		if err != nil {
			done <- launchResult{err: fmt.Errorf("launch chromium: %w", err)}
			return
		}
		slog.Debug("browser launched", "controlURL", controlURL, "runtime", cfg.Runtime)

		b := rod.New().ControlURL(controlURL)
		if err := b.Connect(); err != nil {
			done <- launchResult{err: fmt.Errorf("connect to chromium: %w", err)}
			return
		}
		done <- launchResult{browser: b}
	}()

	var timeout <-chan time.Time
	if cfg.Timeout > 0 {
		t := time.NewTimer(cfg.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case res := <-done:
		if res.err != nil {
			discardLauncher(l)
			return nil, res.err
		}
		rb := &rodBrowser{browser: res.browser, launcher: l}
		if cfg.IgnoreHTTPSErrors {
			if err := res.browser.IgnoreCertErrors(true); err != nil {
				_ = rb.Close()
				return nil, fmt.Errorf("ignore certificate errors: %w", err)
			}
		}
		return rb, nil

	case <-timeout:
		l.Kill()
		go abandonLaunch(done, l)
		return nil, fmt.Errorf("launch chromium after %s: %w", cfg.Timeout, context.DeadlineExceeded)

	case <-ctx.Done():
		l.Kill()
		go abandonLaunch(done, l)
		return nil, ctx.Err()
	}
}

// abandonLaunch waits for a launch the caller gave up on and releases
// whatever it produced.
func abandonLaunch(done <-chan launchResult, l *launcher.Launcher) {
	res := <-done
	if res.browser != nil {
		_ = res.browser.Close()
		l.Kill()
		l.Cleanup()
		return
	}
	discardLauncher(l)
}

// discardLauncher kills a launcher whose browser never connected and removes
// its user-data dir. launcher.Cleanup is not used here because it blocks
// until the process exits, and a process that never started never exits.
func discardLauncher(l *launcher.Launcher) {
	l.Kill()
	if dir := l.Get(flags.UserDataDir); dir != "" {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("failed to remove browser profile dir", "dir", dir, "error", err)
		}
	}
}

// rodBrowser owns one Chromium process.
type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewPage opens a stealth tab with the requested identity.
func (b *rodBrowser) NewPage(ctx context.Context, opts PageOptions) (Page, error) {
	page, err := stealth.Page(b.browser.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      opts.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		}); err != nil {
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": "en-US,en;q=0.9"}),
	}).Call(page); err != nil {
		slog.Debug("failed to set extra headers", "error", err)
	}

	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Viewport.Width,
			Height:            opts.Viewport.Height,
			DeviceScaleFactor: 1,
		}); err != nil {
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}

	// Drop the caller's context so later calls bind their own.
	return &rodPage{page: page.Context(context.Background())}, nil
}

// Close shuts the browser down and removes its profile directory.
func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

type rodPage struct {
	page *rod.Page
}

// Navigate loads url and waits until no request other than longLivedTypes
// has been in flight for requestIdle. The idle listener is registered
// before navigating so that early requests are observed.
func (p *rodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := p.page.Context(navCtx)
	waitIdle := page.WaitRequestIdle(requestIdle, nil, nil, longLivedTypes)

	if err := page.Navigate(url); err != nil {
		return err
	}
	waitIdle()

	// WaitRequestIdle returns silently when its context ends.
	if err := navCtx.Err(); err != nil {
		return err
	}
	return nil
}

// WaitElement blocks until selector matches or timeout elapses.
func (p *rodPage) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := p.page.Context(waitCtx).Element(selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("selector %q not found within %s: %w", selector, timeout, err)
		}
		return err
	}
	return nil
}

// HTML returns the rendered document.
func (p *rodPage) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
