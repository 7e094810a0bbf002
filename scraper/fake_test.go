package scraper

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakePage struct {
	navErr   error
	html     string
	waitErrs []error // consumed per WaitElement call; last value repeats

	mu    sync.Mutex
	waits int
}

func (p *fakePage) Navigate(context.Context, string, time.Duration) error { return p.navErr }

func (p *fakePage) WaitElement(context.Context, string, time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits++
	if len(p.waitErrs) == 0 {
		return nil
	}
	i := p.waits - 1
	if i >= len(p.waitErrs) {
		i = len(p.waitErrs) - 1
	}
	return p.waitErrs[i]
}

func (p *fakePage) HTML(context.Context) (string, error) { return p.html, nil }

type fakeBrowser struct {
	page     *fakePage
	pageErr  error
	closeErr error
	closed   int
}

func (b *fakeBrowser) NewPage(context.Context, PageOptions) (Page, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

func (b *fakeBrowser) Close() error {
	b.closed++
	return b.closeErr
}

// fakeDriver hands out browsers built by next, recording every launch.
type fakeDriver struct {
	next     func(attempt int) (*fakeBrowser, error)
	configs  []SessionConfig
	browsers []*fakeBrowser
}

func (d *fakeDriver) Launch(_ context.Context, cfg SessionConfig) (Browser, error) {
	d.configs = append(d.configs, cfg)
	b, err := d.next(len(d.configs))
	if err != nil {
		return nil, err
	}
	d.browsers = append(d.browsers, b)
	return b, nil
}

type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

var errBoom = errors.New("boom")
