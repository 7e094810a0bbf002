package sites

import (
	"context"
	"errors"
	"time"

	"github.com/use-agent/solvetrack/scraper"
)

// fixturePage serves canned HTML. Before the list selector appears it
// serves html; afterwards listHTML when set.
type fixturePage struct {
	html     string
	listHTML string
	waitErr  error
	listed   bool
}

func (p *fixturePage) Navigate(context.Context, string, time.Duration) error { return nil }

func (p *fixturePage) WaitElement(_ context.Context, selector string, _ time.Duration) error {
	if p.waitErr != nil {
		return p.waitErr
	}
	if selector == codolioList {
		p.listed = true
	}
	return nil
}

func (p *fixturePage) HTML(context.Context) (string, error) {
	if p.listed && p.listHTML != "" {
		return p.listHTML, nil
	}
	return p.html, nil
}

type fixtureBrowser struct {
	closed   int
	closeErr error
}

func (b *fixtureBrowser) NewPage(context.Context, scraper.PageOptions) (scraper.Page, error) {
	return nil, errors.New("not used")
}

func (b *fixtureBrowser) Close() error {
	b.closed++
	return b.closeErr
}

// fakeOpener opens sessions over a single fixture page.
type fakeOpener struct {
	page    *fixturePage
	err     error
	opened  []string
	browser *fixtureBrowser
}

func (o *fakeOpener) Open(_ context.Context, url string) (*scraper.Session, error) {
	o.opened = append(o.opened, url)
	if o.err != nil {
		return nil, o.err
	}
	o.browser = &fixtureBrowser{}
	return scraper.NewSession(o.browser, o.page), nil
}

// fakePoller reports a fixed outcome and counts calls.
type fakePoller struct {
	ok    bool
	calls int
}

func (p *fakePoller) WaitAndRetrySelector(context.Context, scraper.ElementWaiter, string) bool {
	p.calls++
	return p.ok
}

// panicPage blows up on HTML to exercise the recovery path.
type panicPage struct{ fixturePage }

func (p *panicPage) HTML(context.Context) (string, error) { panic("renderer crashed") }
