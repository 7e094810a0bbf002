package commands

import (
	"context"
	"fmt"

	"github.com/use-agent/solvetrack/notify"
	"github.com/use-agent/solvetrack/scraper"
	"github.com/use-agent/solvetrack/sites"
	"github.com/use-agent/solvetrack/store"
	"github.com/use-agent/solvetrack/tracker"
)

// openStore opens and migrates the profile datastore.
func openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return st, nil
}

// newSiteSet wires the adapters to a real Chromium.
func newSiteSet() *sites.Set {
	manager := scraper.NewManager(scraper.RodDriver{}, cfg.Browser, cfg.Scraper)
	return sites.NewSet(manager, scraper.NewPoller(cfg.Scraper), cfg.Scraper.ListWaitTimeout)
}

// newNotifier returns the configured delivery channels, or nil when none
// is enabled.
func newNotifier() tracker.Notifier {
	var m notify.Multi
	if cfg.Mail.Enabled {
		m = append(m, notify.NewSMTPNotifier(cfg.Mail, notify.Renderer{DailyQuota: cfg.Tracker.DailyQuota}))
	}
	if cfg.Webhook.URL != "" {
		m = append(m, notify.NewWebhookNotifier(nil, cfg.Webhook.URL, cfg.Webhook.Secret))
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func newTracker(st *store.Store, dryRun bool) *tracker.Tracker {
	return tracker.New(st, newSiteSet(), newNotifier(), cfg.Tracker, tracker.WithDryRun(dryRun))
}
