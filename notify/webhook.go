package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/use-agent/solvetrack/models"
	"github.com/use-agent/solvetrack/webhook"
)

// WebhookNotifier posts each report as a signed JSON event.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	secret string
	delays []time.Duration
}

// NewWebhookNotifier returns a notifier posting to url.
func NewWebhookNotifier(client *resty.Client, url, secret string) *WebhookNotifier {
	if client == nil {
		client = resty.New().SetTimeout(10 * time.Second)
	}
	return &WebhookNotifier{client: client, url: url, secret: secret, delays: webhook.DefaultDelays}
}

func (n *WebhookNotifier) Notify(ctx context.Context, r models.Report) error {
	event := &webhook.Event{
		Type:      "profile.report",
		Timestamp: time.Now().Unix(),
		Data:      r,
	}
	if err := webhook.DeliverWithRetry(ctx, n.client, n.url, n.secret, event, n.delays); err != nil {
		return models.NewScrapeError(models.ErrCodeNotify, "webhook for "+r.Email, err)
	}
	return nil
}
