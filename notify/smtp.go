package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/use-agent/solvetrack/config"
	"github.com/use-agent/solvetrack/models"
)

// sendFunc matches (*email.Email).Send.
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// SMTPNotifier emails the rendered report.
type SMTPNotifier struct {
	cfg      config.MailConfig
	renderer Renderer
	send     sendFunc
}

// NewSMTPNotifier returns a notifier sending through cfg.
func NewSMTPNotifier(cfg config.MailConfig, renderer Renderer) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:      cfg,
		renderer: renderer,
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Notify renders and sends one report. Servers without AUTH support are
// retried unauthenticated.
func (n *SMTPNotifier) Notify(ctx context.Context, r models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := n.renderer.Render(r)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeNotify, "render report", err)
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("%q <%s>", n.cfg.FromName, n.cfg.From)
	mail.To = []string{r.Email}
	mail.Subject = Subject
	mail.HTML = []byte(body)
	if text, err := PlainText(body); err != nil {
		slog.Warn("failed to build plain text body", "email", r.Email, "error", err)
	} else {
		mail.Text = []byte(text)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	err = n.send(mail, addr, smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = n.send(mail, addr, nil)
	}
	if err != nil {
		return models.NewScrapeError(models.ErrCodeNotify, "send email to "+r.Email, err)
	}

	slog.Info("email sent", "to", r.Email)
	return nil
}
