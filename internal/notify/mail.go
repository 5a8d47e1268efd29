package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/foliowatch/foliowatch/internal/config"
)

// MailChannel delivers notifications over SMTP.
type MailChannel struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

var _ Channel = (*MailChannel)(nil)

// NewMailChannel creates the mail channel, or nil when no SMTP host is
// configured.
func NewMailChannel(cfg config.NotifyConfig) *MailChannel {
	if cfg.SMTPHost == "" || cfg.MailTo == "" {
		return nil
	}

	return &MailChannel{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
		to:     cfg.MailTo,
	}
}

func (m *MailChannel) Name() string { return "mail" }

// Send mails the message. The SMTP dial is synchronous and honors no
// context; the dialer's own timeouts bound it.
func (m *MailChannel) Send(ctx context.Context, msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", m.to)
	mail.SetHeader("Subject", msg.Title)
	mail.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
