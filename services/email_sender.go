package services

import (
	"context"
	"fmt"

	"lead-intake/config"
	"lead-intake/logger"
	"lead-intake/models"

	"gopkg.in/gomail.v2"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier emails the business owner about every new lead.
type EmailNotifier struct {
	sender MailSender
	from   string
	to     string
}

// NewEmailNotifier builds a notifier from SMTP settings. It returns nil when
// SMTP credentials or the recipient are missing.
func NewEmailNotifier(cfg config.Config) *EmailNotifier {
	if !cfg.NotifyEnabled() {
		logger.Info("New-lead email disabled (set SMTP_USER, SMTP_PASS and NOTIFY_EMAIL_TO)")
		return nil
	}
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &EmailNotifier{sender: d, from: from, to: cfg.NotifyEmailTo}
}

func (n *EmailNotifier) Name() string { return "email" }

// LeadStored implements LeadListener.
func (n *EmailNotifier) LeadStored(ctx context.Context, lead models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Reply-To", lead.Email)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", lead.Business, lead.Service))
	m.SetBody("text/plain", NewLeadEmailText(lead))
	m.AddAlternative("text/html", NewLeadEmailHTML(lead))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("New-lead email sent to: %s", n.to)
	return nil
}
