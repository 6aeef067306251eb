package mailer

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/rohit30san/thapar-olx/internal/domain/service"
)

type Config struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	PlatformName string
}

// SMTPMailer sends verification links through an SMTP relay.
type SMTPMailer struct {
	dialer       *gomail.Dialer
	from         string
	platformName string
}

var _ service.VerificationMailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg Config) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer:       gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:         from,
		platformName: cfg.PlatformName,
	}
}

func (m *SMTPMailer) buildVerificationMessage(toEmail, displayName, link string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, m.platformName))
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Verify your "+m.platformName+" account")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address to start buying and selling on %s:\n\n%s\n\nIf you did not sign up, ignore this email.\n",
		displayName, m.platformName, link,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(
		`<p>Hi %s,</p><p>Please confirm your email address to start buying and selling on %s.</p><p><a href="%s">Verify email</a></p>`,
		html.EscapeString(displayName), html.EscapeString(m.platformName), html.EscapeString(link),
	))
	return msg
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, toEmail, displayName, link string) error {
	return m.dialer.DialAndSend(m.buildVerificationMessage(toEmail, displayName, link))
}
