package mailer

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"blogcms/internal/config"
)

type Mailer interface {
	SendWelcome(to string) error
}

type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	siteURL string
}

// New returns an SMTP mailer, or a no-op one when SMTP is not configured.
func New(cfg config.SMTP, siteURL string) Mailer {
	if !cfg.Enabled() {
		return Noop{}
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &SMTPMailer{dialer: d, from: cfg.From, siteURL: siteURL}
}

func (m *SMTPMailer) SendWelcome(to string) error {
	if err := m.dialer.DialAndSend(WelcomeMessage(m.from, to, m.siteURL)); err != nil {
		return fmt.Errorf("send welcome mail to %s: %w", to, err)
	}
	return nil
}

func WelcomeMessage(from, to, siteURL string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to the newsletter")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hello,</p>\n<p>You are now subscribed to our newsletter.</p>\n<p><a href=\"%s\">Visit the blog</a></p>\n", siteURL))
	return msg
}

type Noop struct{}

func (Noop) SendWelcome(string) error { return nil }
