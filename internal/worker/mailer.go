package worker

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/teamsync/backend/config"
)

// Mailer sends plain-text notification emails over SMTP. An empty SMTPHost
// disables sending; Send becomes a no-op returning false.
type Mailer struct {
	cfg config.EmailConfig
}

// NewMailer creates a mailer from config.
func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

// Send delivers one message. Returns (false, nil) when disabled.
func (m *Mailer) Send(to, subject, body string) (bool, error) {
	if !m.Enabled() {
		return false, nil
	}

	from := m.cfg.FromAddress
	msg := strings.Join([]string{
		"From: " + m.cfg.FromName + " <" + from + ">",
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return false, fmt.Errorf("send mail: %w", err)
	}
	return true, nil
}
