package smtp

import (
	"fmt"
	"net/smtp"

	"github.com/guild-verify-api/internal/config"
)

// Mailer dispatches one-time verification codes.
type Mailer interface {
	SendCode(to, code, customMessage string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendCode(to, code, customMessage string) error {
	body := "Your verification code: " + code
	if customMessage != "" {
		body = customMessage + "\r\n\r\n" + body
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, "Your verification code", body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
