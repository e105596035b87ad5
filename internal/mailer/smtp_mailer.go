package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"estatehub/api/internal/config"
)

type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendPasswordReset(toEmail, toName, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your password reset token (valid for 10 minutes)")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Submit a PATCH request with your new password to:\n\n%s\n\nIf you didn't forget your password, please ignore this email.\n",
		toName, resetURL,
	))

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	return dialer.DialAndSend(msg)
}
