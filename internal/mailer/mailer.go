package mailer

import (
	"github.com/rs/zerolog"

	"estatehub/api/internal/config"
)

// Mailer delivers transactional mail. The only message this service sends is
// the password-reset link.
type Mailer interface {
	SendPasswordReset(toEmail, toName, resetURL string) error
}

// New picks the dev mailer when mail.devmode is set, otherwise SMTP.
func New(cfg config.MailConfig, log zerolog.Logger) Mailer {
	if cfg.DevMode {
		return &DevMailer{log: log}
	}
	return NewSMTPMailer(cfg)
}
