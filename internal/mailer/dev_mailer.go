package mailer

import (
	"github.com/rs/zerolog"
)

// DevMailer logs instead of sending. Used outside production.
type DevMailer struct {
	log zerolog.Logger
}

func (m *DevMailer) SendPasswordReset(toEmail, toName, resetURL string) error {
	m.log.Info().
		Str("to", toEmail).
		Str("name", toName).
		Str("reset_url", resetURL).
		Msg("password reset mail (dev mode, not sent)")
	return nil
}
