package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"estatehub/api/internal/repository"
)

type Scheduler struct {
	cron  *cron.Cron
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewScheduler(users *repository.UserRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		users: users,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purgeExpiredResetTokens); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any running job to finish, bounded at five seconds.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

// purgeExpiredResetTokens unsets reset tokens whose deadline has passed so a
// stale hash can never linger on a user record.
func (s *Scheduler) purgeExpiredResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.users.PurgeExpiredResetTokens(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("reset token purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("expired reset tokens cleared")
	}
}
