package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"vms/api/internal/service"
	"vms/api/internal/store"
)

// Scheduler runs the background maintenance jobs: an hourly expired
// session sweep and a nightly backup snapshot. The backup job quietly
// skips when no object storage is configured.
type Scheduler struct {
	cron    *cron.Cron
	store   store.Store
	backups *service.BackupService
	log     zerolog.Logger
}

func NewScheduler(st store.Store, backups *service.BackupService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		store:   st,
		backups: backups,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.sweepSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 30 2 * * *", s.nightlyBackup); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for running jobs to finish, up to a
// bound.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("expired sessions swept")
	}
}

func (s *Scheduler) nightlyBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	key, err := s.backups.Run(ctx, "")
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			return
		}
		s.log.Error().Err(err).Msg("nightly backup failed")
		return
	}
	s.log.Info().Str("key", key).Msg("nightly backup stored")
}
