package services

import (
	"context"
	"time"

	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/robfig/cron/v3"
)

// SessionExpirer deactivates sessions that expired or sat idle past the cutoff.
type SessionExpirer interface {
	DeactivateExpiredSessions(ctx context.Context, now, idleCutoff time.Time) (int64, error)
	CountAllActiveSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionSweeper runs the expiry sweep on a cron schedule.
type SessionSweeper struct {
	sessions    SessionExpirer
	idleTimeout time.Duration
	cron        *cron.Cron
	now         func() time.Time
}

func NewSessionSweeper(sessions SessionExpirer, idleTimeout time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions:    sessions,
		idleTimeout: idleTimeout,
		cron:        cron.New(),
		now:         time.Now,
	}
}

// Start schedules the sweep with a standard five field cron spec.
func (s *SessionSweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	utils.Logger.Info().Str("schedule", spec).Msg("session sweeper started")
	return nil
}

// Stop waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SessionSweeper) Sweep(ctx context.Context) int64 {
	now := s.now()
	n, err := s.sessions.DeactivateExpiredSessions(ctx, now, now.Add(-s.idleTimeout))
	if err != nil {
		utils.TrackError("session", "sweep_failed")
		utils.Logger.Error().Err(err).Msg("session sweep failed")
		return 0
	}
	if n > 0 {
		utils.Logger.Info().Int64("deactivated", n).Msg("expired sessions swept")
	}
	if active, err := s.sessions.CountAllActiveSessions(ctx, now); err == nil {
		utils.ActiveSessions.Set(float64(active))
	}
	return n
}
