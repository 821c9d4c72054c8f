// Package scheduler runs the periodic housekeeping jobs of the serve command.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Maintainer is implemented by the services layer.
type Maintainer interface {
	PruneTelemetry(ctx context.Context, before time.Time) (int64, error)
	ExpireCommands(ctx context.Context, before time.Time) (int64, error)
}

type Scheduler struct {
	cron       *cron.Cron
	maintainer Maintainer
	retention  time.Duration
	ackTimeout time.Duration
	now        func() time.Time
}

// NewScheduler registers the housekeeping job on a six field (seconds first) cron schedule.
func NewScheduler(schedule string, m Maintainer, retention, ackTimeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		maintainer: m,
		retention:  retention,
		ackTimeout: ackTimeout,
		now:        time.Now,
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("Housekeeping scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Housekeeping scheduler stopped")
}

// RunOnce prunes old telemetry and expires unacknowledged commands.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now()

	pruned, err := s.maintainer.PruneTelemetry(ctx, now.Add(-s.retention))
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune telemetry")
	} else {
		log.Info().Int64("rows", pruned).Msg("Pruned telemetry")
	}

	expired, err := s.maintainer.ExpireCommands(ctx, now.Add(-s.ackTimeout))
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire commands")
	} else if expired > 0 {
		log.Warn().Int64("commands", expired).Msg("Expired unacknowledged commands")
	}
}
