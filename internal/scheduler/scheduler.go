package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs one job on a standard 5-field cron schedule in a fixed
// timezone. A firing is skipped while the previous run is still going.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	spec     string
	job      func(ctx context.Context)
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(spec, timezone string, job func(ctx context.Context)) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	logger := slogLogger{}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		schedule: schedule,
		spec:     spec,
		job:      job,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		slog.Info("scheduled analysis triggered", "schedule", s.spec)
		s.job(s.ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("scheduler started", "schedule", s.spec, "location", s.cron.Location().String(), "next", s.Next(time.Now()))
	return nil
}

// Stop cancels the job context and waits for a running job to return.
func (s *Scheduler) Stop() {
	slog.Info("stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) Next(after time.Time) time.Time {
	return s.schedule.Next(after.In(s.cron.Location()))
}

type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
