package sweep

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work, usually a sweep plus its reports
type Job func(ctx context.Context) error

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule reports whether spec is a cron expression or descriptor
// such as "@every 10m".
func ValidateSchedule(spec string) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Scheduler runs a Job on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *zap.SugaredLogger
	// RunImmediately executes the job once before waiting for the first tick
	RunImmediately bool
}

// NewScheduler validates spec and prepares a scheduler for job
func NewScheduler(spec string, job Job, logger *zap.SugaredLogger) (*Scheduler, error) {
	if err := ValidateSchedule(spec); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		spec:   spec,
		job:    job,
		logger: logger,
	}, nil
}

// Run blocks until ctx is done, running the job on every tick. Job errors
// are logged and do not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	run := func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.job(ctx); err != nil {
			s.logger.Errorw("scheduled sweep failed", "schedule", s.spec, "error", err)
		}
	}

	id, err := s.cron.AddFunc(s.spec, run)
	if err != nil {
		return fmt.Errorf("failed to schedule %q: %w", s.spec, err)
	}

	if s.RunImmediately {
		run()
	}

	s.cron.Start()
	s.logger.Infow("scheduler started", "schedule", s.spec, "next", s.cron.Entry(id).Next)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Infow("scheduler stopped", "schedule", s.spec)
	return nil
}
