package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"CryptoSentinel/internal/jobs"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Ctx    context.Context
	Logger logrus.FieldLogger

	jobs  map[string]jobs.Job
	order []string
}

// NewScheduler creates a new Scheduler. A job still running when its next
// tick fires skips that tick.
func NewScheduler(ctx context.Context, logger logrus.FieldLogger) *Scheduler {
	logger = logger.WithField("component", "scheduler")
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		Ctx:    ctx,
		Logger: logger,
		jobs:   make(map[string]jobs.Job),
	}
}

// Register adds job. An empty spec makes the job runnable only on demand.
func (s *Scheduler) Register(job jobs.Job, spec string) error {
	name := job.Name()
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("register %s: already registered", name)
	}
	if spec != "" {
		if _, err := s.Cron.AddFunc(spec, func() { _ = s.run(s.Ctx, job) }); err != nil {
			return fmt.Errorf("register %s task: %w", name, err)
		}
		s.Logger.WithFields(logrus.Fields{"job": name, "cron": spec}).Info("task registered")
	}
	s.jobs[name] = job
	s.order = append(s.order, name)
	return nil
}

// Jobs returns the registered job names in registration order.
func (s *Scheduler) Jobs() []string {
	return append([]string(nil), s.order...)
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.WithField("entries", len(s.Cron.Entries())).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunOnce executes the named job immediately and returns its error.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownJob, name)
	}
	return s.run(ctx, job)
}

// RunAll runs every registered job once in registration order. A failing job
// does not stop the others.
func (s *Scheduler) RunAll(ctx context.Context) error {
	var errs []error
	for _, name := range s.order {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := s.run(ctx, s.jobs[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) run(ctx context.Context, job jobs.Job) error {
	log := s.Logger.WithField("job", job.Name())
	log.Info("running task")
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.WithError(err).Error("task failed")
		return err
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("task finished")
	return nil
}
