// Package job holds the periodic maintenance jobs of the portal.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"school-portal-api/internal/metrics"
)

const defaultJobTimeout = 5 * time.Minute

// Job is a unit of periodic work. RunOnce reports how many records it changed.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) (int, error)
}

// Scheduler runs jobs on cron schedules. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewScheduler creates an idle scheduler; each run gets timeout (five minutes when zero)
func NewScheduler(logger *zap.Logger, m *metrics.Metrics, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		metrics: m,
		timeout: timeout,
	}
}

// Register adds job under schedule. An empty schedule disables the job.
func (s *Scheduler) Register(schedule string, job Job) error {
	if schedule == "" {
		s.logger.Info("Job disabled", zap.String("job", job.Name()))
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(job) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, job.Name(), err)
	}

	s.logger.Info("Job scheduled", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

// run executes one pass of job; a panic is reported as a failed run
func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	affected, err := s.invoke(ctx, job)
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordJobRun(job.Name(), affected, duration, err)
	}
	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", job.Name()),
			zap.Duration("duration", duration),
			zap.Error(err))
		return
	}
	s.logger.Info("Job finished",
		zap.String("job", job.Name()),
		zap.Int("affected", affected),
		zap.Duration("duration", duration))
}

func (s *Scheduler) invoke(ctx context.Context, job Job) (affected int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.RunOnce(ctx)
}

// Len returns the number of registered jobs
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and returns a context that is done when running jobs finish
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
