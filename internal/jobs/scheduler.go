// Package jobs holds the background jobs that keep KPI reporting data
// fresh: the fact view refresh sweep and the monthly report snapshot.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobName identifies a registered background job.
type JobName string

// Scheduler runs the background jobs on cron expressions. A job that is
// still running when its next tick fires is skipped, and panics inside a
// job are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[JobName]cron.EntryID
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger: logger,
		jobs:   make(map[JobName]cron.EntryID),
	}
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop stops scheduling new runs. The returned context is done once any
// in-flight job has completed.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers a job under the given cron expression. Expressions use
// the six-field form with a leading seconds field ("0 30 2 * * *"), or the
// @-descriptors ("@hourly", "@every 1h").
func (s *Scheduler) AddJob(name JobName, cronExpr string, run func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		start := time.Now()
		s.logger.Info("running scheduled job", zap.String("job", string(name)))
		run()
		s.logger.Info("scheduled job finished",
			zap.String("job", string(name)),
			zap.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("scheduled job registered",
		zap.String("job", string(name)),
		zap.String("cron_expr", cronExpr))

	return nil
}

// Names returns the registered job names.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, string(name))
	}
	return names
}
