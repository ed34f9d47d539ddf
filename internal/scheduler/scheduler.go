// Package scheduler enqueues retention runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

// Scheduler puts a job in the mailbox on every cron tick. It never runs
// retention itself, so a tick during a run only leaves one pending job.
//
// Common expressions:
//   - "0 3 * * *"    daily at 3 AM
//   - "0 */6 * * *"  every 6 hours
//   - "@every 1h"
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entry    cron.EntryID
	schedule string
	running  bool

	mb  *mailbox.Mailbox[worker.Job]
	log logging.Logger
}

func New(mb *mailbox.Mailbox[worker.Job], log logging.Logger) *Scheduler {
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{
		cron: cron.New(),
		mb:   mb,
		log:  log.With("component", "scheduler"),
	}
}

// Start schedules runs and returns. An empty schedule does nothing. The
// scheduler stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if err := s.Reschedule(schedule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.cron.Start()
	s.running = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Reschedule replaces the current schedule. An empty schedule removes it.
func (s *Scheduler) Reschedule(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == s.schedule && (schedule == "" || s.entry != 0) {
		return nil
	}

	if schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
		}
	}

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	s.schedule = schedule

	if schedule == "" {
		s.log.Info("retention schedule not configured")
		return nil
	}

	id, err := s.cron.AddFunc(schedule, s.fire)
	if err != nil {
		return fmt.Errorf("failed to schedule retention: %w", err)
	}
	s.entry = id
	s.log.Info("retention scheduled", "schedule", schedule)
	return nil
}

func (s *Scheduler) fire() {
	s.log.Debug("schedule fired")
	s.mb.Put(worker.NewJob(worker.TriggerSchedule))
}

// Stop stops the scheduler and waits for a running tick to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.log.Info("scheduler stopped")
	}
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == 0 {
		return nil
	}
	e := s.cron.Entry(s.entry)
	if !e.Valid() || e.Next.IsZero() {
		return nil
	}
	next := e.Next
	return &next
}
