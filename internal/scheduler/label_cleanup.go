package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// CleanupFunc performs or enqueues one orphan label cleanup.
type CleanupFunc func() error

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule checks a five-field cron expression or descriptor
// such as "@daily".
func ValidateSchedule(schedule string) error {
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// LabelCleanupScheduler periodically removes labels that no book uses.
type LabelCleanupScheduler struct {
	schedule string
	run      CleanupFunc

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewLabelCleanupScheduler creates a scheduler. An empty schedule disables it.
func NewLabelCleanupScheduler(schedule string, run CleanupFunc) *LabelCleanupScheduler {
	return &LabelCleanupScheduler{
		schedule: schedule,
		run:      run,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the job and starts the cron runner. It stops on its own
// when ctx is cancelled.
func (s *LabelCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" {
		log.Info().Msg("Label cleanup scheduler: disabled")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule label cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Info().
		Str("schedule", s.schedule).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("Label cleanup scheduler: started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *LabelCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Info().Msg("Label cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *LabelCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next cleanup happens, nil when stopped.
func (s *LabelCleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *LabelCleanupScheduler) runOnce() {
	start := time.Now()
	if err := s.run(); err != nil {
		log.Error().Err(err).Msg("Label cleanup failed")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Label cleanup finished")
}
