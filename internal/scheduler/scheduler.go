// Package scheduler runs the automatic daily report export.
package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a UTC cron that triggers report generation.
type Scheduler struct {
	cron *cron.Cron
}

// New creates an idle scheduler.
func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(time.UTC))}
}

// Start registers the report job under the given cron spec and starts the
// clock. Job failures are logged, never fatal.
func (s *Scheduler) Start(spec string, job func() error) error {
	if _, err := s.cron.AddFunc(spec, func() {
		log.Printf("[scheduler] daily report export triggered")
		if err := job(); err != nil {
			log.Printf("[scheduler] daily report export failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[scheduler] started, daily report export at %q", spec)
	return nil
}

// Stop halts the cron and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("[scheduler] stopped")
}
