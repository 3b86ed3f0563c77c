package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler runs recurring tasks (campaign dispatch, job cleanup) on cron
// expressions.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID // task name -> entry id
	jobsMux sync.RWMutex
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log.Println("⏰ Starting scheduler...")
	s.cron.Start()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Println("⏰ Stopping scheduler...")
	s.cron.Stop()
}

// AddTask registers a named task on a cron schedule, replacing any task
// already registered under the same name.
func (s *Scheduler) AddTask(name string, schedule string, task func()) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, task)
	if err != nil {
		return fmt.Errorf("failed to add cron task: %w", err)
	}

	s.jobs[name] = entryID
	log.Printf("   ✅ Scheduled task %s: %s", name, schedule)

	return nil
}

// RemoveTask removes a scheduled task by name
func (s *Scheduler) RemoveTask(name string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		log.Printf("   ✅ Removed scheduled task: %s", name)
	}
}

// TaskNames returns all currently scheduled task names
func (s *Scheduler) TaskNames() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
