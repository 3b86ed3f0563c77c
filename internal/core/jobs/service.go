package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service provides high-level job queue functionality
type Service struct {
	queue      *Queue
	workerPool *WorkerPool
}

// NewService creates a new job service
func NewService(db *gorm.DB) *Service {
	return &Service{
		queue:      NewQueue(db),
		workerPool: NewWorkerPool(),
	}
}

// Enqueue adds a new job to the queue
func (s *Service) Enqueue(ctx context.Context, tenantID uuid.UUID, jobType string, payload interface{}, opts ...EnqueueOptions) (*Job, error) {
	options := DefaultEnqueueOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	return s.queue.Enqueue(ctx, tenantID, jobType, payload, options)
}

// EnqueueAt adds a scheduled job to the queue
func (s *Service) EnqueueAt(ctx context.Context, tenantID uuid.UUID, jobType string, payload interface{}, scheduleAt time.Time, opts ...EnqueueOptions) (*Job, error) {
	options := DefaultEnqueueOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	options.ScheduleAt = &scheduleAt

	return s.queue.Enqueue(ctx, tenantID, jobType, payload, options)
}

// EnqueueIncomingMessage queues an inbound WhatsApp message for processing.
// High priority so replies stay snappy even when broadcasts are running.
func (s *Service) EnqueueIncomingMessage(ctx context.Context, tenantID uuid.UUID, payload interface{}) (*Job, error) {
	return s.Enqueue(ctx, tenantID, TypeIncomingMessage, payload, EnqueueOptions{
		Queue:    "messages",
		Priority: PriorityHigh,
	})
}

// EnqueueBroadcast queues an owner-triggered broadcast to customers.
func (s *Service) EnqueueBroadcast(ctx context.Context, tenantID uuid.UUID, payload interface{}) (*Job, error) {
	return s.Enqueue(ctx, tenantID, TypeBroadcast, payload, EnqueueOptions{
		Queue:      "messages",
		Priority:   PriorityNormal,
		MaxRetries: 1,
	})
}

// EnqueueCampaignSend queues a scheduled campaign delivery.
func (s *Service) EnqueueCampaignSend(ctx context.Context, tenantID uuid.UUID, payload interface{}, scheduleAt time.Time) (*Job, error) {
	return s.EnqueueAt(ctx, tenantID, TypeCampaignSend, payload, scheduleAt, EnqueueOptions{
		Queue:      "messages",
		Priority:   PriorityNormal,
		MaxRetries: 1,
	})
}

// Cancel cancels a pending job
func (s *Service) Cancel(ctx context.Context, jobID uuid.UUID) error {
	return s.queue.Cancel(ctx, jobID)
}

// GetJob retrieves a job by ID
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	return s.queue.GetJob(ctx, jobID)
}

// ListJobs lists jobs with filters
func (s *Service) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	return s.queue.ListJobs(ctx, filter)
}

// GetStats retrieves job statistics
func (s *Service) GetStats(ctx context.Context, tenantID *uuid.UUID) (*JobStats, error) {
	return s.queue.GetStats(ctx, tenantID)
}

// RegisterWorker creates and registers a worker for a queue
func (s *Service) RegisterWorker(config WorkerConfig, handlers ...JobHandler) *Worker {
	worker := NewWorker(s.queue, config)

	for _, handler := range handlers {
		worker.RegisterHandler(handler)
	}

	s.workerPool.AddWorker(worker)
	return worker
}

// StartWorkers starts all registered workers
func (s *Service) StartWorkers(ctx context.Context) error {
	return s.workerPool.Start(ctx)
}

// StopWorkers stops all workers
func (s *Service) StopWorkers() {
	s.workerPool.Stop()
}

// Cleanup deletes old completed/failed jobs
func (s *Service) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queue.DeleteOldJobs(ctx, olderThan)
}
