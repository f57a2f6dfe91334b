package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/share2teach-api/pkg/jobs"
	"github.com/noah-isme/share2teach-api/pkg/objectstore"
)

// JobDeleteObject is the job type for retried deletes of stored objects.
const JobDeleteObject = "delete_object"

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// OrphanCleaner removes stored objects whose metadata was never committed. A delete that
// fails inline is handed to the retry queue.
type OrphanCleaner struct {
	store   objectstore.Store
	queue   jobEnqueuer
	metrics *MetricsService
	logger  *zap.Logger
	timeout time.Duration
}

// NewOrphanCleaner constructs an OrphanCleaner. Attach a queue with UseQueue to enable retries.
func NewOrphanCleaner(store objectstore.Store, metrics *MetricsService, logger *zap.Logger) *OrphanCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrphanCleaner{store: store, metrics: metrics, logger: logger, timeout: 30 * time.Second}
}

// UseQueue sets the queue that receives failed deletes.
func (c *OrphanCleaner) UseQueue(queue jobEnqueuer) {
	c.queue = queue
}

// Remove deletes url, detached from the caller's cancellation.
func (c *OrphanCleaner) Remove(ctx context.Context, url string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	err := c.delete(ctx, url)
	if err == nil {
		c.metrics.RecordCompensation("deleted")
		return
	}
	c.logger.Warn("compensating delete failed", zap.String("url", url), zap.Error(err))

	if c.queue == nil {
		c.metrics.RecordCompensation("dropped")
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobDeleteObject, Payload: url}
	if qerr := c.queue.Enqueue(job); qerr != nil {
		c.metrics.RecordCompensation("dropped")
		c.logger.Error("orphaned object left in store", zap.String("url", url), zap.Error(qerr))
		return
	}
	c.metrics.RecordCompensation("queued")
}

// Handle is the retry queue handler for JobDeleteObject jobs.
func (c *OrphanCleaner) Handle(ctx context.Context, job jobs.Job) error {
	url, ok := job.Payload.(string)
	if job.Type != JobDeleteObject || !ok {
		c.logger.Error("unexpected job", zap.String("type", job.Type))
		return nil
	}
	if err := c.delete(ctx, url); err != nil {
		return err
	}
	c.metrics.RecordCompensation("deleted")
	c.logger.Info("orphaned object removed", zap.String("url", url), zap.Int("attempt", job.Attempt))
	return nil
}

func (c *OrphanCleaner) delete(ctx context.Context, url string) error {
	start := time.Now()
	err := c.store.Delete(ctx, url)
	c.metrics.ObserveStorage("delete", err, time.Since(start))
	if errors.Is(err, objectstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", url, err)
	}
	return nil
}
