package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// OrphanLabelsCleaner deletes labels no book refers to.
type OrphanLabelsCleaner interface {
	DeleteOrphanLabels() (int64, error)
}

// CleanupOrphanLabelsTask removes labels that are not attached to any book.
type CleanupOrphanLabelsTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphanLabelsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_labels",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanLabelsProcessor runs a CleanupOrphanLabelsTask.
func CleanupOrphanLabelsProcessor(cleaner OrphanLabelsCleaner) backlite.QueueProcessor[CleanupOrphanLabelsTask] {
	return func(ctx context.Context, task CleanupOrphanLabelsTask) error {
		if cleaner == nil {
			return errors.New("orphan labels cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanLabels()
		if err != nil {
			return fmt.Errorf("cleanup orphan labels: %w", err)
		}

		log.Info().Int64("deleted", deleted).Msg("Cleaned up orphan labels")
		return nil
	}
}

// NewCleanupOrphanLabelsQueue creates the backlite queue for label cleanup.
func NewCleanupOrphanLabelsQueue(cleaner OrphanLabelsCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanLabelsProcessor(cleaner))
}

// EnqueueLabelCleanup schedules a cleanup run and returns the task ID.
func (c *Client) EnqueueLabelCleanup() (string, error) {
	ids, err := c.Add(CleanupOrphanLabelsTask{}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue label cleanup: %w", err)
	}
	return ids[0], nil
}
