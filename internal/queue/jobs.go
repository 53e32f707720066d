package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// CleanupBlobsTask removes document objects that no longer have matching
	// rows: staged uploads whose submission transaction failed, and blobs left
	// behind when a customer deletes an application.
	CleanupBlobsTask = "blob:cleanup"
)

// CleanupPayload lists the object keys the worker should remove.
type CleanupPayload struct {
	ObjectKeys []string `json:"object_keys"`
}

// Client wraps the asynq client so workflow code depends on a small surface.
type Client struct {
	inner *asynq.Client
}

// NewClient constructs a Client.
func NewClient(inner *asynq.Client) *Client {
	return &Client{inner: inner}
}

// EnqueueCleanup schedules removal of the given object keys.
func (c *Client) EnqueueCleanup(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	data, err := json.Marshal(CleanupPayload{ObjectKeys: keys})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(CleanupBlobsTask, data)
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue cleanup task: %w", err)
	}
	return nil
}
