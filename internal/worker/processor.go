// Package worker runs the asynq handlers behind the portal.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/digitalseva/portal/internal/queue"
)

// ObjectRemover is the slice of the blob store the worker needs.
type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	store ObjectRemover
	log   zerolog.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(store ObjectRemover, log zerolog.Logger) *Processor {
	return &Processor{store: store, log: log}
}

// Handler registers the cleanup job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.CleanupBlobsTask, p.handleCleanup)
	return mux
}

func (p *Processor) handleCleanup(ctx context.Context, task *asynq.Task) error {
	var payload queue.CleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	var failed int
	for _, key := range payload.ObjectKeys {
		if err := p.store.Remove(ctx, key); err != nil {
			p.log.Error().Err(err).Str("key", key).Msg("remove object")
			failed++
			continue
		}
		p.log.Info().Str("key", key).Msg("removed orphaned object")
	}
	if failed > 0 {
		return fmt.Errorf("cleanup left %d of %d objects behind", failed, len(payload.ObjectKeys))
	}
	return nil
}
