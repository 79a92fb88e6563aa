package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client the notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier publishes pipeline creation events as asynq tasks.
type Notifier struct {
	client Enqueuer
}

func NewNotifier(client Enqueuer) *Notifier {
	return &Notifier{client: client}
}

// NewEntityCreatedTask builds the task for event; the payload is the
// event's JSON.
func NewEntityCreatedTask(event pipeline.Event) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", shared.TypeEntityCreated, err)
	}

	return asynq.NewTask(shared.TypeEntityCreated, payload,
		asynq.Queue(shared.QueueNotification),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}

func (n *Notifier) EntityCreated(ctx context.Context, event pipeline.Event) error {
	task, err := NewEntityCreatedTask(event)
	if err != nil {
		return err
	}

	if _, err := n.client.EnqueueContext(ctx, task, asynq.TaskID(uuid.NewString())); err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeEntityCreated, err)
	}
	return nil
}
