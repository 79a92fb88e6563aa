package pipeline

import "context"

// Event announces a newly created entity.
type Event struct {
	Kind Kind    `json:"kind"`
	ID   int64   `json:"id"`
	Slug *string `json:"slug,omitempty"`
}

// Notifier fans creation events out to downstream consumers.
type Notifier interface {
	EntityCreated(ctx context.Context, event Event) error
}

type nopNotifier struct{}

func (nopNotifier) EntityCreated(context.Context, Event) error { return nil }
