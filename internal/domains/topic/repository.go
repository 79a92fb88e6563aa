package topic

import "context"

type TopicRepository interface {
	Create(ctx context.Context, t *Topic) (*Topic, error)
	List(ctx context.Context, limit, offset int) ([]Topic, int64, error)
	// Vote increments the counter in one statement and returns the new total.
	Vote(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
