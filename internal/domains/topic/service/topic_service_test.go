package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"cms-backend/internal/domains/topic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu     sync.Mutex
	topics map[int64]*topic.Topic
	nextID int64

	lastLimit, lastOffset int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{topics: make(map[int64]*topic.Topic), nextID: 1}
}

func (r *memoryRepo) Create(_ context.Context, t *topic.Topic) (*topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.topics {
		if existing.Title == t.Title {
			return nil, topic.ErrDuplicateTitle
		}
	}
	created := *t
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	r.nextID++
	r.topics[created.ID] = &created
	return &created, nil
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]topic.Topic, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit, r.lastOffset = limit, offset
	out := []topic.Topic{}
	for _, t := range r.topics {
		out = append(out, *t)
	}
	return out, int64(len(r.topics)), nil
}

func (r *memoryRepo) Vote(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.topics[id]
	if !ok {
		return 0, topic.ErrTopicNotFound
	}
	t.Votes++
	return t.Votes, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[id]; !ok {
		return topic.ErrTopicNotFound
	}
	delete(r.topics, id)
	return nil
}

func TestCreate(t *testing.T) {
	svc := NewTopicService(newMemoryRepo())

	created, err := svc.Create(context.Background(), &topic.CreateTopicReq{Title: "  Lower the voting age  "})
	require.NoError(t, err)
	assert.Equal(t, "Lower the voting age", created.Title)

	_, err = svc.Create(context.Background(), &topic.CreateTopicReq{Title: "Lower the voting age"})
	assert.ErrorIs(t, err, topic.ErrDuplicateTitle)

	_, err = svc.Create(context.Background(), &topic.CreateTopicReq{Title: "no"})
	assert.ErrorIs(t, err, topic.ErrValidation)
}

func TestVote_ConcurrentVotesAllCount(t *testing.T) {
	svc := NewTopicService(newMemoryRepo())
	created, err := svc.Create(context.Background(), &topic.CreateTopicReq{Title: "Four day week"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Vote(context.Background(), created.ID)
		}()
	}
	wg.Wait()

	votes, err := svc.Vote(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(51), votes)

	_, err = svc.Vote(context.Background(), 999)
	assert.ErrorIs(t, err, topic.ErrTopicNotFound)
}

func TestList_ClampsPagination(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewTopicService(repo)

	_, err := svc.List(context.Background(), 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	_, err = svc.List(context.Background(), 1000, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastLimit)
	assert.Equal(t, 5, repo.lastOffset)
}

func TestDelete(t *testing.T) {
	svc := NewTopicService(newMemoryRepo())
	created, err := svc.Create(context.Background(), &topic.CreateTopicReq{Title: "Abolish homework"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), topic.ErrTopicNotFound)
}
