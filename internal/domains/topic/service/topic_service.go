package service

import (
	"context"
	"fmt"

	"cms-backend/internal/domains/topic"
	"cms-backend/internal/pipeline"
	"cms-backend/pkg/logger"
)

type topicServiceImpl struct {
	repository topic.TopicRepository
}

func NewTopicService(repo topic.TopicRepository) topic.TopicService {
	return &topicServiceImpl{repository: repo}
}

func (s *topicServiceImpl) Create(ctx context.Context, req *topic.CreateTopicReq) (*topic.Topic, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", topic.ErrValidation, err)
	}

	created, err := s.repository.Create(ctx, &topic.Topic{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	logger.Info("Topic created", map[string]interface{}{
		"topic_id": created.ID,
	})
	return created, nil
}

func (s *topicServiceImpl) List(ctx context.Context, limit, offset int) (*topic.ListResp, error) {
	params := pipeline.ListParams{Limit: limit, Offset: offset}.Normalize()

	topics, total, err := s.repository.List(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	return &topic.ListResp{Data: topics, Total: total}, nil
}

// Vote adds one vote. There is no per-voter deduplication.
func (s *topicServiceImpl) Vote(ctx context.Context, id int64) (int64, error) {
	votes, err := s.repository.Vote(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("vote topic %d: %w", id, err)
	}
	return votes, nil
}

func (s *topicServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete topic %d: %w", id, err)
	}

	logger.Info("Topic deleted", map[string]interface{}{
		"topic_id": id,
	})
	return nil
}
