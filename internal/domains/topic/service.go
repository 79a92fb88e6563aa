package topic

import "context"

type TopicService interface {
	Create(ctx context.Context, req *CreateTopicReq) (*Topic, error)
	List(ctx context.Context, limit, offset int) (*ListResp, error)
	Vote(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
