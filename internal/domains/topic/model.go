package topic

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Topic is a debate topic visitors can vote up. Topics carry no asset and
// do not go through the persistence pipeline.
type Topic struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Votes       int64     `json:"votes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateTopicReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *CreateTopicReq) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateTopicReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

type ListResp struct {
	Data  []Topic `json:"data"`
	Total int64   `json:"total"`
}
