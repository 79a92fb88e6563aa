package model

import (
	"strconv"
	"strings"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Article is an authored post. Only published articles resolve by slug.
type Article struct {
	ID       int64             `json:"id"`
	AuthorID int64             `json:"authorId"`
	Title    string            `json:"title"`
	Summary  string            `json:"summary"`
	Body     string            `json:"body"`
	Status   string            `json:"status"`
	Slug     *string           `json:"slug"`
	Image    pipeline.AssetRef `json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Summary = strings.TrimSpace(a.Summary)
	a.Status = strings.ToUpper(strings.TrimSpace(a.Status))
	if a.Status == "" {
		a.Status = StatusDraft
	}
}

func (a *Article) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AuthorID, validation.Required, validation.Min(int64(1))),
		validation.Field(&a.Title, validation.Required, validation.Length(1, 250)),
		validation.Field(&a.Summary, validation.Length(0, 500)),
		validation.Field(&a.Status, validation.In(StatusDraft, StatusPublished)),
	)
}

func (a *Article) IsPublished() bool { return strings.EqualFold(a.Status, StatusPublished) }

func (a *Article) SetID(id int64)                 { a.ID = id }
func (a *Article) Asset() pipeline.AssetRef       { return a.Image }
func (a *Article) SetAsset(ref pipeline.AssetRef) { a.Image = ref }
func (a *Article) SetSlug(slug *string)           { a.Slug = slug }

// Derive keys the asset by author so two authors can share a title.
func Derive(a *Article) pipeline.Derivation {
	slug := utils.GenerateSlug(a.Title)
	return pipeline.Derivation{
		Slug:       slug,
		StorageKey: utils.JoinSlug(strconv.FormatInt(a.AuthorID, 10), slug),
		Publish:    a.IsPublished(),
	}
}

func NewDescriptor(repo pipeline.Repository[*Article]) pipeline.Descriptor[*Article] {
	return pipeline.Descriptor[*Article]{
		Kind:   pipeline.KindArticle,
		Name:   "article",
		New:    func() *Article { return &Article{} },
		Derive: Derive,
		Repo:   repo,
	}
}
