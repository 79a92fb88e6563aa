package model

import (
	"strings"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document is a downloadable file (manifesto, minutes, report) filed
// under a category. Its asset lives in File rather than Image.
type Document struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Slug        *string           `json:"slug"`
	File        pipeline.AssetRef `json:"file"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Document) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
}

func (d *Document) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Title, validation.Required, validation.Length(1, 250)),
		validation.Field(&d.Category, validation.Required, validation.Length(1, 100)),
	)
}

func (d *Document) SetID(id int64)                 { d.ID = id }
func (d *Document) Asset() pipeline.AssetRef       { return d.File }
func (d *Document) SetAsset(ref pipeline.AssetRef) { d.File = ref }
func (d *Document) SetSlug(slug *string)           { d.Slug = slug }

func Derive(d *Document) pipeline.Derivation {
	slug := utils.JoinSlug(d.Category, d.Title)
	return pipeline.Derivation{Slug: slug, StorageKey: slug, Publish: true}
}

func NewDescriptor(repo pipeline.Repository[*Document]) pipeline.Descriptor[*Document] {
	return pipeline.Descriptor[*Document]{
		Kind:   pipeline.KindDocument,
		Name:   "document",
		New:    func() *Document { return &Document{} },
		Derive: Derive,
		Repo:   repo,
	}
}
