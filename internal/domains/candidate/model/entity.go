package model

import (
	"strconv"
	"strings"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Candidate is a standing candidate with a tribute. The id is assigned by
// the caller and is unique across candidates.
type Candidate struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Constituency string            `json:"constituency"`
	Party        string            `json:"party"`
	Tribute      string            `json:"tribute"`
	Slug         *string           `json:"slug"`
	Image        pipeline.AssetRef `json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Candidate) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Constituency = strings.TrimSpace(c.Constituency)
	c.Party = strings.TrimSpace(c.Party)
	c.Tribute = strings.TrimSpace(c.Tribute)
}

func (c *Candidate) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Min(int64(0))),
		validation.Field(&c.Name, validation.Required, validation.Length(1, 150)),
		validation.Field(&c.Constituency, validation.Length(0, 150)),
		validation.Field(&c.Party, validation.Length(0, 100)),
	)
}

func (c *Candidate) SetID(id int64)                 { c.ID = id }
func (c *Candidate) Asset() pipeline.AssetRef       { return c.Image }
func (c *Candidate) SetAsset(ref pipeline.AssetRef) { c.Image = ref }
func (c *Candidate) SetSlug(slug *string)           { c.Slug = slug }

// Derive prefixes the slugged name with the id so namesakes do not collide.
func Derive(c *Candidate) pipeline.Derivation {
	slug := utils.JoinSlug(strconv.FormatInt(c.ID, 10), c.Name)
	return pipeline.Derivation{Slug: slug, StorageKey: slug, Publish: true}
}

func NewDescriptor(repo pipeline.Repository[*Candidate]) pipeline.Descriptor[*Candidate] {
	return pipeline.Descriptor[*Candidate]{
		Kind:   pipeline.KindCandidate,
		Name:   "candidate",
		New:    func() *Candidate { return &Candidate{} },
		Derive: Derive,
		Repo:   repo,
	}
}
