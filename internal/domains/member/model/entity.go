package model

import (
	"strings"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Member is a team member profile. Profiles are only linkable by slug
// once the member is verified.
type Member struct {
	ID        int64             `json:"id"`
	FirstName string            `json:"firstname"`
	LastName  string            `json:"lastname"`
	Role      string            `json:"role"`
	Bio       string            `json:"bio"`
	Email     string            `json:"email"`
	Verified  bool              `json:"verified"`
	Slug      *string           `json:"slug"`
	Image     pipeline.AssetRef `json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Member) Normalize() {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Role = strings.TrimSpace(m.Role)
	m.Bio = strings.TrimSpace(m.Bio)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
}

func (m *Member) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&m.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&m.Role, validation.Length(0, 100)),
		validation.Field(&m.Email, is.EmailFormat),
	)
}

func (m *Member) SetID(id int64)                 { m.ID = id }
func (m *Member) Asset() pipeline.AssetRef       { return m.Image }
func (m *Member) SetAsset(ref pipeline.AssetRef) { m.Image = ref }
func (m *Member) SetSlug(slug *string)           { m.Slug = slug }

func Derive(m *Member) pipeline.Derivation {
	slug := utils.JoinSlug(m.FirstName, m.LastName)
	return pipeline.Derivation{Slug: slug, StorageKey: slug, Publish: m.Verified}
}

func NewDescriptor(repo pipeline.Repository[*Member]) pipeline.Descriptor[*Member] {
	return pipeline.Descriptor[*Member]{
		Kind:   pipeline.KindMember,
		Name:   "member",
		New:    func() *Member { return &Member{} },
		Derive: Derive,
		Repo:   repo,
	}
}
