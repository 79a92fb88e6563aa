package model

import (
	"strings"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const DateLayout = "2006-01-02"

// Session is a held event (conference, hustings, debate night).
type Session struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	DateHeld    string            `json:"dateHeld"` // YYYY-MM-DD
	Location    string            `json:"location"`
	Description string            `json:"description"`
	Slug        *string           `json:"slug"`
	Image       pipeline.AssetRef `json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Session) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.DateHeld = strings.TrimSpace(s.DateHeld)
	s.Location = strings.TrimSpace(s.Location)
	s.Description = strings.TrimSpace(s.Description)
}

func (s *Session) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&s.DateHeld, validation.Required, validation.Date(DateLayout)),
		validation.Field(&s.Location, validation.Length(0, 200)),
	)
}

func (s *Session) SetID(id int64)                 { s.ID = id }
func (s *Session) Asset() pipeline.AssetRef       { return s.Image }
func (s *Session) SetAsset(ref pipeline.AssetRef) { s.Image = ref }
func (s *Session) SetSlug(slug *string)           { s.Slug = slug }

// Derive: "Manchester 2020" held 2020-03-01 → "manchester-2020-2020-03-01".
func Derive(s *Session) pipeline.Derivation {
	slug := utils.JoinSlug(s.Title, s.DateHeld)
	return pipeline.Derivation{Slug: slug, StorageKey: slug, Publish: true}
}

func NewDescriptor(repo pipeline.Repository[*Session]) pipeline.Descriptor[*Session] {
	return pipeline.Descriptor[*Session]{
		Kind:   pipeline.KindSession,
		Name:   "session",
		New:    func() *Session { return &Session{} },
		Derive: Derive,
		Repo:   repo,
	}
}
