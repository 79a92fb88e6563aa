package model

import (
	"strings"
	"time"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var (
	MinRating  = decimal.Zero
	MaxRating  = decimal.NewFromInt(5)
	ratingStep = decimal.NewFromFloat(0.5)
)

// Review is a testimonial given by a referee, with a 0-5 rating in half
// steps.
type Review struct {
	ID          int64             `json:"id"`
	Rating      decimal.Decimal   `json:"rating"`
	RefereeName string            `json:"refereeName"`
	RefereeRole string            `json:"refereeRole"`
	Body        string            `json:"body"`
	Slug        *string           `json:"slug"`
	Image       pipeline.AssetRef `json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Review) Normalize() {
	r.RefereeName = strings.TrimSpace(r.RefereeName)
	r.RefereeRole = strings.TrimSpace(r.RefereeRole)
	r.Body = strings.TrimSpace(r.Body)
}

func (r *Review) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Rating, validation.By(validateRating)),
		validation.Field(&r.RefereeName, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.RefereeRole, validation.Length(0, 150)),
		validation.Field(&r.Body, validation.Required),
	)
}

func validateRating(value interface{}) error {
	rating, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_rating_type", "must be a decimal")
	}
	if rating.LessThan(MinRating) || rating.GreaterThan(MaxRating) {
		return validation.NewError("validation_rating_range", "must be between 0 and 5")
	}
	if !rating.Mod(ratingStep).IsZero() {
		return validation.NewError("validation_rating_step", "must be a multiple of 0.5")
	}
	return nil
}

func (r *Review) SetID(id int64)                 { r.ID = id }
func (r *Review) Asset() pipeline.AssetRef       { return r.Image }
func (r *Review) SetAsset(ref pipeline.AssetRef) { r.Image = ref }
func (r *Review) SetSlug(slug *string)           { r.Slug = slug }

// Derive: rating 4.5 by "Jo Bloggs" → "4-5-jo-bloggs".
func Derive(r *Review) pipeline.Derivation {
	rating := strings.ReplaceAll(r.Rating.String(), ".", "-")
	slug := utils.JoinSlug(rating, r.RefereeName)
	return pipeline.Derivation{Slug: slug, StorageKey: slug, Publish: true}
}

func NewDescriptor(repo pipeline.Repository[*Review]) pipeline.Descriptor[*Review] {
	return pipeline.Descriptor[*Review]{
		Kind:   pipeline.KindReview,
		Name:   "review",
		New:    func() *Review { return &Review{} },
		Derive: Derive,
		Repo:   repo,
	}
}
