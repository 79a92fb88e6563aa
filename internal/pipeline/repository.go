package pipeline

import "context"

// Repository performs the row statements for one entity kind.
//
// Create returns ErrDuplicateKey (wrapped or bare) on a unique violation.
// Update and Delete return the affected row count; zero is not an error
// here, the orchestrator decides what it means.
type Repository[T Entity] interface {
	Create(ctx context.Context, entity T) (int64, error)
	ReadOne(ctx context.Context, key int64) (T, bool, error)
	ReadBySlug(ctx context.Context, slug string) (T, bool, error)
	List(ctx context.Context, params ListParams) ([]T, int64, error)
	Update(ctx context.Context, key int64, entity T) (int64, error)
	Delete(ctx context.Context, key int64) (int64, error)
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams - limit/offset pagination
type ListParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize clamps the parameters to sane bounds.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
