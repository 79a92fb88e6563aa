package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/review/model"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/pipeline"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type postgresReviewRepository struct {
	db database.Querier
}

func NewPostgresReviewRepository(db database.Querier) pipeline.Repository[*model.Review] {
	return &postgresReviewRepository{db: db}
}

// rating is NUMERIC(2,1); it crosses the wire as text so decimal keeps
// its exact value.
const reviewColumns = `
	id, rating::text, referee_name, referee_role, body,
	slug, COALESCE(image, ''), created_at, updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	r := &model.Review{}
	var rating string
	err := row.Scan(
		&r.ID,
		&rating,
		&r.RefereeName,
		&r.RefereeRole,
		&r.Body,
		&r.Slug,
		&r.Image,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Rating, err = decimal.NewFromString(rating)
	if err != nil {
		return nil, fmt.Errorf("invalid stored rating %q: %w", rating, err)
	}
	return r, nil
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) (int64, error) {
	query := `
		INSERT INTO reviews (rating, referee_name, referee_role, body, slug, image)
		VALUES ($1::numeric, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		review.Rating.String(),
		review.RefereeName,
		review.RefereeRole,
		review.Body,
		review.Slug,
		string(review.Image),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to create review: %w", err)
	}

	return id, nil
}

func (r *postgresReviewRepository) ReadOne(ctx context.Context, id int64) (*model.Review, bool, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get review: %w", err)
	}
	return review, true, nil
}

func (r *postgresReviewRepository) ReadBySlug(ctx context.Context, slug string) (*model.Review, bool, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE slug = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get review by slug: %w", err)
	}
	return review, true, nil
}

func (r *postgresReviewRepository) List(ctx context.Context, params pipeline.ListParams) ([]*model.Review, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0, params.Limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

func (r *postgresReviewRepository) Update(ctx context.Context, id int64, review *model.Review) (int64, error) {
	query := `
		UPDATE reviews
		SET rating = $2::numeric,
			referee_name = $3,
			referee_role = $4,
			body = $5,
			slug = $6,
			image = NULLIF($7, ''),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		review.Rating.String(),
		review.RefereeName,
		review.RefereeRole,
		review.Body,
		review.Slug,
		string(review.Image),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update review: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete review: %w", err)
	}
	return tag.RowsAffected(), nil
}
