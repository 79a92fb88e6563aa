package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/candidate/model"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/pipeline"

	"github.com/jackc/pgx/v5"
)

type postgresCandidateRepository struct {
	db database.Querier
}

func NewPostgresCandidateRepository(db database.Querier) pipeline.Repository[*model.Candidate] {
	return &postgresCandidateRepository{db: db}
}

const candidateColumns = `
	id, name, constituency, party, tribute,
	slug, COALESCE(image, ''), created_at, updated_at`

func scanCandidate(row pgx.Row) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Constituency,
		&c.Party,
		&c.Tribute,
		&c.Slug,
		&c.Image,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// Create inserts with the caller's id; the primary key enforces uniqueness.
func (r *postgresCandidateRepository) Create(ctx context.Context, c *model.Candidate) (int64, error) {
	query := `
		INSERT INTO candidates (id, name, constituency, party, tribute, slug, image)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		c.ID,
		c.Name,
		c.Constituency,
		c.Party,
		c.Tribute,
		c.Slug,
		string(c.Image),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("candidate %d: %w", c.ID, pipeline.ErrDuplicateKey)
		}
		return 0, fmt.Errorf("failed to create candidate: %w", err)
	}

	return id, nil
}

func (r *postgresCandidateRepository) ReadOne(ctx context.Context, id int64) (*model.Candidate, bool, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	c, err := scanCandidate(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, true, nil
}

func (r *postgresCandidateRepository) ReadBySlug(ctx context.Context, slug string) (*model.Candidate, bool, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE slug = $1`

	c, err := scanCandidate(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get candidate by slug: %w", err)
	}
	return c, true, nil
}

func (r *postgresCandidateRepository) List(ctx context.Context, params pipeline.ListParams) ([]*model.Candidate, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	query := `SELECT ` + candidateColumns + `
		FROM candidates
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]*model.Candidate, 0, params.Limit)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	return candidates, total, rows.Err()
}

// Update never moves the primary key; the id in the body is ignored.
func (r *postgresCandidateRepository) Update(ctx context.Context, id int64, c *model.Candidate) (int64, error) {
	query := `
		UPDATE candidates
		SET name = $2,
			constituency = $3,
			party = $4,
			tribute = $5,
			slug = $6,
			image = NULLIF($7, ''),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		c.Name,
		c.Constituency,
		c.Party,
		c.Tribute,
		c.Slug,
		string(c.Image),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update candidate: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresCandidateRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete candidate: %w", err)
	}
	return tag.RowsAffected(), nil
}
