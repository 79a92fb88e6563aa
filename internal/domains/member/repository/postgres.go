package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/member/model"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/pipeline"

	"github.com/jackc/pgx/v5"
)

type postgresMemberRepository struct {
	db database.Querier
}

func NewPostgresMemberRepository(db database.Querier) pipeline.Repository[*model.Member] {
	return &postgresMemberRepository{db: db}
}

// Email is optional; it is stored as NULL so the unique index only covers
// members that have one.
const memberColumns = `
	id, firstname, lastname, role, bio, COALESCE(email, ''), verified,
	slug, COALESCE(image, ''), created_at, updated_at`

func scanMember(row pgx.Row) (*model.Member, error) {
	m := &model.Member{}
	err := row.Scan(
		&m.ID,
		&m.FirstName,
		&m.LastName,
		&m.Role,
		&m.Bio,
		&m.Email,
		&m.Verified,
		&m.Slug,
		&m.Image,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *postgresMemberRepository) Create(ctx context.Context, m *model.Member) (int64, error) {
	query := `
		INSERT INTO members (firstname, lastname, role, bio, email, verified, slug, image)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		m.FirstName,
		m.LastName,
		m.Role,
		m.Bio,
		m.Email,
		m.Verified,
		m.Slug,
		string(m.Image),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to create member: %w", err)
	}

	return id, nil
}

func (r *postgresMemberRepository) ReadOne(ctx context.Context, id int64) (*model.Member, bool, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get member: %w", err)
	}
	return m, true, nil
}

func (r *postgresMemberRepository) ReadBySlug(ctx context.Context, slug string) (*model.Member, bool, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE slug = $1`

	m, err := scanMember(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get member by slug: %w", err)
	}
	return m, true, nil
}

func (r *postgresMemberRepository) List(ctx context.Context, params pipeline.ListParams) ([]*model.Member, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := `SELECT ` + memberColumns + `
		FROM members
		ORDER BY lastname ASC, firstname ASC, id ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]*model.Member, 0, params.Limit)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, total, rows.Err()
}

func (r *postgresMemberRepository) Update(ctx context.Context, id int64, m *model.Member) (int64, error) {
	query := `
		UPDATE members
		SET firstname = $2,
			lastname = $3,
			role = $4,
			bio = $5,
			email = NULLIF($6, ''),
			verified = $7,
			slug = $8,
			image = NULLIF($9, ''),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		m.FirstName,
		m.LastName,
		m.Role,
		m.Bio,
		m.Email,
		m.Verified,
		m.Slug,
		string(m.Image),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update member: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresMemberRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete member: %w", err)
	}
	return tag.RowsAffected(), nil
}
