package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/session/model"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/pipeline"

	"github.com/jackc/pgx/v5"
)

type postgresSessionRepository struct {
	db database.Querier
}

func NewPostgresSessionRepository(db database.Querier) pipeline.Repository[*model.Session] {
	return &postgresSessionRepository{db: db}
}

// date_held is a DATE column; it travels as YYYY-MM-DD text both ways.
const sessionColumns = `
	id, title, to_char(date_held, 'YYYY-MM-DD'), location, description,
	slug, COALESCE(image, ''), created_at, updated_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	s := &model.Session{}
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.DateHeld,
		&s.Location,
		&s.Description,
		&s.Slug,
		&s.Image,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *postgresSessionRepository) Create(ctx context.Context, s *model.Session) (int64, error) {
	query := `
		INSERT INTO sessions (title, date_held, location, description, slug, image)
		VALUES ($1, $2::date, $3, $4, $5, NULLIF($6, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		s.Title,
		s.DateHeld,
		s.Location,
		s.Description,
		s.Slug,
		string(s.Image),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

func (r *postgresSessionRepository) ReadOne(ctx context.Context, id int64) (*model.Session, bool, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get session: %w", err)
	}
	return s, true, nil
}

func (r *postgresSessionRepository) ReadBySlug(ctx context.Context, slug string) (*model.Session, bool, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE slug = $1`

	s, err := scanSession(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get session by slug: %w", err)
	}
	return s, true, nil
}

func (r *postgresSessionRepository) List(ctx context.Context, params pipeline.ListParams) ([]*model.Session, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `SELECT ` + sessionColumns + `
		FROM sessions
		ORDER BY date_held DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*model.Session, 0, params.Limit)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, total, rows.Err()
}

func (r *postgresSessionRepository) Update(ctx context.Context, id int64, s *model.Session) (int64, error) {
	query := `
		UPDATE sessions
		SET title = $2,
			date_held = $3::date,
			location = $4,
			description = $5,
			slug = $6,
			image = NULLIF($7, ''),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		s.Title,
		s.DateHeld,
		s.Location,
		s.Description,
		s.Slug,
		string(s.Image),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update session: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresSessionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	return tag.RowsAffected(), nil
}
