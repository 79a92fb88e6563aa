package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/article/model"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/pipeline"

	"github.com/jackc/pgx/v5"
)

type postgresArticleRepository struct {
	db database.Querier
}

func NewPostgresArticleRepository(db database.Querier) pipeline.Repository[*model.Article] {
	return &postgresArticleRepository{db: db}
}

const articleColumns = `
	id, author_id, title, summary, body, status,
	slug, COALESCE(image, ''), created_at, updated_at`

func scanArticle(row pgx.Row) (*model.Article, error) {
	a := &model.Article{}
	err := row.Scan(
		&a.ID,
		&a.AuthorID,
		&a.Title,
		&a.Summary,
		&a.Body,
		&a.Status,
		&a.Slug,
		&a.Image,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *postgresArticleRepository) Create(ctx context.Context, a *model.Article) (int64, error) {
	query := `
		INSERT INTO articles (author_id, title, summary, body, status, slug, image)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		a.AuthorID,
		a.Title,
		a.Summary,
		a.Body,
		a.Status,
		a.Slug,
		string(a.Image),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to create article: %w", err)
	}

	return id, nil
}

func (r *postgresArticleRepository) ReadOne(ctx context.Context, id int64) (*model.Article, bool, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get article: %w", err)
	}
	return a, true, nil
}

func (r *postgresArticleRepository) ReadBySlug(ctx context.Context, slug string) (*model.Article, bool, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`

	a, err := scanArticle(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get article by slug: %w", err)
	}
	return a, true, nil
}

func (r *postgresArticleRepository) List(ctx context.Context, params pipeline.ListParams) ([]*model.Article, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query := `SELECT ` + articleColumns + `
		FROM articles
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*model.Article, 0, params.Limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	return articles, total, rows.Err()
}

func (r *postgresArticleRepository) Update(ctx context.Context, id int64, a *model.Article) (int64, error) {
	query := `
		UPDATE articles
		SET author_id = $2,
			title = $3,
			summary = $4,
			body = $5,
			status = $6,
			slug = $7,
			image = NULLIF($8, ''),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		a.AuthorID,
		a.Title,
		a.Summary,
		a.Body,
		a.Status,
		a.Slug,
		string(a.Image),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update article: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresArticleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete article: %w", err)
	}
	return tag.RowsAffected(), nil
}
