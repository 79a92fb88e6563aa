package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/document/model"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/pipeline"

	"github.com/jackc/pgx/v5"
)

type postgresDocumentRepository struct {
	db database.Querier
}

func NewPostgresDocumentRepository(db database.Querier) pipeline.Repository[*model.Document] {
	return &postgresDocumentRepository{db: db}
}

const documentColumns = `
	id, title, category, description,
	slug, COALESCE(file, ''), created_at, updated_at`

func scanDocument(row pgx.Row) (*model.Document, error) {
	d := &model.Document{}
	err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Category,
		&d.Description,
		&d.Slug,
		&d.File,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (r *postgresDocumentRepository) Create(ctx context.Context, d *model.Document) (int64, error) {
	query := `
		INSERT INTO documents (title, category, description, slug, file)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		d.Title,
		d.Category,
		d.Description,
		d.Slug,
		string(d.File),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to create document: %w", err)
	}

	return id, nil
}

func (r *postgresDocumentRepository) ReadOne(ctx context.Context, id int64) (*model.Document, bool, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	d, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get document: %w", err)
	}
	return d, true, nil
}

func (r *postgresDocumentRepository) ReadBySlug(ctx context.Context, slug string) (*model.Document, bool, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE slug = $1`

	d, err := scanDocument(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get document by slug: %w", err)
	}
	return d, true, nil
}

func (r *postgresDocumentRepository) List(ctx context.Context, params pipeline.ListParams) ([]*model.Document, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query := `SELECT ` + documentColumns + `
		FROM documents
		ORDER BY category ASC, title ASC, id ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := make([]*model.Document, 0, params.Limit)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}

	return documents, total, rows.Err()
}

func (r *postgresDocumentRepository) Update(ctx context.Context, id int64, d *model.Document) (int64, error) {
	query := `
		UPDATE documents
		SET title = $2,
			category = $3,
			description = $4,
			slug = $5,
			file = NULLIF($6, ''),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		id,
		d.Title,
		d.Category,
		d.Description,
		d.Slug,
		string(d.File),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, pipeline.ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to update document: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresDocumentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete document: %w", err)
	}
	return tag.RowsAffected(), nil
}
