package repository

import (
	"context"
	"errors"
	"fmt"

	"cms-backend/internal/domains/topic"
	"cms-backend/internal/infrastructure/database"

	"github.com/jackc/pgx/v5"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) topic.TopicRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, t *topic.Topic) (*topic.Topic, error) {
	const query = `
		INSERT INTO topics (title, description)
		VALUES ($1, $2)
		RETURNING id, title, description, votes, created_at
	`

	created := &topic.Topic{}
	err := r.db.QueryRow(ctx, query, t.Title, t.Description).Scan(
		&created.ID,
		&created.Title,
		&created.Description,
		&created.Votes,
		&created.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, topic.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]topic.Topic, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM topics`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count topics: %w", err)
	}

	const query = `
		SELECT id, title, description, votes, created_at
		FROM topics
		ORDER BY votes DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]topic.Topic, 0, limit)
	for rows.Next() {
		var t topic.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Votes, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}

	return topics, total, rows.Err()
}

func (r *postgresRepository) Vote(ctx context.Context, id int64) (int64, error) {
	var votes int64
	err := r.db.QueryRow(ctx,
		`UPDATE topics SET votes = votes + 1 WHERE id = $1 RETURNING votes`, id,
	).Scan(&votes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, topic.ErrTopicNotFound
		}
		return 0, fmt.Errorf("failed to vote on topic: %w", err)
	}
	return votes, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return topic.ErrTopicNotFound
	}
	return nil
}
