package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskdeck/internal/domain"
)

// CommentRepository define el contrato de persistencia para comentarios.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	ListByTaskID(ctx context.Context, taskID string) ([]domain.Comment, error)
}

// PgCommentRepository implementa CommentRepository usando pgxpool.
type PgCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

func (r *PgCommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	const query = `
		INSERT INTO comments (id, task_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	)
	return err
}

func (r *PgCommentRepository) ListByTaskID(ctx context.Context, taskID string) ([]domain.Comment, error) {
	const query = `
		SELECT id, task_id, author_id, body, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
