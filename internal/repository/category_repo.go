package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskdeck/internal/domain"
)

// CategoryRepository define el contrato de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	GetByID(ctx context.Context, id string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// PgCategoryRepository implementa CategoryRepository usando pgxpool.
type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

func (r *PgCategoryRepository) Create(ctx context.Context, category domain.Category) error {
	const query = `
		INSERT INTO categories (id, name, created_by, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.CreatedBy,
		category.CreatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *PgCategoryRepository) GetByID(ctx context.Context, id string) (domain.Category, error) {
	const query = `
		SELECT id, name, created_by, created_at
		FROM categories
		WHERE id = $1
	`
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.CreatedBy,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, err
	}
	return c, err
}

func (r *PgCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `
		SELECT id, name, created_by, created_at
		FROM categories
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PgCategoryRepository) Rename(ctx context.Context, id, name string) error {
	const query = `
		UPDATE categories SET name = $2 WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, name)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM categories WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
