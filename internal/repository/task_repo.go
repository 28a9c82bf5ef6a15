package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskdeck/internal/domain"
)

// TaskFilter describe los filtros opcionales del listado de tareas.
// Un campo vacío no filtra; Limit/Offset paginan el resultado.
type TaskFilter struct {
	Status     string
	CategoryID string
	AssigneeID string
	Limit      int
	Offset     int
}

// TaskRepository define el contrato de persistencia para tareas.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) error
	GetByID(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
}

// PgTaskRepository implementa TaskRepository usando pgxpool.
type PgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgTaskRepository(pool *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{pool: pool}
}

const taskColumns = "id, title, description, status, category_id, assignee_id, created_by, due_date, created_at, updated_at"

func (r *PgTaskRepository) Create(ctx context.Context, task domain.Task) error {
	const query = `
		INSERT INTO tasks (id, title, description, status, category_id, assignee_id, created_by, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		nullable(task.CategoryID),
		nullable(task.AssigneeID),
		task.CreatedBy,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

func (r *PgTaskRepository) GetByID(ctx context.Context, id string) (domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, err
	}
	return task, err
}

func (r *PgTaskRepository) List(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	where, args := buildTaskFilters(filter)
	query := fmt.Sprintf(
		`SELECT %s FROM tasks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *PgTaskRepository) Update(ctx context.Context, task domain.Task) error {
	const query = `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, category_id = $5,
		    assignee_id = $6, due_date = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		nullable(task.CategoryID),
		nullable(task.AssigneeID),
		task.DueDate,
		task.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgTaskRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM tasks WHERE id = $1
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

// buildTaskFilters compone la cláusula WHERE con placeholders posicionales
// solo para los filtros presentes, en orden fijo status/categoría/asignado.
func buildTaskFilters(filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, filter.AssigneeID)
		conditions = append(conditions, fmt.Sprintf("assignee_id = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var task domain.Task
	var categoryID, assigneeID *string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&categoryID,
		&assigneeID,
		&task.CreatedBy,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}
	if categoryID != nil {
		task.CategoryID = *categoryID
	}
	if assigneeID != nil {
		task.AssigneeID = *assigneeID
	}
	return task, nil
}

func nullable(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
