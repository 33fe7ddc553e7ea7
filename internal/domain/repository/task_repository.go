package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"taskzone/internal/common"
	"taskzone/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

// TaskRepository stores tasks. Every lookup and mutation is scoped by owner.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByIDAndOwner(ctx context.Context, id, userID int64) (*model.Task, error)
	List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id, userID int64) error
}

const taskColumns = `id, title, description, state, user_id, created_at, updated_at`

type pgTaskRepository struct {
	db *sqlx.DB
}

func NewPgTaskRepository(db *sqlx.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (title, description, state, user_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING ` + taskColumns
	if err := r.db.GetContext(ctx, task, query, task.Title, task.Description, task.State, task.UserID); err != nil {
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) FindByIDAndOwner(ctx context.Context, id, userID int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	task := &model.Task{}
	if err := r.db.GetContext(ctx, task, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByIDAndOwner: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]model.Task, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)

	args := []interface{}{userID}
	argID := 2

	if filter.Title != "" {
		query.WriteString(fmt.Sprintf(" AND strpos(title, $%d) > 0", argID))
		args = append(args, filter.Title)
		argID++
	}
	if filter.Description != "" {
		query.WriteString(fmt.Sprintf(" AND strpos(description, $%d) > 0", argID))
		args = append(args, filter.Description)
		argID++
	}
	if filter.State != "" {
		query.WriteString(fmt.Sprintf(" AND state = $%d", argID))
		args = append(args, filter.State)
		argID++
	}

	query.WriteString(" ORDER BY id")

	if filter.Limit != nil {
		query.WriteString(fmt.Sprintf(" LIMIT $%d", argID))
		args = append(args, *filter.Limit)
		argID++
	}
	if filter.Offset != nil {
		query.WriteString(fmt.Sprintf(" OFFSET $%d", argID))
		args = append(args, *filter.Offset)
	}

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query.String(), args...); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.List: %w", err)
	}
	return tasks, nil
}

func (r *pgTaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks SET title = $1, description = $2, state = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4 AND user_id = $5
	          RETURNING ` + taskColumns
	err := r.db.GetContext(ctx, task, query, task.Title, task.Description, task.State, task.ID, task.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
