// AngelaMos | 2026
// repository.go

package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/metrics"
)

// ErrLeadNotFound is returned when a task references a lead that does not
// exist.
var ErrLeadNotFound = fmt.Errorf("lead: %w", core.ErrNotFound)

type Repository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Toggle(ctx context.Context, id string) (*Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db      core.DBTX
	metrics *metrics.Metrics
}

func NewRepository(db core.DBTX, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

const taskColumns = `id, employee_id, description, completed, priority,
	due_date, lead_id, lead_name, company, created_at, updated_at`

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks
		WHERE employee_id = $1
		ORDER BY due_date ASC,
			CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC,
			id ASC`

	tasks := []Task{}
	err := r.metrics.ObserveDB("task.list", func() error {
		return r.db.SelectContext(ctx, &tasks, q, employeeID)
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Task, error) {
	var task Task

	err := r.metrics.ObserveDB("task.get", func() error {
		return r.db.GetContext(ctx, &task,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &task, nil
}

func (r *repository) Create(ctx context.Context, task *Task) error {
	q := `
		INSERT INTO tasks (id, employee_id, description, completed, priority,
			due_date, lead_id, lead_name, company)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.metrics.ObserveDB("task.create", func() error {
		return r.db.QueryRowxContext(ctx, q,
			task.ID,
			task.EmployeeID,
			task.Description,
			task.Completed,
			task.Priority,
			task.DueDate,
			task.LeadID,
			task.LeadName,
			task.Company,
		).Scan(&task.CreatedAt, &task.UpdatedAt)
	})
	if err != nil {
		return writeError("create task", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, task *Task) error {
	q := `
		UPDATE tasks
		SET description = $2, completed = $3, priority = $4, due_date = $5,
		    lead_id = $6, lead_name = $7, company = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.metrics.ObserveDB("task.update", func() error {
		return r.db.GetContext(ctx, &task.UpdatedAt, q,
			task.ID,
			task.Description,
			task.Completed,
			task.Priority,
			task.DueDate,
			task.LeadID,
			task.LeadName,
			task.Company,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update task: %w", core.ErrNotFound)
	}
	if err != nil {
		return writeError("update task", err)
	}

	return nil
}

func (r *repository) Toggle(ctx context.Context, id string) (*Task, error) {
	q := `
		UPDATE tasks
		SET completed = NOT completed, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns

	var task Task
	err := r.metrics.ObserveDB("task.toggle", func() error {
		return r.db.GetContext(ctx, &task, q, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("toggle task: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}

	return &task, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	var result sql.Result
	err := r.metrics.ObserveDB("task.delete", func() error {
		var err error
		result, err = r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete task: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func writeError(op string, err error) error {
	if core.IsForeignKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrLeadNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
