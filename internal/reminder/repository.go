// AngelaMos | 2026
// repository.go

package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/metrics"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Reminder, error)
	GetByID(ctx context.Context, id string) (*Reminder, error)
	Create(ctx context.Context, reminder *Reminder) error
	Update(ctx context.Context, reminder *Reminder) error
	Toggle(ctx context.Context, id string) (*Reminder, error)
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

const reminderColumns = `id, user_id, type, title, date, client, notes,
	completed, created_at, updated_at`

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	q := `SELECT ` + reminderColumns + ` FROM reminders
		WHERE user_id = $1 ORDER BY date ASC, id ASC`

	reminders := []Reminder{}
	err := r.metrics.ObserveDB("reminder.list", func() error {
		return r.db.SelectContext(ctx, &reminders, q, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	return reminders, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Reminder, error) {
	var reminder Reminder

	err := r.metrics.ObserveDB("reminder.get", func() error {
		return r.db.GetContext(ctx, &reminder,
			`SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reminder: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}

	return &reminder, nil
}

func (r *repository) Create(ctx context.Context, reminder *Reminder) error {
	q := `
		INSERT INTO reminders (id, user_id, type, title, date, client, notes, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.metrics.ObserveDB("reminder.create", func() error {
		return r.db.QueryRowxContext(ctx, q,
			reminder.ID,
			reminder.UserID,
			reminder.Type,
			reminder.Title,
			reminder.Date,
			reminder.Client,
			reminder.Notes,
			reminder.Completed,
		).Scan(&reminder.CreatedAt, &reminder.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, reminder *Reminder) error {
	q := `
		UPDATE reminders
		SET type = $2, title = $3, date = $4, client = $5, notes = $6,
		    completed = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.metrics.ObserveDB("reminder.update", func() error {
		return r.db.GetContext(ctx, &reminder.UpdatedAt, q,
			reminder.ID,
			reminder.Type,
			reminder.Title,
			reminder.Date,
			reminder.Client,
			reminder.Notes,
			reminder.Completed,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update reminder: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}

	return nil
}

// Toggle flips the completed flag in place and returns the new row.
func (r *repository) Toggle(ctx context.Context, id string) (*Reminder, error) {
	q := `
		UPDATE reminders
		SET completed = NOT completed, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reminderColumns

	var reminder Reminder
	err := r.metrics.ObserveDB("reminder.toggle", func() error {
		return r.db.GetContext(ctx, &reminder, q, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("toggle reminder: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle reminder: %w", err)
	}

	return &reminder, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	var result sql.Result
	err := r.metrics.ObserveDB("reminder.delete", func() error {
		var err error
		result, err = r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete reminder: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reminders`); err != nil {
		return 0, fmt.Errorf("count reminders: %w", err)
	}
	return n, nil
}
