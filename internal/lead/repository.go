// AngelaMos | 2026
// repository.go

package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/metrics"
	"github.com/carterperez-dev/leadflow/internal/query"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]Lead, int, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	BulkCreate(ctx context.Context, leads []*Lead) error
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	// Assign locks the lead, lets apply set both assignee slots and writes
	// them in one statement. It returns the slots as they were before.
	Assign(ctx context.Context, id string, apply func(l *Lead) error) (Assignees, *Lead, error)
	UpdateFollowUp(ctx context.Context, lead *Lead) error
	ListFollowUps(ctx context.Context, f FollowUpFilter) ([]Lead, error)
	FindUser(ctx context.Context, id string) (*UserRef, error)
	LookupUsers(ctx context.Context, ids []string) (map[string]UserRef, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// FollowUpFilter selects leads for follow-up boards. Empty ids match any.
type FollowUpFilter struct {
	ManagerID  string
	EmployeeID string
	// NextFrom keeps only follow-ups whose next date is at or after it.
	NextFrom *time.Time
	// Scheduled keeps only leads with a next follow-up date.
	Scheduled bool
}

// DB is satisfied by *sqlx.DB.
type DB interface {
	core.DBTX
	core.TxBeginner
}

type repository struct {
	db      DB
	metrics *metrics.Metrics
}

func NewRepository(db DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

const leadColumns = `id, name, company, email, phone, value, source, notes,
	status, priority, assigned_manager_id, assigned_employee_id,
	follow_up_date, follow_up_notes, follow_up_status, follow_up_next_date,
	follow_up_created_by, created_at, updated_at`

// syncCounters recomputes the denormalized performance counters of the
// given employees from the leads table.
const syncCounters = `
	UPDATE users u SET
		leads_assigned = (
			SELECT COUNT(*) FROM leads WHERE assigned_employee_id = u.id),
		leads_converted = (
			SELECT COUNT(*) FROM leads
			WHERE assigned_employee_id = u.id AND status IN ('Converted', 'Closed')),
		total_value = (
			SELECT COALESCE(SUM(` + numericValue + `), 0) FROM leads
			WHERE assigned_employee_id = u.id AND status IN ('Converted', 'Closed')),
		updated_at = NOW()
	WHERE u.id = ANY($1::uuid[])`

func (r *repository) List(ctx context.Context, f Filter) ([]Lead, int, error) {
	leads := []Lead{}
	var total int

	err := r.metrics.ObserveDB("lead.list", func() error {
		countQuery := query.Rebind("SELECT COUNT(*) FROM leads " + f.Where.SQL())
		if err := r.db.GetContext(ctx, &total, countQuery, f.Where.Args()...); err != nil {
			return fmt.Errorf("count leads: %w", err)
		}

		listQuery := query.Rebind(`SELECT ` + leadColumns + ` FROM leads ` + f.Where.SQL() +
			` ORDER BY ` + f.Order.SQL() + ` LIMIT ? OFFSET ?`)
		args := append(f.Where.Args(), f.Limit, f.Offset)

		if err := r.db.SelectContext(ctx, &leads, listQuery, args...); err != nil {
			return fmt.Errorf("list leads: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Lead, error) {
	var lead Lead

	err := r.metrics.ObserveDB("lead.get", func() error {
		return r.db.GetContext(ctx, &lead, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get lead: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}

	return &lead, nil
}

const insertLead = `
	INSERT INTO leads (id, name, company, email, phone, value, source, notes,
		status, priority, assigned_manager_id, assigned_employee_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING created_at, updated_at`

func insertArgs(l *Lead) []any {
	return []any{
		l.ID, l.Name, l.Company, l.Email, l.Phone, l.Value, l.Source, l.Notes,
		l.Status, l.Priority, l.ManagerID, l.EmployeeID,
	}
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	return r.metrics.ObserveDB("lead.create", func() error {
		return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
			row := tx.QueryRowxContext(ctx, insertLead, insertArgs(lead)...)
			if err := row.Scan(&lead.CreatedAt, &lead.UpdatedAt); err != nil {
				return fmt.Errorf("create lead: %w", err)
			}

			return resync(ctx, tx, lead.EmployeeID)
		})
	})
}

func (r *repository) BulkCreate(ctx context.Context, leads []*Lead) error {
	return r.metrics.ObserveDB("lead.bulk_create", func() error {
		return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
			stmt, err := tx.PreparexContext(ctx, insertLead)
			if err != nil {
				return fmt.Errorf("prepare bulk insert: %w", err)
			}
			defer stmt.Close() //nolint:errcheck // closed with the transaction

			for i, lead := range leads {
				row := stmt.QueryRowxContext(ctx, insertArgs(lead)...)
				if err := row.Scan(&lead.CreatedAt, &lead.UpdatedAt); err != nil {
					return fmt.Errorf("bulk insert lead %d: %w", i, err)
				}
			}

			return nil
		})
	})
}

func (r *repository) Update(ctx context.Context, lead *Lead) error {
	q := `
		UPDATE leads
		SET name = $2, company = $3, email = $4, phone = $5, value = $6,
		    source = $7, notes = $8, status = $9, priority = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.metrics.ObserveDB("lead.update", func() error {
		return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
			err := tx.GetContext(ctx, &lead.UpdatedAt, q,
				lead.ID, lead.Name, lead.Company, lead.Email, lead.Phone,
				lead.Value, lead.Source, lead.Notes, lead.Status, lead.Priority,
			)
			if err != nil {
				return err
			}

			return resync(ctx, tx, lead.EmployeeID)
		})
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update lead: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	err := r.metrics.ObserveDB("lead.delete", func() error {
		return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
			var employeeID *string
			err := tx.GetContext(ctx, &employeeID,
				`DELETE FROM leads WHERE id = $1 RETURNING assigned_employee_id`, id)
			if err != nil {
				return err
			}

			return resync(ctx, tx, employeeID)
		})
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("delete lead: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}

	return nil
}

func (r *repository) Assign(
	ctx context.Context,
	id string,
	apply func(l *Lead) error,
) (Assignees, *Lead, error) {
	var before Assignees
	var lead Lead

	err := r.metrics.ObserveDB("lead.assign", func() error {
		return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
			err := tx.GetContext(ctx, &lead,
				`SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("assign lead: %w", core.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("assign lead: %w", err)
			}

			before = Assignees{ManagerID: lead.ManagerID, EmployeeID: lead.EmployeeID}

			if err := apply(&lead); err != nil {
				return err
			}

			err = tx.GetContext(ctx, &lead.UpdatedAt, `
				UPDATE leads
				SET assigned_manager_id = $2, assigned_employee_id = $3, updated_at = NOW()
				WHERE id = $1
				RETURNING updated_at`,
				lead.ID, lead.ManagerID, lead.EmployeeID,
			)
			if err != nil {
				return fmt.Errorf("assign lead: %w", err)
			}

			return resync(ctx, tx, before.EmployeeID, lead.EmployeeID)
		})
	})
	if err != nil {
		return Assignees{}, nil, err
	}

	return before, &lead, nil
}

func (r *repository) UpdateFollowUp(ctx context.Context, lead *Lead) error {
	q := `
		UPDATE leads
		SET follow_up_date = $2, follow_up_notes = $3, follow_up_status = $4,
		    follow_up_next_date = $5, follow_up_created_by = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.metrics.ObserveDB("lead.update_follow_up", func() error {
		return r.db.GetContext(ctx, &lead.UpdatedAt, q,
			lead.ID,
			lead.FollowUpDate,
			lead.FollowUpNotes,
			lead.FollowUpStatus,
			lead.FollowUpNextDate,
			lead.FollowUpCreatedBy,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update follow-up: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update follow-up: %w", err)
	}

	return nil
}

func (r *repository) ListFollowUps(ctx context.Context, f FollowUpFilter) ([]Lead, error) {
	var where query.Where
	if f.ManagerID != "" {
		where.Add("assigned_manager_id = ?", f.ManagerID)
	}
	if f.EmployeeID != "" {
		where.Add("assigned_employee_id = ?", f.EmployeeID)
	}
	if f.Scheduled {
		where.Add("follow_up_next_date IS NOT NULL")
	}
	if f.NextFrom != nil {
		where.Add("follow_up_next_date >= ?", *f.NextFrom)
	}

	q := query.Rebind(`SELECT ` + leadColumns + ` FROM leads ` + where.SQL() +
		` ORDER BY follow_up_next_date ASC NULLS LAST, id ASC`)

	leads := []Lead{}
	err := r.metrics.ObserveDB("lead.list_follow_ups", func() error {
		return r.db.SelectContext(ctx, &leads, q, where.Args()...)
	})
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}

	return leads, nil
}

func (r *repository) FindUser(ctx context.Context, id string) (*UserRef, error) {
	var ref UserRef

	err := r.db.GetContext(ctx, &ref,
		`SELECT id, name, email, role FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &ref, nil
}

// LookupUsers resolves user references in one round trip. Unknown ids are
// absent from the result.
func (r *repository) LookupUsers(ctx context.Context, ids []string) (map[string]UserRef, error) {
	result := make(map[string]UserRef, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var refs []UserRef
	err := r.metrics.ObserveDB("lead.lookup_users", func() error {
		return r.db.SelectContext(ctx, &refs,
			`SELECT id, name, email, role FROM users WHERE id = ANY($1::uuid[])`, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("lookup users: %w", err)
	}

	for _, ref := range refs {
		result[ref.ID] = ref
	}

	return result, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}

	if err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM leads GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func resync(ctx context.Context, db core.DBTX, employeeIDs ...*string) error {
	ids := make([]string, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		if id != nil && *id != "" {
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, syncCounters, ids); err != nil {
		return fmt.Errorf("sync performance counters: %w", err)
	}

	return nil
}
