// AngelaMos | 2026
// repository.go

package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/metrics"
)

type Repository interface {
	// Leads returns snapshots of leads created at or after since; nil
	// since returns every lead.
	Leads(ctx context.Context, since *time.Time) ([]LeadSnapshot, error)
	Employees(ctx context.Context) ([]Employee, error)
}

type repository struct {
	db      core.DBTX
	metrics *metrics.Metrics
}

func NewRepository(db core.DBTX, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Leads(ctx context.Context, since *time.Time) ([]LeadSnapshot, error) {
	q := `SELECT status, assigned_manager_id, assigned_employee_id, created_at FROM leads`
	args := []any{}
	if since != nil {
		q += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	q += ` ORDER BY created_at ASC`

	leads := []LeadSnapshot{}
	err := r.metrics.ObserveDB("performance.leads", func() error {
		return r.db.SelectContext(ctx, &leads, q, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("load lead snapshots: %w", err)
	}

	return leads, nil
}

func (r *repository) Employees(ctx context.Context) ([]Employee, error) {
	employees := []Employee{}
	err := r.metrics.ObserveDB("performance.employees", func() error {
		return r.db.SelectContext(ctx, &employees,
			`SELECT id, name, email FROM users WHERE role = 'employee' ORDER BY name ASC, id ASC`)
	})
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	return employees, nil
}
