// AngelaMos | 2026
// entity.go

package task

import (
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a to-do item on an employee's list, optionally tied to a lead.
type Task struct {
	ID          string    `db:"id"`
	EmployeeID  string    `db:"employee_id"`
	Description string    `db:"description"`
	Completed   bool      `db:"completed"`
	Priority    string    `db:"priority"`
	DueDate     time.Time `db:"due_date"`
	LeadID      *string   `db:"lead_id"`
	LeadName    string    `db:"lead_name"`
	Company     string    `db:"company"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (t *Task) OwnerID() string {
	return t.EmployeeID
}

// priorityRank orders high before medium before low.
func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}
