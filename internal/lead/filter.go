// AngelaMos | 2026
// filter.go

package lead

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/query"
)

const (
	defaultSort       = "-createdAt"
	defaultScopedSort = "-updatedAt"

	// AssignedToNone selects leads with neither a manager nor an employee.
	AssignedToNone = "unassigned"
)

// numericValue parses the free-form monetary string into a number, treating
// anything unparseable as zero.
const numericValue = `(CASE WHEN regexp_replace(value, '[^0-9.]', '', 'g') ~ '^[0-9]+(\.[0-9]+){0,1}$'
	THEN regexp_replace(value, '[^0-9.]', '', 'g')::numeric ELSE 0 END)`

const priorityRank = `(CASE priority WHEN 'Low' THEN 1 WHEN 'Medium' THEN 2 WHEN 'High' THEN 3 ELSE 0 END)`

var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"company":   "company",
	"email":     "email",
	"status":    "status",
	"priority":  priorityRank,
	"value":     numericValue,
	"source":    "source",
}

// Scope narrows a listing to the leads of one assignee.
type Scope struct {
	ManagerID  string
	EmployeeID string
	// WithEmployeeOnly keeps only leads that have been delegated.
	WithEmployeeOnly bool
}

func (s Scope) IsZero() bool {
	return s.ManagerID == "" && s.EmployeeID == "" && !s.WithEmployeeOnly
}

// Filter is a translated listing request ready for the repository.
type Filter struct {
	Where  query.Where
	Order  query.Order
	Limit  int
	Offset int

	// Params and Scope are the normalized request the conditions were
	// built from.
	Params query.Params
	Scope  Scope
}

// NewFilter translates list parameters into SQL conditions. The filter
// groups are AND-ed; search and assignedTo each OR across their columns.
func NewFilter(p query.Params, scope Scope) (Filter, error) {
	p.Normalize()

	f := Filter{Limit: p.Limit, Offset: p.Offset(), Params: p, Scope: scope}

	if scope.ManagerID != "" {
		f.Where.Add("assigned_manager_id = ?", scope.ManagerID)
	}
	if scope.EmployeeID != "" {
		f.Where.Add("assigned_employee_id = ?", scope.EmployeeID)
	}
	if scope.WithEmployeeOnly {
		f.Where.Add("assigned_employee_id IS NOT NULL")
	}

	if p.Status != "" {
		f.Where.Add("status = ?", p.Status)
	}

	f.Where.AnyILike(p.Search, "name", "company", "email", "notes")

	switch {
	case p.AssignedTo == "":
	case p.AssignedTo == AssignedToNone:
		f.Where.Add("assigned_manager_id IS NULL AND assigned_employee_id IS NULL")
	default:
		if err := uuid.Validate(p.AssignedTo); err != nil {
			return Filter{}, fmt.Errorf("assignedTo must be a user id or %q: %w",
				AssignedToNone, core.ErrInvalidInput)
		}
		f.Where.Add("(assigned_manager_id = ? OR assigned_employee_id = ?)",
			p.AssignedTo, p.AssignedTo)
	}

	def := defaultSort
	if !scope.IsZero() {
		def = defaultScopedSort
	}

	order, err := query.ParseSort(p.Sort, def, sortFields)
	if err != nil {
		return Filter{}, err
	}
	f.Order = order

	return f, nil
}
