// AngelaMos | 2026
// filter_test.go

package lead

import (
	"errors"
	"testing"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/query"
)

const employeeUUID = "7f1c9a52-8a0e-4d0e-9b43-2f0d6c1e5a11"

func TestNewFilterConditions(t *testing.T) {
	tests := []struct {
		name     string
		params   query.Params
		scope    Scope
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "no filters",
			params:  query.Params{},
			wantSQL: "",
		},
		{
			name:     "status",
			params:   query.Params{Status: "New"},
			wantSQL:  "WHERE status = ?",
			wantArgs: 1,
		},
		{
			name:     "search spans four columns",
			params:   query.Params{Search: "acme"},
			wantSQL:  "WHERE (name ILIKE ? OR company ILIKE ? OR email ILIKE ? OR notes ILIKE ?)",
			wantArgs: 4,
		},
		{
			name:    "unassigned",
			params:  query.Params{AssignedTo: AssignedToNone},
			wantSQL: "WHERE assigned_manager_id IS NULL AND assigned_employee_id IS NULL",
		},
		{
			name:     "assigned to user",
			params:   query.Params{AssignedTo: employeeUUID},
			wantSQL:  "WHERE (assigned_manager_id = ? OR assigned_employee_id = ?)",
			wantArgs: 2,
		},
		{
			name:   "search and assignee are both applied",
			params: query.Params{Search: "acme", AssignedTo: employeeUUID},
			wantSQL: "WHERE (name ILIKE ? OR company ILIKE ? OR email ILIKE ? OR notes ILIKE ?)" +
				" AND (assigned_manager_id = ? OR assigned_employee_id = ?)",
			wantArgs: 6,
		},
		{
			name:   "manager scope keeps delegated leads only",
			params: query.Params{Status: "Contacted"},
			scope:  Scope{ManagerID: employeeUUID, WithEmployeeOnly: true},
			wantSQL: "WHERE assigned_manager_id = ? AND assigned_employee_id IS NOT NULL" +
				" AND status = ?",
			wantArgs: 2,
		},
		{
			name:     "employee scope",
			scope:    Scope{EmployeeID: employeeUUID},
			wantSQL:  "WHERE assigned_employee_id = ?",
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.params, tt.scope)
			if err != nil {
				t.Fatalf("NewFilter: %v", err)
			}
			if got := f.Where.SQL(); got != tt.wantSQL {
				t.Errorf("SQL = %q, want %q", got, tt.wantSQL)
			}
			if got := len(f.Where.Args()); got != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", got, tt.wantArgs)
			}
		})
	}
}

func TestNewFilterSearchEscapesPattern(t *testing.T) {
	f, err := NewFilter(query.Params{Search: "50%_off"}, Scope{})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}

	args := f.Where.Args()
	if len(args) == 0 {
		t.Fatal("expected search args")
	}
	if got, want := args[0], `%50\%\_off%`; got != want {
		t.Errorf("pattern = %v, want %v", got, want)
	}
}

func TestNewFilterSortDefaults(t *testing.T) {
	f, err := NewFilter(query.Params{}, Scope{})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.Order.Column != "created_at" || !f.Order.Desc {
		t.Errorf("general default = %+v, want created_at desc", f.Order)
	}

	f, err = NewFilter(query.Params{}, Scope{EmployeeID: employeeUUID})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.Order.Column != "updated_at" || !f.Order.Desc {
		t.Errorf("scoped default = %+v, want updated_at desc", f.Order)
	}

	f, err = NewFilter(query.Params{Sort: "priority"}, Scope{})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.Order.Column != priorityRank || f.Order.Desc {
		t.Errorf("priority sort = %+v, want ascending rank", f.Order)
	}
}

func TestNewFilterPagination(t *testing.T) {
	f, err := NewFilter(query.Params{Page: 3, Limit: 20}, Scope{})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.Limit != 20 || f.Offset != 40 {
		t.Errorf("limit/offset = %d/%d, want 20/40", f.Limit, f.Offset)
	}

	f, err = NewFilter(query.Params{}, Scope{})
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.Limit != query.DefaultLimit || f.Offset != 0 {
		t.Errorf("defaults = %d/%d, want %d/0", f.Limit, f.Offset, query.DefaultLimit)
	}
}

func TestNewFilterRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		params query.Params
	}{
		{"assignee not an id", query.Params{AssignedTo: "bob"}},
		{"unknown sort field", query.Params{Sort: "-password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilter(tt.params, Scope{})
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
