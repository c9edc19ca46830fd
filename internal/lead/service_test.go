// AngelaMos | 2026
// service_test.go

package lead

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/events"
	"github.com/carterperez-dev/leadflow/internal/policy"
	"github.com/carterperez-dev/leadflow/internal/query"
)

const (
	adminID    = "0b8a2f7e-1111-4c1a-9d5e-000000000001"
	managerID  = "0b8a2f7e-2222-4c1a-9d5e-000000000002"
	manager2ID = "0b8a2f7e-3333-4c1a-9d5e-000000000003"
	employeeID = "0b8a2f7e-4444-4c1a-9d5e-000000000004"
	otherEmpID = "0b8a2f7e-5555-4c1a-9d5e-000000000005"
	missingID  = "0b8a2f7e-9999-4c1a-9d5e-000000000009"
)

var (
	adminSub    = policy.Subject{ID: adminID, Role: policy.RoleAdmin}
	managerSub  = policy.Subject{ID: managerID, Role: policy.RoleManager}
	employeeSub = policy.Subject{ID: employeeID, Role: policy.RoleEmployee}
	otherEmpSub = policy.Subject{ID: otherEmpID, Role: policy.RoleEmployee}
)

type fakeRepo struct {
	mu    sync.Mutex
	leads map[string]*Lead
	users map[string]UserRef
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads: make(map[string]*Lead),
		users: map[string]UserRef{
			adminID:    {ID: adminID, Name: "Ada", Email: "ada@example.com", Role: policy.RoleAdmin},
			managerID:  {ID: managerID, Name: "Max", Email: "max@example.com", Role: policy.RoleManager},
			manager2ID: {ID: manager2ID, Name: "Mia", Email: "mia@example.com", Role: policy.RoleManager},
			employeeID: {ID: employeeID, Name: "Eve", Email: "eve@example.com", Role: policy.RoleEmployee},
			otherEmpID: {ID: otherEmpID, Name: "Oli", Email: "oli@example.com", Role: policy.RoleEmployee},
		},
	}
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := []Lead{}
	for _, l := range f.leads {
		if matchesFilter(filter, l) {
			matched = append(matched, *l)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if filter.Offset >= total {
		return []Lead{}, total, nil
	}
	end := min(filter.Offset+filter.Limit, total)
	return matched[filter.Offset:end], total, nil
}

// matchesFilter mirrors the conditions NewFilter emits.
func matchesFilter(f Filter, l *Lead) bool {
	manager, employee := l.AssignedManagerID(), l.AssignedEmployeeID()

	if f.Scope.ManagerID != "" && manager != f.Scope.ManagerID {
		return false
	}
	if f.Scope.EmployeeID != "" && employee != f.Scope.EmployeeID {
		return false
	}
	if f.Scope.WithEmployeeOnly && employee == "" {
		return false
	}
	if f.Params.Status != "" && l.Status != f.Params.Status {
		return false
	}

	if search := strings.ToLower(f.Params.Search); search != "" {
		found := false
		for _, field := range []string{l.Name, l.Company, l.Email, l.Notes} {
			if strings.Contains(strings.ToLower(field), search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	switch f.Params.AssignedTo {
	case "":
	case AssignedToNone:
		return manager == "" && employee == ""
	default:
		return manager == f.Params.AssignedTo || employee == f.Params.AssignedTo
	}

	return true
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) Create(_ context.Context, lead *Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *lead
	f.leads[lead.ID] = &cp
	return nil
}

func (f *fakeRepo) BulkCreate(ctx context.Context, leads []*Lead) error {
	for _, l := range leads {
		if err := f.Create(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRepo) Update(_ context.Context, lead *Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[lead.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *lead
	f.leads[lead.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.leads[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) Assign(
	_ context.Context,
	id string,
	apply func(l *Lead) error,
) (Assignees, *Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok {
		return Assignees{}, nil, core.ErrNotFound
	}
	cp := *l
	before := Assignees{ManagerID: cp.ManagerID, EmployeeID: cp.EmployeeID}
	if err := apply(&cp); err != nil {
		return Assignees{}, nil, err
	}
	f.leads[id] = &cp
	out := cp
	return before, &out, nil
}

func (f *fakeRepo) UpdateFollowUp(ctx context.Context, lead *Lead) error {
	return f.Update(ctx, lead)
}

func (f *fakeRepo) ListFollowUps(_ context.Context, filter FollowUpFilter) ([]Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Lead{}
	for _, l := range f.leads {
		if filter.ManagerID != "" && l.AssignedManagerID() != filter.ManagerID {
			continue
		}
		if filter.EmployeeID != "" && l.AssignedEmployeeID() != filter.EmployeeID {
			continue
		}
		if filter.Scheduled && l.FollowUpNextDate == nil {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeRepo) FindUser(_ context.Context, id string) (*UserRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepo) LookupUsers(_ context.Context, ids []string) (map[string]UserRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]UserRef, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeRepo) CountByStatus(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, l := range f.leads {
		counts[l.Status]++
	}
	return counts, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.LeadAssignment
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := v.(events.LeadAssignment); ok {
		p.events = append(p.events, e)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(t *testing.T) (*Service, *fakeRepo, *recordingPublisher) {
	t.Helper()
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	return NewService(repo, policy.New(), pub, nil), repo, pub
}

func createLead(t *testing.T, svc *Service) *LeadResponse {
	t.Helper()
	lead, err := svc.Create(context.Background(), adminSub, CreateLeadRequest{
		Name:    "A",
		Company: "B",
		Email:   "A@B.com",
		Source:  SourceWebsite,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return lead
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	lead := createLead(t, svc)

	if lead.Status != StatusNew {
		t.Errorf("status = %q, want %q", lead.Status, StatusNew)
	}
	if lead.Priority != PriorityMedium {
		t.Errorf("priority = %q, want %q", lead.Priority, PriorityMedium)
	}
	if lead.Value != "0" {
		t.Errorf("value = %q, want \"0\"", lead.Value)
	}
	if lead.Email != "a@b.com" {
		t.Errorf("email = %q, want lowercased", lead.Email)
	}
	if lead.AssignedManager != nil || lead.AssignedEmployee != nil {
		t.Error("new lead should be unassigned")
	}
}

func TestCreateRequiresManagerOrAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), employeeSub, CreateLeadRequest{
		Name: "A", Company: "B", Email: "a@b.com", Source: SourceWebsite,
	})
	if !errors.Is(err, core.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestAssignToEmployeeWithManagerSetsBoth(t *testing.T) {
	svc, _, _ := newTestService(t)
	lead := createLead(t, svc)

	got, err := svc.AssignToEmployee(context.Background(), managerSub, lead.ID, employeeID, managerID)
	if err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}

	if got.AssignedManager == nil || got.AssignedManager.ID != managerID {
		t.Errorf("manager = %+v, want %s", got.AssignedManager, managerID)
	}
	if got.AssignedEmployee == nil || got.AssignedEmployee.ID != employeeID {
		t.Errorf("employee = %+v, want %s", got.AssignedEmployee, employeeID)
	}
	if got.AssignedEmployee != nil && got.AssignedEmployee.Name != "Eve" {
		t.Errorf("employee not expanded: %+v", got.AssignedEmployee)
	}
}

func TestAssignToEmployeeWithoutManagerKeepsManager(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	if _, err := svc.AssignToManager(ctx, adminSub, lead.ID, manager2ID); err != nil {
		t.Fatalf("AssignToManager: %v", err)
	}

	got, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, employeeID, "")
	if err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}
	if got.AssignedManager == nil || got.AssignedManager.ID != manager2ID {
		t.Errorf("manager = %+v, want untouched %s", got.AssignedManager, manager2ID)
	}

	unset := createLead(t, svc)
	got, err = svc.AssignToEmployee(ctx, managerSub, unset.ID, employeeID, "")
	if err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}
	if got.AssignedManager != nil {
		t.Errorf("manager = %+v, want still unset", got.AssignedManager)
	}
}

func TestAssignToManagerClearsEmployee(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	if _, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, employeeID, managerID); err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}

	got, err := svc.AssignToManager(ctx, adminSub, lead.ID, manager2ID)
	if err != nil {
		t.Fatalf("AssignToManager: %v", err)
	}
	if got.AssignedEmployee != nil {
		t.Errorf("employee = %+v, want cleared", got.AssignedEmployee)
	}
	if got.AssignedManager == nil || got.AssignedManager.ID != manager2ID {
		t.Errorf("manager = %+v, want %s", got.AssignedManager, manager2ID)
	}

	stored := repo.leads[lead.ID]
	if stored.EmployeeID != nil {
		t.Error("stored lead still has an employee")
	}
}

func TestAssignNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	tests := []struct {
		name    string
		run     func() error
		wantMsg string
	}{
		{
			name: "missing lead",
			run: func() error {
				_, err := svc.AssignToEmployee(ctx, managerSub, missingID, employeeID, "")
				return err
			},
			wantMsg: "Lead not found",
		},
		{
			name: "missing employee",
			run: func() error {
				_, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, missingID, "")
				return err
			},
			wantMsg: "Employee not found",
		},
		{
			name: "employee id of a manager",
			run: func() error {
				_, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, managerID, "")
				return err
			},
			wantMsg: "Employee not found",
		},
		{
			name: "missing manager",
			run: func() error {
				_, err := svc.AssignToManager(ctx, adminSub, lead.ID, missingID)
				return err
			},
			wantMsg: "Manager not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, core.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
			var appErr *core.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("err = %T, want *core.AppError", err)
			}
			if appErr.StatusCode != http.StatusNotFound || appErr.Message != tt.wantMsg {
				t.Errorf("got %d %q, want 404 %q", appErr.StatusCode, appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestAssignLeadLegacy(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	emp := employeeID
	got, err := svc.AssignLead(ctx, managerSub, lead.ID, &emp)
	if err != nil {
		t.Fatalf("AssignLead employee: %v", err)
	}
	if got.AssignedEmployee == nil || got.AssignedManager != nil {
		t.Errorf("employee user should fill the employee slot only: %+v", got)
	}

	mgr := managerID
	got, err = svc.AssignLead(ctx, managerSub, lead.ID, &mgr)
	if err != nil {
		t.Fatalf("AssignLead manager: %v", err)
	}
	if got.AssignedManager == nil || got.AssignedEmployee == nil {
		t.Errorf("manager user should fill the manager slot: %+v", got)
	}

	got, err = svc.AssignLead(ctx, managerSub, lead.ID, nil)
	if err != nil {
		t.Fatalf("AssignLead nil: %v", err)
	}
	if got.AssignedManager != nil || got.AssignedEmployee != nil {
		t.Errorf("nil user should unassign: %+v", got)
	}
}

func TestAssignmentPublishesEvents(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	if _, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, employeeID, managerID); err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}
	if _, err := svc.AssignLead(ctx, adminSub, lead.ID, nil); err != nil {
		t.Fatalf("AssignLead: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.events))
	}

	first := pub.events[0]
	if first.Type != events.LeadAssigned || first.Kind != KindEmployee || first.ActorID != managerID {
		t.Errorf("first event = %+v", first)
	}
	if first.PreviousEmployeeID != nil {
		t.Errorf("first event previous employee = %v, want nil", *first.PreviousEmployeeID)
	}

	second := pub.events[1]
	if second.Type != events.LeadUnassigned {
		t.Errorf("second event type = %q, want %q", second.Type, events.LeadUnassigned)
	}
	if second.PreviousEmployeeID == nil || *second.PreviousEmployeeID != employeeID {
		t.Errorf("second event previous employee = %v, want %s", second.PreviousEmployeeID, employeeID)
	}
}

func leadIDs(page *query.Page[LeadResponse]) []string {
	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestUnassignedScenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	unassigned, err := svc.List(ctx, adminSub, query.Params{AssignedTo: AssignedToNone})
	if err != nil {
		t.Fatalf("List unassigned: %v", err)
	}
	if ids := leadIDs(unassigned); len(ids) != 1 || ids[0] != lead.ID {
		t.Fatalf("unassigned = %v, want [%s]", ids, lead.ID)
	}

	if _, err := svc.AssignToEmployee(ctx, adminSub, lead.ID, employeeID, ""); err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}

	unassigned, err = svc.List(ctx, adminSub, query.Params{AssignedTo: AssignedToNone})
	if err != nil {
		t.Fatalf("List unassigned: %v", err)
	}
	if unassigned.Total != 0 || len(unassigned.Items) != 0 {
		t.Errorf("unassigned after assignment = %v, want none", leadIDs(unassigned))
	}

	assigned, err := svc.List(ctx, adminSub, query.Params{AssignedTo: employeeID})
	if err != nil {
		t.Fatalf("List assigned: %v", err)
	}
	if ids := leadIDs(assigned); len(ids) != 1 || ids[0] != lead.ID {
		t.Errorf("assignedTo employee = %v, want [%s]", ids, lead.ID)
	}

	other, err := svc.List(ctx, adminSub, query.Params{AssignedTo: otherEmpID})
	if err != nil {
		t.Fatalf("List other: %v", err)
	}
	if other.Total != 0 {
		t.Errorf("assignedTo other employee = %v, want none", leadIDs(other))
	}
}

func TestListPaginatesFilteredTotal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for range 3 {
		createLead(t, svc)
	}

	page, err := svc.List(ctx, adminSub, query.Params{Page: 5, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 0 || page.Page != 5 {
		t.Errorf("page = total %d items %d page %d, want 3 0 5", page.Total, len(page.Items), page.Page)
	}

	page, err = svc.List(ctx, adminSub, query.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Page != query.DefaultPage || page.Limit != query.DefaultLimit {
		t.Errorf("defaults = page %d limit %d", page.Page, page.Limit)
	}
}

func TestUpdateFollowUpPermissions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	if _, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, employeeID, managerID); err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}

	tests := []struct {
		name    string
		sub     policy.Subject
		allowed bool
	}{
		{"admin", adminSub, true},
		{"assigned manager", managerSub, true},
		{"other manager", policy.Subject{ID: manager2ID, Role: policy.RoleManager}, false},
		{"assigned employee", employeeSub, true},
		{"other employee", otherEmpSub, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.UpdateFollowUp(ctx, tt.sub, lead.ID, FollowUpRequest{Notes: "called"})
			if !tt.allowed {
				if !errors.Is(err, core.ErrForbidden) {
					t.Errorf("err = %v, want ErrForbidden", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateFollowUp: %v", err)
			}
			if got.FollowUp == nil {
				t.Fatal("follow-up missing from response")
			}
			if got.FollowUp.Status != FollowUpScheduled {
				t.Errorf("status = %q, want %q", got.FollowUp.Status, FollowUpScheduled)
			}
			if got.FollowUp.CreatedBy == nil || got.FollowUp.CreatedBy.ID != tt.sub.ID {
				t.Errorf("createdBy = %+v, want %s", got.FollowUp.CreatedBy, tt.sub.ID)
			}
		})
	}
}

func TestUpdateLeadPermissions(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	lead := createLead(t, svc)

	if _, err := svc.AssignToEmployee(ctx, managerSub, lead.ID, employeeID, managerID); err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}

	status := StatusContacted
	got, err := svc.Update(ctx, employeeSub, lead.ID, UpdateLeadRequest{Status: &status})
	if err != nil {
		t.Fatalf("assigned employee update: %v", err)
	}
	if got.Status != StatusContacted {
		t.Errorf("status = %q, want %q", got.Status, StatusContacted)
	}

	if _, err := svc.Update(ctx, otherEmpSub, lead.ID, UpdateLeadRequest{Status: &status}); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("other employee update err = %v, want ErrForbidden", err)
	}
}
