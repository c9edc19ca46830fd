// AngelaMos | 2026
// service.go

package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/events"
	"github.com/carterperez-dev/leadflow/internal/metrics"
	"github.com/carterperez-dev/leadflow/internal/policy"
	"github.com/carterperez-dev/leadflow/internal/query"
)

const (
	KindManager  = "manager"
	KindEmployee = "employee"
	KindLegacy   = "legacy"
)

type Service struct {
	repo      Repository
	gate      *policy.Gate
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	repo Repository,
	gate *policy.Gate,
	publisher events.Publisher,
	m *metrics.Metrics,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *Service) List(
	ctx context.Context,
	sub policy.Subject,
	p query.Params,
) (*query.Page[LeadResponse], error) {
	if err := s.gate.Authorize(ctx, sub, policy.ActionList, policy.ResourceLead, nil); err != nil {
		return nil, err
	}

	return s.list(ctx, p, Scope{})
}

// ListForEmployee lists the leads delegated to employeeID.
func (s *Service) ListForEmployee(
	ctx context.Context,
	sub policy.Subject,
	employeeID string,
	p query.Params,
) (*query.Page[LeadResponse], error) {
	scope := policy.Scope{Role: policy.RoleEmployee, UserID: employeeID}
	if err := s.gate.Authorize(ctx, sub, policy.ActionList, policy.ResourceScope, scope); err != nil {
		return nil, err
	}

	if _, err := s.findUser(ctx, employeeID, "employee"); err != nil {
		return nil, err
	}

	return s.list(ctx, p, Scope{EmployeeID: employeeID})
}

// ListForManager lists the leads managerID has delegated to an employee.
func (s *Service) ListForManager(
	ctx context.Context,
	sub policy.Subject,
	managerID string,
	p query.Params,
) (*query.Page[LeadResponse], error) {
	scope := policy.Scope{Role: policy.RoleManager, UserID: managerID}
	if err := s.gate.Authorize(ctx, sub, policy.ActionList, policy.ResourceScope, scope); err != nil {
		return nil, err
	}

	if _, err := s.findUser(ctx, managerID, "manager"); err != nil {
		return nil, err
	}

	return s.list(ctx, p, Scope{ManagerID: managerID, WithEmployeeOnly: true})
}

func (s *Service) list(ctx context.Context, p query.Params, scope Scope) (*query.Page[LeadResponse], error) {
	filter, err := NewFilter(p, scope)
	if err != nil {
		return nil, err
	}

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.expand(ctx, leads)
	if err != nil {
		return nil, err
	}

	return &query.Page[LeadResponse]{
		Items: items,
		Total: total,
		Page:  filter.Params.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *Service) Get(ctx context.Context, sub policy.Subject, id string) (*LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, sub, policy.ActionView, policy.ResourceLead, lead); err != nil {
		return nil, err
	}

	return s.expandOne(ctx, lead)
}

func (s *Service) Create(
	ctx context.Context,
	sub policy.Subject,
	req CreateLeadRequest,
) (*LeadResponse, error) {
	if err := s.gate.Authorize(ctx, sub, policy.ActionCreate, policy.ResourceLead, nil); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(req.Name),
		Company:  strings.TrimSpace(req.Company),
		Email:    normalizeEmail(req.Email),
		Phone:    req.Phone,
		Value:    valueOrZero(req.Value),
		Source:   req.Source,
		Notes:    req.Notes,
		Status:   orDefault(req.Status, StatusNew),
		Priority: orDefault(req.Priority, PriorityMedium),
	}

	if req.AssignedManager != "" {
		if _, err := s.findUser(ctx, req.AssignedManager, "manager"); err != nil {
			return nil, err
		}
		lead.ManagerID = ptr(req.AssignedManager)
	}

	if req.AssignedEmployee != "" {
		if _, err := s.findEmployee(ctx, req.AssignedEmployee); err != nil {
			return nil, err
		}
		lead.EmployeeID = ptr(req.AssignedEmployee)
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}

	return s.expandOne(ctx, lead)
}

// BulkCreate inserts every lead or none. Each starts as New.
func (s *Service) BulkCreate(
	ctx context.Context,
	sub policy.Subject,
	req BulkCreateRequest,
) ([]LeadResponse, error) {
	if err := s.gate.Authorize(ctx, sub, policy.ActionCreate, policy.ResourceLead, nil); err != nil {
		return nil, err
	}

	if len(req.Leads) == 0 {
		return nil, fmt.Errorf("bulk create: please provide an array of leads: %w", core.ErrInvalidInput)
	}

	leads := make([]*Lead, 0, len(req.Leads))
	for _, item := range req.Leads {
		leads = append(leads, &Lead{
			ID:       uuid.New().String(),
			Name:     strings.TrimSpace(item.Name),
			Company:  strings.TrimSpace(item.Company),
			Email:    normalizeEmail(item.Email),
			Phone:    item.Phone,
			Value:    valueOrZero(item.Value),
			Source:   orDefault(item.Source, SourceOther),
			Notes:    item.Notes,
			Status:   StatusNew,
			Priority: PriorityMedium,
		})
	}

	if err := s.repo.BulkCreate(ctx, leads); err != nil {
		return nil, err
	}

	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, toLeadResponse(l, nil))
	}

	return out, nil
}

func (s *Service) Update(
	ctx context.Context,
	sub policy.Subject,
	id string,
	req UpdateLeadRequest,
) (*LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, sub, policy.ActionUpdate, policy.ResourceLead, lead); err != nil {
		return nil, err
	}

	if req.Name != nil {
		lead.Name = strings.TrimSpace(*req.Name)
	}
	if req.Company != nil {
		lead.Company = strings.TrimSpace(*req.Company)
	}
	if req.Email != nil {
		lead.Email = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Value != nil {
		lead.Value = valueOrZero(*req.Value)
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.Priority != nil {
		lead.Priority = *req.Priority
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, err
	}

	return s.expandOne(ctx, lead)
}

func (s *Service) Delete(ctx context.Context, sub policy.Subject, id string) error {
	if err := s.gate.Authorize(ctx, sub, policy.ActionDelete, policy.ResourceLead, nil); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// AssignToManager hands the lead to a manager. Any employee delegation made
// under the previous manager is dropped.
func (s *Service) AssignToManager(
	ctx context.Context,
	sub policy.Subject,
	leadID, managerID string,
) (resp *LeadResponse, err error) {
	ctx, span := core.StartSpan(ctx, "lead.AssignToManager",
		attribute.String("lead.id", leadID),
		attribute.String("manager.id", managerID),
	)
	defer func() { core.EndSpan(span, err) }()

	if _, err := s.findUser(ctx, managerID, "manager"); err != nil {
		return nil, err
	}

	return s.assign(ctx, sub, KindManager, leadID, func(l *Lead) error {
		l.ManagerID = ptr(managerID)
		l.EmployeeID = nil
		return nil
	})
}

// AssignToEmployee delegates the lead to an employee, optionally setting the
// manager in the same write. Without managerID the manager is left as is.
func (s *Service) AssignToEmployee(
	ctx context.Context,
	sub policy.Subject,
	leadID, employeeID, managerID string,
) (resp *LeadResponse, err error) {
	ctx, span := core.StartSpan(ctx, "lead.AssignToEmployee",
		attribute.String("lead.id", leadID),
		attribute.String("employee.id", employeeID),
	)
	defer func() { core.EndSpan(span, err) }()

	if _, err := s.findEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	if managerID != "" {
		if _, err := s.findUser(ctx, managerID, "manager"); err != nil {
			return nil, err
		}
	}

	return s.assign(ctx, sub, KindEmployee, leadID, func(l *Lead) error {
		if managerID != "" {
			l.ManagerID = ptr(managerID)
		}
		l.EmployeeID = ptr(employeeID)
		return nil
	})
}

// AssignLead sets the slot matching the user's role. A nil userID clears
// both slots.
func (s *Service) AssignLead(
	ctx context.Context,
	sub policy.Subject,
	leadID string,
	userID *string,
) (resp *LeadResponse, err error) {
	ctx, span := core.StartSpan(ctx, "lead.AssignLead", attribute.String("lead.id", leadID))
	defer func() { core.EndSpan(span, err) }()

	if userID == nil || *userID == "" {
		return s.assign(ctx, sub, KindLegacy, leadID, func(l *Lead) error {
			l.ManagerID = nil
			l.EmployeeID = nil
			return nil
		})
	}

	user, err := s.findUser(ctx, *userID, "user")
	if err != nil {
		return nil, err
	}

	return s.assign(ctx, sub, KindLegacy, leadID, func(l *Lead) error {
		if user.Role == policy.RoleEmployee {
			l.EmployeeID = ptr(user.ID)
		} else {
			l.ManagerID = ptr(user.ID)
		}
		return nil
	})
}

func (s *Service) assign(
	ctx context.Context,
	sub policy.Subject,
	kind, leadID string,
	apply func(l *Lead) error,
) (*LeadResponse, error) {
	before, lead, err := s.repo.Assign(ctx, leadID, apply)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("lead")
		}
		return nil, err
	}

	s.metrics.AssignmentRecorded(kind)
	s.publishAssignment(ctx, sub, kind, before, lead)

	return s.expandOne(ctx, lead)
}

func (s *Service) publishAssignment(
	ctx context.Context,
	sub policy.Subject,
	kind string,
	before Assignees,
	lead *Lead,
) {
	eventType := events.LeadAssigned
	if lead.ManagerID == nil && lead.EmployeeID == nil {
		eventType = events.LeadUnassigned
	}

	event := events.LeadAssignment{
		Type:               eventType,
		Kind:               kind,
		LeadID:             lead.ID,
		ManagerID:          lead.ManagerID,
		EmployeeID:         lead.EmployeeID,
		PreviousManagerID:  before.ManagerID,
		PreviousEmployeeID: before.EmployeeID,
		ActorID:            sub.ID,
		OccurredAt:         s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		slog.WarnContext(ctx, "publish assignment event failed",
			"lead_id", lead.ID,
			"kind", kind,
			"error", err,
		)
	}
}

// UpdateFollowUp replaces the lead's follow-up record, stamped now and
// attributed to the caller.
func (s *Service) UpdateFollowUp(
	ctx context.Context,
	sub policy.Subject,
	leadID string,
	req FollowUpRequest,
) (*LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, sub, policy.ActionUpdate, policy.ResourceFollowUp, lead); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			return nil, core.ForbiddenError("You do not have permission to update follow-ups for this lead")
		}
		return nil, err
	}

	now := s.now().UTC()
	lead.FollowUpDate = &now
	lead.FollowUpNotes = strings.TrimSpace(req.Notes)
	lead.FollowUpStatus = orDefault(req.Status, FollowUpScheduled)
	lead.FollowUpNextDate = req.NextFollowUpDate
	lead.FollowUpCreatedBy = ptr(sub.ID)

	if err := s.repo.UpdateFollowUp(ctx, lead); err != nil {
		return nil, err
	}

	return s.expandOne(ctx, lead)
}

// FollowUps lists leads by next follow-up date within the caller's reach:
// managers see the leads they manage, employees the leads they work.
func (s *Service) FollowUps(
	ctx context.Context,
	sub policy.Subject,
	upcomingOnly bool,
) ([]LeadResponse, error) {
	if err := s.gate.Authorize(ctx, sub, policy.ActionList, policy.ResourceFollowUp, nil); err != nil {
		return nil, err
	}

	f := FollowUpFilter{}
	switch sub.Role {
	case policy.RoleManager:
		f.ManagerID = sub.ID
	case policy.RoleEmployee:
		f.EmployeeID = sub.ID
	}

	if upcomingOnly {
		now := s.now().UTC()
		f.NextFrom = &now
	}

	leads, err := s.repo.ListFollowUps(ctx, f)
	if err != nil {
		return nil, err
	}

	return s.expand(ctx, leads)
}

// FollowUpBoard lists scheduled follow-ups, optionally for one employee.
func (s *Service) FollowUpBoard(
	ctx context.Context,
	sub policy.Subject,
	employeeID string,
) ([]FollowUpEntry, error) {
	if err := s.gate.Authorize(ctx, sub, policy.ActionList, policy.ResourceFollowUp, nil); err != nil {
		return nil, err
	}

	leads, err := s.repo.ListFollowUps(ctx, FollowUpFilter{EmployeeID: employeeID, Scheduled: true})
	if err != nil {
		return nil, err
	}

	u, err := s.lookup(ctx, leads)
	if err != nil {
		return nil, err
	}

	entries := make([]FollowUpEntry, 0, len(leads))
	for i := range leads {
		entries = append(entries, toFollowUpEntry(&leads[i], u))
	}

	return entries, nil
}

// LeadFollowUp returns the follow-up record of one lead, nil when none was
// ever recorded.
func (s *Service) LeadFollowUp(
	ctx context.Context,
	sub policy.Subject,
	leadID string,
) (*FollowUpResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, sub, policy.ActionView, policy.ResourceFollowUp, lead); err != nil {
		return nil, err
	}

	leads := []Lead{*lead}
	u, err := s.lookup(ctx, leads)
	if err != nil {
		return nil, err
	}

	return toFollowUpResponse(&leads[0], u), nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) findUser(ctx context.Context, id, resource string) (*UserRef, error) {
	ref, err := s.repo.FindUser(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError(resource)
		}
		return nil, err
	}
	return ref, nil
}

func (s *Service) findEmployee(ctx context.Context, id string) (*UserRef, error) {
	ref, err := s.findUser(ctx, id, "employee")
	if err != nil {
		return nil, err
	}
	if ref.Role != policy.RoleEmployee {
		return nil, core.NotFoundError("employee")
	}
	return ref, nil
}

func (s *Service) lookup(ctx context.Context, leads []Lead) (users, error) {
	refs, err := s.repo.LookupUsers(ctx, referencedUserIDs(leads))
	if err != nil {
		return nil, err
	}
	return users(refs), nil
}

func (s *Service) expand(ctx context.Context, leads []Lead) ([]LeadResponse, error) {
	u, err := s.lookup(ctx, leads)
	if err != nil {
		return nil, err
	}

	out := make([]LeadResponse, 0, len(leads))
	for i := range leads {
		out = append(out, toLeadResponse(&leads[i], u))
	}

	return out, nil
}

func (s *Service) expandOne(ctx context.Context, lead *Lead) (*LeadResponse, error) {
	out, err := s.expand(ctx, []Lead{*lead})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func valueOrZero(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "0"
	}
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
