// AngelaMos | 2026
// dto.go

package lead

import (
	"time"
)

type CreateLeadRequest struct {
	Name             string `json:"name"             validate:"required,min=1,max=200"`
	Company          string `json:"company"          validate:"required,min=1,max=200"`
	Email            string `json:"email"            validate:"required,email,max=255"`
	Phone            string `json:"phone"            validate:"max=40"`
	Value            string `json:"value"            validate:"max=40"`
	Source           string `json:"source"           validate:"required,oneof=Website Referral 'Social Media' 'Cold Call' Other"`
	Notes            string `json:"notes"            validate:"max=5000"`
	Status           string `json:"status"           validate:"omitempty,oneof=New Contacted Qualified Proposal Negotiation Closed Lost"`
	Priority         string `json:"priority"         validate:"omitempty,oneof=Low Medium High"`
	AssignedManager  string `json:"assignedManager"  validate:"omitempty,uuid"`
	AssignedEmployee string `json:"assignedEmployee" validate:"omitempty,uuid"`
}

type BulkLeadItem struct {
	Name    string `json:"name"    validate:"required,min=1,max=200"`
	Company string `json:"company" validate:"required,min=1,max=200"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"max=40"`
	Value   string `json:"value"   validate:"max=40"`
	Source  string `json:"source"  validate:"omitempty,oneof=Website Referral 'Social Media' 'Cold Call' Other"`
	Notes   string `json:"notes"   validate:"max=5000"`
}

type BulkCreateRequest struct {
	Leads []BulkLeadItem `json:"leads" validate:"required,min=1,max=500,dive"`
}

type UpdateLeadRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=200"`
	Company  *string `json:"company,omitempty"  validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,max=40"`
	Value    *string `json:"value,omitempty"    validate:"omitempty,max=40"`
	Source   *string `json:"source,omitempty"   validate:"omitempty,oneof=Website Referral 'Social Media' 'Cold Call' Other"`
	Notes    *string `json:"notes,omitempty"    validate:"omitempty,max=5000"`
	Status   *string `json:"status,omitempty"   validate:"omitempty,oneof=New Contacted Qualified Proposal Negotiation Closed Lost"`
	Priority *string `json:"priority,omitempty" validate:"omitempty,oneof=Low Medium High"`
}

type AssignManagerRequest struct {
	LeadID    string `json:"leadId"    validate:"required,uuid"`
	ManagerID string `json:"managerId" validate:"required,uuid"`
}

type AssignEmployeeRequest struct {
	LeadID     string `json:"leadId"     validate:"required,uuid"`
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	ManagerID  string `json:"managerId"  validate:"omitempty,uuid"`
}

// AssignLeadRequest is the single-slot assignment. A null userId unassigns.
type AssignLeadRequest struct {
	UserID *string `json:"userId" validate:"omitempty,uuid"`
}

type FollowUpRequest struct {
	Notes            string     `json:"notes"            validate:"max=5000"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate"`
	Status           string     `json:"status"           validate:"omitempty,oneof=Scheduled Completed Missed Rescheduled"`
}

type FollowUpResponse struct {
	Date             *time.Time `json:"date,omitempty"`
	Notes            string     `json:"notes"`
	Status           string     `json:"status"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate,omitempty"`
	CreatedBy        *UserRef   `json:"createdBy,omitempty"`
}

type LeadResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Company          string            `json:"company"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Value            string            `json:"value"`
	Source           string            `json:"source"`
	Notes            string            `json:"notes"`
	Status           string            `json:"status"`
	Priority         string            `json:"priority"`
	AssignedManager  *UserRef          `json:"assignedManager"`
	AssignedEmployee *UserRef          `json:"assignedEmployee"`
	FollowUp         *FollowUpResponse `json:"followUp,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// FollowUpEntry is one row of a follow-up board.
type FollowUpEntry struct {
	ID               string            `json:"id"`
	LeadName         string            `json:"leadName"`
	LeadCompany      string            `json:"leadCompany"`
	FollowUp         *FollowUpResponse `json:"followUp"`
	AssignedManager  *UserRef          `json:"assignedManager"`
	AssignedEmployee *UserRef          `json:"assignedEmployee"`
	Status           string            `json:"status"`
	Priority         string            `json:"priority"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// users resolves referenced user ids to their public projection.
type users map[string]UserRef

func (u users) ref(id *string) *UserRef {
	if id == nil {
		return nil
	}
	if ref, ok := u[*id]; ok {
		return &ref
	}
	return &UserRef{ID: *id}
}

func toFollowUpResponse(l *Lead, u users) *FollowUpResponse {
	if !l.HasFollowUp() {
		return nil
	}
	return &FollowUpResponse{
		Date:             l.FollowUpDate,
		Notes:            l.FollowUpNotes,
		Status:           l.FollowUpStatus,
		NextFollowUpDate: l.FollowUpNextDate,
		CreatedBy:        u.ref(l.FollowUpCreatedBy),
	}
}

func toLeadResponse(l *Lead, u users) LeadResponse {
	return LeadResponse{
		ID:               l.ID,
		Name:             l.Name,
		Company:          l.Company,
		Email:            l.Email,
		Phone:            l.Phone,
		Value:            l.Value,
		Source:           l.Source,
		Notes:            l.Notes,
		Status:           l.Status,
		Priority:         l.Priority,
		AssignedManager:  u.ref(l.ManagerID),
		AssignedEmployee: u.ref(l.EmployeeID),
		FollowUp:         toFollowUpResponse(l, u),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toFollowUpEntry(l *Lead, u users) FollowUpEntry {
	return FollowUpEntry{
		ID:               l.ID,
		LeadName:         l.Name,
		LeadCompany:      l.Company,
		FollowUp:         toFollowUpResponse(l, u),
		AssignedManager:  u.ref(l.ManagerID),
		AssignedEmployee: u.ref(l.EmployeeID),
		Status:           l.Status,
		Priority:         l.Priority,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// referencedUserIDs collects the distinct user ids a set of leads points at.
func referencedUserIDs(leads []Lead) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	add := func(id *string) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}

	for i := range leads {
		add(leads[i].ManagerID)
		add(leads[i].EmployeeID)
		add(leads[i].FollowUpCreatedBy)
	}

	return ids
}
