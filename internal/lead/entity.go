// AngelaMos | 2026
// entity.go

package lead

import (
	"time"
)

const (
	StatusNew         = "New"
	StatusContacted   = "Contacted"
	StatusQualified   = "Qualified"
	StatusProposal    = "Proposal"
	StatusNegotiation = "Negotiation"
	StatusConverted   = "Converted"
	StatusClosed      = "Closed"
	StatusLost        = "Lost"
)

const (
	SourceWebsite  = "Website"
	SourceReferral = "Referral"
	SourceSocial   = "Social Media"
	SourceColdCall = "Cold Call"
	SourceOther    = "Other"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	FollowUpScheduled   = "Scheduled"
	FollowUpCompleted   = "Completed"
	FollowUpMissed      = "Missed"
	FollowUpRescheduled = "Rescheduled"
)

// Lead is a sales prospect. Assignees are user ids; nil means unassigned.
type Lead struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Company    string  `db:"company"`
	Email      string  `db:"email"`
	Phone      string  `db:"phone"`
	Value      string  `db:"value"`
	Source     string  `db:"source"`
	Notes      string  `db:"notes"`
	Status     string  `db:"status"`
	Priority   string  `db:"priority"`
	ManagerID  *string `db:"assigned_manager_id"`
	EmployeeID *string `db:"assigned_employee_id"`

	FollowUpDate      *time.Time `db:"follow_up_date"`
	FollowUpNotes     string     `db:"follow_up_notes"`
	FollowUpStatus    string     `db:"follow_up_status"`
	FollowUpNextDate  *time.Time `db:"follow_up_next_date"`
	FollowUpCreatedBy *string    `db:"follow_up_created_by"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (l *Lead) AssignedManagerID() string {
	return deref(l.ManagerID)
}

func (l *Lead) AssignedEmployeeID() string {
	return deref(l.EmployeeID)
}

func (l *Lead) HasFollowUp() bool {
	return l.FollowUpDate != nil
}

// IsConverted reports whether the lead counts as a conversion.
func IsConverted(status string) bool {
	return status == StatusConverted || status == StatusClosed
}

// Assignees is the manager and employee slot pair of a lead.
type Assignees struct {
	ManagerID  *string
	EmployeeID *string
}

// UserRef is the public projection of a user referenced by a lead.
type UserRef struct {
	ID    string `db:"id"    json:"id"`
	Name  string `db:"name"  json:"name"`
	Email string `db:"email" json:"email"`
	Role  string `db:"role"  json:"-"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
