// AngelaMos | 2026
// events.go

package events

import (
	"context"
	"time"
)

const (
	LeadAssigned   = "lead.assigned"
	LeadUnassigned = "lead.unassigned"
)

// LeadAssignment is emitted after an assignment change is committed.
type LeadAssignment struct {
	Type               string    `json:"type"`
	Kind               string    `json:"kind"`
	LeadID             string    `json:"leadId"`
	ManagerID          *string   `json:"managerId"`
	EmployeeID         *string   `json:"employeeId"`
	PreviousManagerID  *string   `json:"previousManagerId"`
	PreviousEmployeeID *string   `json:"previousEmployeeId"`
	ActorID            string    `json:"actorId,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, v any) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }
