// AngelaMos | 2026
// events_test.go

package events

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

var (
	_ Publisher = NopPublisher{}
	_ Publisher = (*AMQPPublisher)(nil)
)

func TestLeadAssignmentJSON(t *testing.T) {
	manager := "m-1"
	previous := "e-0"

	evt := LeadAssignment{
		Type:               LeadAssigned,
		Kind:               "manager",
		LeadID:             "l-1",
		ManagerID:          &manager,
		PreviousEmployeeID: &previous,
		ActorID:            "a-1",
		OccurredAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := map[string]any{
		"type":               "lead.assigned",
		"kind":               "manager",
		"leadId":             "l-1",
		"managerId":          "m-1",
		"employeeId":         nil,
		"previousManagerId":  nil,
		"previousEmployeeId": "e-0",
		"actorId":            "a-1",
		"occurredAt":         "2026-03-01T09:30:00Z",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("payload = %v\nwant      %v", got, want)
	}
}

func TestLeadAssignmentOmitsEmptyActor(t *testing.T) {
	raw, err := json.Marshal(LeadAssignment{Type: LeadUnassigned, LeadID: "l-1"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := got["actorId"]; ok {
		t.Errorf("actorId present in %s", raw)
	}
	if got["type"] != "lead.unassigned" {
		t.Errorf("type = %v", got["type"])
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	if err := p.Publish(context.Background(), LeadAssigned, LeadAssignment{}); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewAMQPPublisherRejectsBadURL(t *testing.T) {
	if _, err := NewAMQPPublisher("http://localhost:5672", "leadflow.events", "test"); err == nil {
		t.Error("expected error for non-amqp url")
	}
}

func TestAMQPPublisherPingWithoutConnection(t *testing.T) {
	p := &AMQPPublisher{}
	if err := p.Ping(context.Background()); err == nil {
		t.Error("expected error when no connection is open")
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
