// AngelaMos | 2026
// dto.go

package task

import (
	"time"
)

type CreateTaskRequest struct {
	Description string    `json:"description" validate:"required,min=1,max=1000"`
	Priority    string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     time.Time `json:"dueDate"     validate:"required"`
	LeadID      *string   `json:"leadId"      validate:"omitempty,uuid"`
	LeadName    string    `json:"leadName"    validate:"max=200"`
	Company     string    `json:"company"     validate:"max=200"`
}

type UpdateTaskRequest struct {
	Description *string    `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	Priority    *string    `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	LeadID      *string    `json:"leadId,omitempty"      validate:"omitempty,uuid"`
	LeadName    *string    `json:"leadName,omitempty"    validate:"omitempty,max=200"`
	Company     *string    `json:"company,omitempty"     validate:"omitempty,max=200"`
	Completed   *bool      `json:"completed,omitempty"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
	LeadID      *string   `json:"leadId"`
	LeadName    string    `json:"leadName"`
	Company     string    `json:"company"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToTaskResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		EmployeeID:  t.EmployeeID,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		LeadID:      t.LeadID,
		LeadName:    t.LeadName,
		Company:     t.Company,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func ToTaskResponseList(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, ToTaskResponse(&tasks[i]))
	}
	return out
}
