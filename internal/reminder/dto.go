// AngelaMos | 2026
// dto.go

package reminder

import (
	"time"
)

type CreateReminderRequest struct {
	Type   string    `json:"type"   validate:"omitempty,oneof=meeting call email calendar"`
	Title  string    `json:"title"  validate:"required,min=1,max=200"`
	Date   time.Time `json:"date"   validate:"required"`
	Client string    `json:"client" validate:"max=200"`
	Notes  string    `json:"notes"  validate:"max=5000"`
}

type UpdateReminderRequest struct {
	Type      *string    `json:"type,omitempty"      validate:"omitempty,oneof=meeting call email calendar"`
	Title     *string    `json:"title,omitempty"     validate:"omitempty,min=1,max=200"`
	Date      *time.Time `json:"date,omitempty"`
	Client    *string    `json:"client,omitempty"    validate:"omitempty,max=200"`
	Notes     *string    `json:"notes,omitempty"     validate:"omitempty,max=5000"`
	Completed *bool      `json:"completed,omitempty"`
}

type ReminderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Client    string    `json:"client"`
	Notes     string    `json:"notes"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToReminderResponse(r *Reminder) ReminderResponse {
	return ReminderResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      r.Type,
		Title:     r.Title,
		Date:      r.Date,
		Client:    r.Client,
		Notes:     r.Notes,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToReminderResponseList(reminders []Reminder) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(reminders))
	for i := range reminders {
		out = append(out, ToReminderResponse(&reminders[i]))
	}
	return out
}
