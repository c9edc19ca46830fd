// AngelaMos | 2026
// entity.go

package reminder

import (
	"time"
)

const (
	TypeMeeting  = "meeting"
	TypeCall     = "call"
	TypeEmail    = "email"
	TypeCalendar = "calendar"
)

// Reminder is a personal agenda entry owned by one user.
type Reminder struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Date      time.Time `db:"date"`
	Client    string    `db:"client"`
	Notes     string    `db:"notes"`
	Completed bool      `db:"completed"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *Reminder) OwnerID() string {
	return r.UserID
}
