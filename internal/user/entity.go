// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/leadflow/internal/policy"
)

type User struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	Phone          string    `db:"phone"`
	Role           string    `db:"role"`
	Status         string    `db:"status"`
	ProfileImage   string    `db:"profile_image"`
	LeadsAssigned  int       `db:"leads_assigned"`
	LeadsConverted int       `db:"leads_converted"`
	TotalValue     float64   `db:"total_value"`
	TokenVersion   int       `db:"token_version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleEmployee = policy.RoleEmployee
	RoleManager  = policy.RoleManager
	RoleAdmin    = policy.RoleAdmin
)

const (
	StatusActive   = "active"
	StatusLeave    = "leave"
	StatusInactive = "inactive"
)

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}
