// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=4,max=128"`
	Phone    string `json:"phone"    validate:"max=40"`
	Role     string `json:"role"     validate:"omitempty,oneof=employee manager admin"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty"            validate:"omitempty,min=1,max=100"`
	Email           *string `json:"email,omitempty"           validate:"omitempty,email,max=255"`
	Phone           *string `json:"phone,omitempty"           validate:"omitempty,max=40"`
	Role            *string `json:"role,omitempty"            validate:"omitempty,oneof=employee manager admin"`
	Status          *string `json:"status,omitempty"          validate:"omitempty,oneof=active leave inactive"`
	ProfileImage    *string `json:"profileImage,omitempty"    validate:"omitempty,max=2048"`
	CurrentPassword string  `json:"currentPassword,omitempty" validate:"required_with=Password"`
	Password        string  `json:"password,omitempty"        validate:"omitempty,min=4,max=128"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=employee manager admin"`
}

type PerformanceResponse struct {
	LeadsAssigned int     `json:"leadsAssigned"`
	Converted     int     `json:"converted"`
	TotalValue    float64 `json:"totalValue"`
}

type UserResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Role         string              `json:"role"`
	Status       string              `json:"status"`
	ProfileImage string              `json:"profileImage"`
	Performance  PerformanceResponse `json:"performance"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type ListUsersParams struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Status string
}

func (p ListUsersParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		Status:       u.Status,
		ProfileImage: u.ProfileImage,
		Performance: PerformanceResponse{
			LeadsAssigned: u.LeadsAssigned,
			Converted:     u.LeadsConverted,
			TotalValue:    u.TotalValue,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
