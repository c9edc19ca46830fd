// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/leadflow/internal/auth"
	"github.com/carterperez-dev/leadflow/internal/core"
	"github.com/carterperez-dev/leadflow/internal/middleware"
	"github.com/carterperez-dev/leadflow/internal/policy"
)

var ErrWrongPassword = errors.New("current password is incorrect")

type Service struct {
	repo   Repository
	hasher *core.PasswordHasher
	gate   *policy.Gate
}

func NewService(repo Repository, hasher *core.PasswordHasher, gate *policy.Gate) *Service {
	return &Service{repo: repo, hasher: hasher, gate: gate}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	account auth.NewAccount,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Name:         account.Name,
		Email:        normalizeEmail(account.Email),
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		Status:       StatusActive,
	}
	if user.Role == "" {
		user.Role = RoleEmployee
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// ResolveIdentity loads the account behind an access token subject.
func (s *Service) ResolveIdentity(
	ctx context.Context,
	userID string,
) (*middleware.Identity, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("list by role: invalid role %q: %w", role, core.ErrInvalidInput)
	}

	return s.repo.ListByRole(ctx, role)
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByRole(ctx)
}

// CreateUser is the admin path for adding an account with any role.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleEmployee
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		Role:         role,
		Status:       StatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser applies a partial profile update on behalf of sub. Role and
// status changes need an admin; a password change needs the current one.
func (s *Service) UpdateUser(
	ctx context.Context,
	sub policy.Subject,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	change := policy.UserChange{
		TargetID:      id,
		ChangesRole:   req.Role != nil,
		ChangesStatus: req.Status != nil,
	}
	if err := s.gate.Authorize(ctx, sub, policy.ActionUpdate, policy.ResourceUser, change); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}

	if req.Password != "" {
		valid, err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("verify password: %w", err)
		}
		if !valid {
			return nil, ErrWrongPassword
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != "" {
		if err := s.changePassword(ctx, user, req.Password); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *Service) changePassword(ctx context.Context, user *User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	if err := s.repo.IncrementTokenVersion(ctx, user.ID); err != nil {
		return err
	}

	user.PasswordHash = hash
	user.TokenVersion++

	return nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the account. Leads it was assigned to fall back to
// unassigned; its reminders and tasks go with it.
func (s *Service) DeleteUser(ctx context.Context, requesterID, targetID string) error {
	if requesterID == targetID {
		return fmt.Errorf("delete user: cannot delete own account: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, targetID)
}

// EnsureAdmin creates the admin account when no user owns email yet.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	admin, err := s.CreateUser(ctx, CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	slog.InfoContext(ctx, "admin account created", "user_id", admin.ID, "email", admin.Email)

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}

var (
	_ auth.UserProvider           = (*Service)(nil)
	_ middleware.IdentityResolver = (*Service)(nil)
)
