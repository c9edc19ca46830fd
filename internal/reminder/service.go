// AngelaMos | 2026
// service.go

package reminder

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/leadflow/internal/policy"
)

type Service struct {
	repo Repository
	gate *policy.Gate
}

func NewService(repo Repository, gate *policy.Gate) *Service {
	return &Service{repo: repo, gate: gate}
}

// List returns the caller's reminders, soonest first.
func (s *Service) List(ctx context.Context, sub policy.Subject) ([]Reminder, error) {
	return s.repo.ListByUser(ctx, sub.ID)
}

func (s *Service) Get(ctx context.Context, sub policy.Subject, id string) (*Reminder, error) {
	return s.load(ctx, sub, policy.ActionView, id)
}

func (s *Service) Create(
	ctx context.Context,
	sub policy.Subject,
	req CreateReminderRequest,
) (*Reminder, error) {
	reminder := &Reminder{
		ID:     uuid.New().String(),
		UserID: sub.ID,
		Type:   req.Type,
		Title:  strings.TrimSpace(req.Title),
		Date:   req.Date,
		Client: strings.TrimSpace(req.Client),
		Notes:  strings.TrimSpace(req.Notes),
	}
	if reminder.Type == "" {
		reminder.Type = TypeMeeting
	}

	if err := s.gate.Authorize(ctx, sub, policy.ActionCreate, policy.ResourceReminder, reminder); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

func (s *Service) Update(
	ctx context.Context,
	sub policy.Subject,
	id string,
	req UpdateReminderRequest,
) (*Reminder, error) {
	reminder, err := s.load(ctx, sub, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		reminder.Type = *req.Type
	}
	if req.Title != nil {
		reminder.Title = strings.TrimSpace(*req.Title)
	}
	if req.Date != nil {
		reminder.Date = *req.Date
	}
	if req.Client != nil {
		reminder.Client = strings.TrimSpace(*req.Client)
	}
	if req.Notes != nil {
		reminder.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Completed != nil {
		reminder.Completed = *req.Completed
	}

	if err := s.repo.Update(ctx, reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

func (s *Service) Toggle(ctx context.Context, sub policy.Subject, id string) (*Reminder, error) {
	if _, err := s.load(ctx, sub, policy.ActionUpdate, id); err != nil {
		return nil, err
	}

	return s.repo.Toggle(ctx, id)
}

func (s *Service) Delete(ctx context.Context, sub policy.Subject, id string) error {
	if _, err := s.load(ctx, sub, policy.ActionDelete, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) load(
	ctx context.Context,
	sub policy.Subject,
	action policy.Action,
	id string,
) (*Reminder, error) {
	reminder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, sub, action, policy.ResourceReminder, reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}
