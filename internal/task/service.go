// AngelaMos | 2026
// service.go

package task

import (
	"context"
	"sort"
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

// List returns the caller's tasks by due date, then high priority first.
func (s *Service) List(ctx context.Context, sub policy.Subject) ([]Task, error) {
	tasks, err := s.repo.ListByEmployee(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	SortTasks(tasks)
	return tasks, nil
}

func (s *Service) Get(ctx context.Context, sub policy.Subject, id string) (*Task, error) {
	return s.load(ctx, sub, policy.ActionView, id)
}

func (s *Service) Create(
	ctx context.Context,
	sub policy.Subject,
	req CreateTaskRequest,
) (*Task, error) {
	task := &Task{
		ID:          uuid.New().String(),
		EmployeeID:  sub.ID,
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		LeadID:      req.LeadID,
		LeadName:    strings.TrimSpace(req.LeadName),
		Company:     strings.TrimSpace(req.Company),
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}

	if err := s.gate.Authorize(ctx, sub, policy.ActionCreate, policy.ResourceTask, task); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) Update(
	ctx context.Context,
	sub policy.Subject,
	id string,
	req UpdateTaskRequest,
) (*Task, error) {
	task, err := s.load(ctx, sub, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.LeadID != nil {
		task.LeadID = req.LeadID
	}
	if req.LeadName != nil {
		task.LeadName = strings.TrimSpace(*req.LeadName)
	}
	if req.Company != nil {
		task.Company = strings.TrimSpace(*req.Company)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Service) Toggle(ctx context.Context, sub policy.Subject, id string) (*Task, error) {
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
) (*Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, sub, action, policy.ResourceTask, task); err != nil {
		return nil, err
	}

	return task, nil
}

// SortTasks orders tasks by due date, breaking ties high to low priority.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		return priorityRank(tasks[i].Priority) < priorityRank(tasks[j].Priority)
	})
}
