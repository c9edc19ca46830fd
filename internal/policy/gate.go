// AngelaMos | 2026
// gate.go

// Package policy is the central authorization checkpoint. A Gate holds one
// Policy per resource type and answers (subject, action, resource) with
// allow or deny.
package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carterperez-dev/leadflow/internal/core"
)

var ErrNoPolicyDefined = errors.New("no policy defined for resource type")

type Action string

const (
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Subject is the authenticated caller.
type Subject struct {
	ID   string
	Role string
}

func (s Subject) IsZero() bool {
	return s.ID == ""
}

func (s Subject) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type Policy interface {
	Can(ctx context.Context, sub Subject, action Action, resource any) bool
}

type PolicyFunc func(ctx context.Context, sub Subject, action Action, resource any) bool

func (f PolicyFunc) Can(ctx context.Context, sub Subject, action Action, resource any) bool {
	return f(ctx, sub, action, resource)
}

type Gate struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// Register sets the policy for resourceType, replacing any previous one.
func (g *Gate) Register(resourceType string, p Policy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policies[resourceType] = p
}

// Authorize returns nil when sub may perform action on resource. A zero
// subject is core.ErrUnauthorized, a denial is core.ErrForbidden.
func (g *Gate) Authorize(
	ctx context.Context,
	sub Subject,
	action Action,
	resourceType string,
	resource any,
) error {
	if sub.IsZero() {
		return fmt.Errorf("%s %s: %w", action, resourceType, core.ErrUnauthorized)
	}

	g.mu.RLock()
	p, ok := g.policies[resourceType]
	g.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", resourceType, ErrNoPolicyDefined)
	}

	if !p.Can(ctx, sub, action, resource) {
		return fmt.Errorf("%s %s: %w", action, resourceType, core.ErrForbidden)
	}

	return nil
}

func (g *Gate) Can(
	ctx context.Context,
	sub Subject,
	action Action,
	resourceType string,
	resource any,
) bool {
	return g.Authorize(ctx, sub, action, resourceType, resource) == nil
}
