// AngelaMos | 2026
// rules.go

package policy

import "context"

// Owned is implemented by records that belong to a single user.
type Owned interface {
	OwnerID() string
}

// Assigned is implemented by records with a manager and an employee slot.
// An empty id means the slot is unassigned.
type Assigned interface {
	AssignedManagerID() string
	AssignedEmployeeID() string
}

// UserChange describes an update to the user TargetID.
type UserChange struct {
	TargetID      string
	ChangesRole   bool
	ChangesStatus bool
}

// Scope is a listing restricted to the records of one user acting as Role.
type Scope struct {
	Role   string
	UserID string
}

// Rules maps actions to policies. Actions without an entry are denied.
type Rules map[Action]Policy

func (r Rules) Can(ctx context.Context, sub Subject, action Action, resource any) bool {
	p, ok := r[action]
	if !ok {
		return false
	}
	return p.Can(ctx, sub, action, resource)
}

// Same applies p to every listed action.
func Same(p Policy, actions ...Action) Rules {
	r := make(Rules, len(actions))
	for _, a := range actions {
		r[a] = p
	}
	return r
}

var Allow Policy = PolicyFunc(func(context.Context, Subject, Action, any) bool {
	return true
})

func HasRole(roles ...string) Policy {
	return PolicyFunc(func(_ context.Context, sub Subject, _ Action, _ any) bool {
		for _, role := range roles {
			if sub.Role == role {
				return true
			}
		}
		return false
	})
}

func AnyOf(policies ...Policy) Policy {
	return PolicyFunc(func(ctx context.Context, sub Subject, action Action, resource any) bool {
		for _, p := range policies {
			if p.Can(ctx, sub, action, resource) {
				return true
			}
		}
		return false
	})
}

func AllOf(policies ...Policy) Policy {
	return PolicyFunc(func(ctx context.Context, sub Subject, action Action, resource any) bool {
		for _, p := range policies {
			if !p.Can(ctx, sub, action, resource) {
				return false
			}
		}
		return true
	})
}

// AdminBypass allows admins unconditionally and defers to p otherwise.
func AdminBypass(p Policy) Policy {
	return AnyOf(HasRole(RoleAdmin), p)
}

func IsOwner() Policy {
	return PolicyFunc(func(_ context.Context, sub Subject, _ Action, resource any) bool {
		o, ok := resource.(Owned)
		return ok && o.OwnerID() != "" && o.OwnerID() == sub.ID
	})
}

// IsAssignedManager holds for a manager who manages the record.
func IsAssignedManager() Policy {
	return PolicyFunc(func(_ context.Context, sub Subject, _ Action, resource any) bool {
		a, ok := resource.(Assigned)
		return ok && sub.Role == RoleManager && a.AssignedManagerID() == sub.ID
	})
}

// IsAssignedEmployee holds for an employee who works the record.
func IsAssignedEmployee() Policy {
	return PolicyFunc(func(_ context.Context, sub Subject, _ Action, resource any) bool {
		a, ok := resource.(Assigned)
		return ok && sub.Role == RoleEmployee && a.AssignedEmployeeID() == sub.ID
	})
}

func isSelf() Policy {
	return PolicyFunc(func(_ context.Context, sub Subject, _ Action, resource any) bool {
		switch v := resource.(type) {
		case UserChange:
			return v.TargetID == sub.ID
		case Scope:
			return v.UserID == sub.ID
		case string:
			return v == sub.ID
		}
		return false
	})
}

func privilegedFieldsUntouched() Policy {
	return PolicyFunc(func(_ context.Context, _ Subject, _ Action, resource any) bool {
		c, ok := resource.(UserChange)
		return ok && !c.ChangesRole && !c.ChangesStatus
	})
}

func scopeRole(role string) Policy {
	return PolicyFunc(func(_ context.Context, _ Subject, _ Action, resource any) bool {
		s, ok := resource.(Scope)
		return ok && s.Role == role
	})
}

const (
	ResourceLead     = "lead"
	ResourceFollowUp = "followup"
	ResourceReminder = "reminder"
	ResourceTask     = "task"
	ResourceUser     = "user"
	ResourceScope    = "lead_scope"
)

// New returns a Gate with the access rules of every resource registered.
func New() *Gate {
	g := NewGate()

	managerOrAdmin := HasRole(RoleManager, RoleAdmin)

	g.Register(ResourceReminder, AdminBypass(IsOwner()))
	g.Register(ResourceTask, AdminBypass(IsOwner()))

	g.Register(ResourceLead, Rules{
		ActionView:   Allow,
		ActionList:   Allow,
		ActionCreate: managerOrAdmin,
		ActionDelete: managerOrAdmin,
		ActionUpdate: AnyOf(managerOrAdmin, IsAssignedEmployee()),
	})

	g.Register(ResourceFollowUp, Rules{
		ActionView:   Allow,
		ActionList:   Allow,
		ActionUpdate: AdminBypass(AnyOf(IsAssignedManager(), IsAssignedEmployee())),
	})

	g.Register(ResourceUser, Rules{
		ActionView:   AnyOf(managerOrAdmin, isSelf()),
		ActionList:   managerOrAdmin,
		ActionCreate: HasRole(RoleAdmin),
		ActionDelete: HasRole(RoleAdmin),
		ActionUpdate: AdminBypass(AllOf(isSelf(), privilegedFieldsUntouched())),
	})

	g.Register(ResourceScope, Rules{
		ActionList: AnyOf(
			AllOf(scopeRole(RoleEmployee), AnyOf(isSelf(), managerOrAdmin)),
			AllOf(scopeRole(RoleManager), AdminBypass(isSelf())),
		),
	})

	return g
}
