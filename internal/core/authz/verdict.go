// Package authz decides, for an actor and a target entity, what the actor may
// see and change. Every function here is pure: no I/O, no shared state.
package authz

// Action is the operation being checked.
type Action string

const (
	ActionView           Action = "view"
	ActionCreate         Action = "create"
	ActionEdit           Action = "edit"
	ActionDelete         Action = "delete"
	ActionManageMembers  Action = "manage-members"
	ActionAssignLeader   Action = "assign-leader"
	ActionMutateStatus   Action = "mutate-status"
	ActionSuspend        Action = "suspend"
	ActionChangeRole     Action = "change-role"
	ActionMarkRead       Action = "mark-read"
	ActionProvisionUsers Action = "provision-users"
)

// IsMutating reports whether the action changes state.
func (a Action) IsMutating() bool {
	return a != ActionView
}

// Verdict is the outcome of a decision.
type Verdict int

const (
	// Deny refuses the action.
	Deny Verdict = iota
	// AllowLimited permits only the narrow form of the action: status fields on
	// tasks and subtasks, or self-service profile fields on one's own user.
	AllowLimited
	// AllowFull permits the action without restriction.
	AllowFull
)

func (v Verdict) String() string {
	switch v {
	case AllowFull:
		return "allow-full"
	case AllowLimited:
		return "allow-status-only"
	default:
		return "deny"
	}
}

// Allowed reports whether the verdict permits at least the limited form.
func (v Verdict) Allowed() bool {
	return v != Deny
}

// Full reports whether the verdict permits the unrestricted form.
func (v Verdict) Full() bool {
	return v == AllowFull
}

func allowIf(ok bool) Verdict {
	if ok {
		return AllowFull
	}
	return Deny
}
