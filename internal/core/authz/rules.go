package authz

import "github.com/SscSPs/pm_dashboard_app/internal/core/domain"

// gate applies the rules shared by every resource: no actor denies, MASTER is
// allowed, a suspended actor may only look. ok=false means the caller decides.
func gate(actor *domain.User, action Action) (Verdict, bool) {
	if actor == nil {
		return Deny, true
	}
	if actor.Role == domain.RoleMaster {
		return AllowFull, true
	}
	if actor.IsSuspended() && action.IsMutating() {
		return Deny, true
	}
	return Deny, false
}

// CanEstablishSession reports whether user may sign in.
func CanEstablishSession(user *domain.User) bool {
	return user != nil && !user.IsSuspended()
}

// CompanyAccess decides actions on a company. ADMIN acts only inside its own
// company; USER may only view its own company. Only MASTER creates companies.
func CompanyAccess(actor *domain.User, company domain.Company, action Action) Verdict {
	if v, done := gate(actor, action); done {
		return v
	}
	own := actor.InCompany(company.ID)
	switch actor.Role {
	case domain.RoleAdmin:
		switch action {
		case ActionView, ActionEdit, ActionDelete:
			return allowIf(own)
		}
	case domain.RoleUser:
		if action == ActionView {
			return allowIf(own)
		}
	}
	return Deny
}

// CanCreateCompany reports whether actor may create a new tenant.
func CanCreateCompany(actor *domain.User) bool {
	v, _ := gate(actor, ActionCreate)
	return v.Full()
}

// CanViewProject reports whether actor may see project.
func CanViewProject(actor *domain.User, project domain.Project) bool {
	if v, done := gate(actor, ActionView); done {
		return v.Allowed()
	}
	return actor.InCompany(project.CompanyID) || project.IsMember(actor.ID)
}

// CanManageProject reports whether actor may edit project, change its members
// or its leader: an ADMIN of the project's company, or the project leader.
func CanManageProject(actor *domain.User, project domain.Project) bool {
	if v, done := gate(actor, ActionEdit); done {
		return v.Allowed()
	}
	if actor.Role == domain.RoleAdmin && actor.InCompany(project.CompanyID) {
		return true
	}
	return actor.ID == project.LeaderID
}

// CanCreateProject reports whether actor may create a project in companyID.
func CanCreateProject(actor *domain.User, companyID string) bool {
	if v, done := gate(actor, ActionCreate); done {
		return v.Allowed()
	}
	return actor.Role == domain.RoleAdmin && actor.InCompany(companyID)
}

// CanDeleteProject reports whether actor may delete project. The leader may
// manage a project but not remove it.
func CanDeleteProject(actor *domain.User, project domain.Project) bool {
	if v, done := gate(actor, ActionDelete); done {
		return v.Allowed()
	}
	return actor.Role == domain.RoleAdmin && actor.InCompany(project.CompanyID)
}

// ProjectAccess decides actions on a project.
func ProjectAccess(actor *domain.User, project domain.Project, action Action) Verdict {
	switch action {
	case ActionView:
		return allowIf(CanViewProject(actor, project))
	case ActionDelete:
		return allowIf(CanDeleteProject(actor, project))
	case ActionEdit, ActionManageMembers, ActionAssignLeader, ActionMutateStatus:
		return allowIf(CanManageProject(actor, project))
	case ActionCreate:
		return allowIf(CanCreateProject(actor, project.CompanyID))
	}
	return Deny
}

// TaskAccess decides actions on a task inside project. Editing is open to the
// company ADMIN, the project leader and the task creator; assignees get the
// status-only verdict for edit and status changes.
func TaskAccess(actor *domain.User, project domain.Project, task domain.Task, action Action) Verdict {
	if task.ProjectID != project.ID {
		return Deny
	}
	if v, done := gate(actor, action); done {
		return v
	}
	if !CanViewProject(actor, project) {
		return Deny
	}
	manager := (actor.Role == domain.RoleAdmin && actor.InCompany(project.CompanyID)) ||
		actor.ID == project.LeaderID ||
		actor.ID == task.CreatorID

	switch action {
	case ActionView:
		return AllowFull
	case ActionEdit, ActionMutateStatus:
		if manager {
			return AllowFull
		}
		if task.IsAssignee(actor.ID) {
			return AllowLimited
		}
	case ActionDelete:
		return allowIf(manager)
	}
	return Deny
}

// CanCreateTask reports whether actor may add a task to project: anyone who
// manages the project or takes part in it.
func CanCreateTask(actor *domain.User, project domain.Project) bool {
	if v, done := gate(actor, ActionCreate); done {
		return v.Allowed()
	}
	return CanManageProject(actor, project) || project.IsMember(actor.ID)
}

// CanContribute reports whether actor may post a comment or an attachment on
// a project or one of its tasks: anyone who can see the project.
func CanContribute(actor *domain.User, project domain.Project) bool {
	if v, done := gate(actor, ActionCreate); done {
		return v.Allowed()
	}
	return CanViewProject(actor, project)
}

// CanDeleteAttachment reports whether actor may remove attachment. task is nil
// when the attachment hangs directly off project.
func CanDeleteAttachment(actor *domain.User, attachment domain.Attachment, project domain.Project, task *domain.Task) bool {
	return canDeleteContribution(actor, attachment.UserID, project, task)
}

// CanDeleteComment applies the attachment rule to comments: author or manager.
func CanDeleteComment(actor *domain.User, comment domain.Comment, project domain.Project, task *domain.Task) bool {
	return canDeleteContribution(actor, comment.UserID, project, task)
}

func canDeleteContribution(actor *domain.User, authorID string, project domain.Project, task *domain.Task) bool {
	if v, done := gate(actor, ActionDelete); done {
		return v.Allowed()
	}
	if actor.ID == authorID {
		return true
	}
	if task != nil {
		return TaskAccess(actor, project, *task, ActionEdit).Full()
	}
	return CanManageProject(actor, project)
}

// UserAccess decides actions on a user record. Nobody, MASTER included, may
// delete or suspend themselves. Self edits are limited to profile fields;
// MASTER and same-company ADMIN edit everything.
func UserAccess(actor *domain.User, target domain.User, action Action) Verdict {
	if actor == nil {
		return Deny
	}
	self := actor.ID == target.ID
	if self && (action == ActionDelete || action == ActionSuspend) {
		return Deny
	}
	if v, done := gate(actor, action); done {
		return v
	}
	adminOfTarget := actor.Role == domain.RoleAdmin && actor.SameCompany(target) && target.Role != domain.RoleMaster

	switch action {
	case ActionView:
		return allowIf(self || actor.SameCompany(target))
	case ActionEdit:
		if adminOfTarget {
			return AllowFull
		}
		if self {
			return AllowLimited
		}
	case ActionDelete, ActionSuspend, ActionChangeRole:
		if self {
			return Deny
		}
		return allowIf(adminOfTarget)
	}
	return Deny
}

// CanAssignRole reports whether actor may hand out role. ADMIN never grants MASTER.
func CanAssignRole(actor *domain.User, role domain.Role) bool {
	if v, done := gate(actor, ActionChangeRole); done {
		return v.Allowed() && role.IsValid()
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return role == domain.RoleAdmin || role == domain.RoleUser
	}
	return false
}

// CanProvisionUsers reports whether actor may create new authenticated identities.
func CanProvisionUsers(actor *domain.User) bool {
	if v, done := gate(actor, ActionProvisionUsers); done {
		return v.Allowed()
	}
	return actor.Role == domain.RoleAdmin
}

// EffectiveProvisioningCompany returns the company a new user will be created
// in. ADMIN callers are always pinned to their own company.
func EffectiveProvisioningCompany(actor *domain.User, requested *string) *string {
	if actor != nil && actor.Role == domain.RoleAdmin {
		if actor.CompanyID == nil {
			return nil
		}
		pinned := *actor.CompanyID
		return &pinned
	}
	if requested == nil || *requested == "" {
		return nil
	}
	req := *requested
	return &req
}

// NotificationAccess decides actions on a notification: only its recipient
// reads or acknowledges it.
func NotificationAccess(actor *domain.User, n domain.Notification, action Action) Verdict {
	if v, done := gate(actor, action); done {
		return v
	}
	switch action {
	case ActionView, ActionMarkRead:
		return allowIf(actor.ID == n.UserID)
	}
	return Deny
}

// CanNotify reports whether actor may send a notification to recipient.
// MASTER reaches anyone; everyone else only themselves and their own company.
// A nil recipient is a user the actor cannot see.
func CanNotify(actor *domain.User, recipient *domain.User) bool {
	if v, done := gate(actor, ActionCreate); done {
		return v.Allowed()
	}
	if recipient == nil {
		return false
	}
	return actor.ID == recipient.ID || actor.SameCompany(*recipient)
}

// CanViewUser reports whether actor may list target: MASTER sees everybody,
// everyone else their own company and themselves.
func CanViewUser(actor *domain.User, target domain.User) bool {
	return UserAccess(actor, target, ActionView).Allowed()
}
