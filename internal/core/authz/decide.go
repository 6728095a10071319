package authz

import "github.com/SscSPs/pm_dashboard_app/internal/core/domain"

// Resource is a target entity together with the context needed to judge it.
type Resource interface {
	decide(actor *domain.User, action Action) Verdict
}

// CompanyResource targets a company.
type CompanyResource struct{ Company domain.Company }

// ProjectResource targets a project.
type ProjectResource struct{ Project domain.Project }

// TaskResource targets a task; Project is its parent.
type TaskResource struct {
	Project domain.Project
	Task    domain.Task
}

// AttachmentResource targets an attachment; Task is nil for project attachments.
type AttachmentResource struct {
	Project    domain.Project
	Task       *domain.Task
	Attachment domain.Attachment
}

// CommentResource targets a comment; Task is nil for project comments.
type CommentResource struct {
	Project domain.Project
	Task    *domain.Task
	Comment domain.Comment
}

// UserResource targets a user record.
type UserResource struct{ User domain.User }

// NotificationResource targets a notification. Recipient is only consulted
// on create and is nil when the recipient is unknown.
type NotificationResource struct {
	Notification domain.Notification
	Recipient    *domain.User
}

func (r CompanyResource) decide(actor *domain.User, action Action) Verdict {
	if action == ActionCreate {
		return allowIf(CanCreateCompany(actor))
	}
	return CompanyAccess(actor, r.Company, action)
}

func (r ProjectResource) decide(actor *domain.User, action Action) Verdict {
	return ProjectAccess(actor, r.Project, action)
}

func (r TaskResource) decide(actor *domain.User, action Action) Verdict {
	if action == ActionCreate {
		return allowIf(CanCreateTask(actor, r.Project))
	}
	return TaskAccess(actor, r.Project, r.Task, action)
}

func (r AttachmentResource) decide(actor *domain.User, action Action) Verdict {
	switch action {
	case ActionView:
		return allowIf(CanViewProject(actor, r.Project))
	case ActionCreate:
		return allowIf(CanContribute(actor, r.Project))
	case ActionDelete:
		return allowIf(CanDeleteAttachment(actor, r.Attachment, r.Project, r.Task))
	}
	return Deny
}

func (r CommentResource) decide(actor *domain.User, action Action) Verdict {
	switch action {
	case ActionView:
		return allowIf(CanViewProject(actor, r.Project))
	case ActionCreate:
		return allowIf(CanContribute(actor, r.Project))
	case ActionDelete:
		return allowIf(CanDeleteComment(actor, r.Comment, r.Project, r.Task))
	}
	// Comments have no edit operation.
	return Deny
}

func (r UserResource) decide(actor *domain.User, action Action) Verdict {
	if action == ActionProvisionUsers || action == ActionCreate {
		return allowIf(CanProvisionUsers(actor))
	}
	return UserAccess(actor, r.User, action)
}

func (r NotificationResource) decide(actor *domain.User, action Action) Verdict {
	if action == ActionCreate {
		return allowIf(CanNotify(actor, r.Recipient))
	}
	return NotificationAccess(actor, r.Notification, action)
}

// Decide is the single entry point used by view filters and mutation actions.
func Decide(actor *domain.User, resource Resource, action Action) Verdict {
	if resource == nil {
		return Deny
	}
	return resource.decide(actor, action)
}
