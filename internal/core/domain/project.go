package domain

import (
	"slices"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// IsValid reports whether s is one of the known project statuses.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// Project belongs to exactly one company; CompanyID never changes after creation.
type Project struct {
	ID          string        `json:"id"`
	CompanyID   string        `json:"companyId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	LeaderID    string        `json:"leaderId"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	StartDate   time.Time     `json:"startDate"`
	DueDate     time.Time     `json:"dueDate"`
	Members     []string      `json:"members"` // User IDs, leader not necessarily included
}

// IsMember reports whether userID takes part in the project. The leader always does.
func (p Project) IsMember(userID string) bool {
	if userID == "" {
		return false
	}
	return p.LeaderID == userID || slices.Contains(p.Members, userID)
}

// Clone returns a deep copy of p.
func (p Project) Clone() Project {
	c := p
	c.Members = slices.Clone(p.Members)
	return c
}

// NewProjectRequest is the input for creating a project.
type NewProjectRequest struct {
	CompanyID   string        `json:"companyId" validate:"required"`
	Name        string        `json:"name" validate:"required,min=1,max=200"`
	Description string        `json:"description" validate:"max=5000"`
	LeaderID    string        `json:"leaderId" validate:"required"`
	Status      ProjectStatus `json:"status" validate:"required,oneof=active on-hold completed"`
	Priority    Priority      `json:"priority" validate:"required,oneof=low medium high"`
	StartDate   time.Time     `json:"startDate" validate:"required"`
	DueDate     time.Time     `json:"dueDate" validate:"required,gtefield=StartDate"`
	Members     []string      `json:"members" validate:"dive,required"`
}

// ProjectPatch lists the project fields an update may touch. CompanyID is absent on purpose.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=5000"`
	LeaderID    *string        `json:"leaderId,omitempty" validate:"omitempty,min=1"`
	Status      *ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=active on-hold completed"`
	Priority    *Priority      `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Members     *[]string      `json:"members,omitempty"`
}

// OnlyStatus reports whether the patch changes the status and nothing else.
func (p ProjectPatch) OnlyStatus() bool {
	return p.Status != nil && p.Name == nil && p.Description == nil && p.LeaderID == nil &&
		p.Priority == nil && p.StartDate == nil && p.DueDate == nil && p.Members == nil
}

// Apply returns a copy of pr with the patch applied.
func (p ProjectPatch) Apply(pr Project) Project {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.LeaderID != nil {
		pr.LeaderID = *p.LeaderID
	}
	if p.Status != nil {
		pr.Status = *p.Status
	}
	if p.Priority != nil {
		pr.Priority = *p.Priority
	}
	if p.StartDate != nil {
		pr.StartDate = *p.StartDate
	}
	if p.DueDate != nil {
		pr.DueDate = *p.DueDate
	}
	if p.Members != nil {
		pr.Members = append([]string{}, (*p.Members)...)
	}
	return pr
}
