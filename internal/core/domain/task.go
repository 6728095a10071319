package domain

import (
	"slices"
	"time"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// IsValid reports whether s is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Subtask is an ordered checklist item inside a task.
type Subtask struct {
	ID        string   `json:"id"`
	Title     string   `json:"title" validate:"required,min=1,max=500"`
	Done      bool     `json:"status"`
	LeaderID  *string  `json:"leaderId,omitempty"`
	MemberIDs []string `json:"memberIds"`
}

// Task belongs to a project and carries its subtasks inline.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	CreatorID   string     `json:"creatorId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	AssigneeIDs []string   `json:"assigneeIds"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Subtasks    []Subtask  `json:"subtasks"`
}

// IsAssignee reports whether userID is assigned to the task.
func (t Task) IsAssignee(userID string) bool {
	return containsID(t.AssigneeIDs, userID)
}

// SubtaskIndex returns the position of the subtask with id, or -1.
func (t Task) SubtaskIndex(id string) int {
	return slices.IndexFunc(t.Subtasks, func(s Subtask) bool { return s.ID == id })
}

// Clone returns a deep copy of t, subtasks included.
func (t Task) Clone() Task {
	c := t
	c.Description = clonePtr(t.Description)
	c.DueDate = clonePtr(t.DueDate)
	c.AssigneeIDs = slices.Clone(t.AssigneeIDs)
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		for i, st := range t.Subtasks {
			c.Subtasks[i] = st.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of s.
func (s Subtask) Clone() Subtask {
	c := s
	c.LeaderID = clonePtr(s.LeaderID)
	c.MemberIDs = slices.Clone(s.MemberIDs)
	return c
}

// NewTaskRequest is the input for creating a task. The creator is always the actor.
type NewTaskRequest struct {
	ProjectID   string     `json:"projectId" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=500"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      TaskStatus `json:"status" validate:"required,oneof=todo in-progress done"`
	Priority    Priority   `json:"priority" validate:"required,oneof=low medium high"`
	AssigneeIDs []string   `json:"assigneeIds" validate:"dive,required"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Subtasks    []Subtask  `json:"subtasks" validate:"dive"`
}

// TaskPatch lists the task fields an update may touch.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      *TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=todo in-progress done"`
	Priority    *Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AssigneeIDs *[]string   `json:"assigneeIds,omitempty"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
	ClearDue    bool        `json:"clearDueDate,omitempty"`
	Subtasks    *[]Subtask  `json:"subtasks,omitempty" validate:"omitempty,dive"`
}

// OnlyStatus reports whether the patch changes the status and nothing else.
func (p TaskPatch) OnlyStatus() bool {
	return p.Status != nil && p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.AssigneeIDs == nil && p.DueDate == nil && !p.ClearDue && p.Subtasks == nil
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeIDs != nil {
		t.AssigneeIDs = append([]string{}, (*p.AssigneeIDs)...)
	}
	if p.ClearDue {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]Subtask{}, (*p.Subtasks)...)
	}
	return t
}
