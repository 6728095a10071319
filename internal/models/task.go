package models

import "time"

// Subtask is one element of the tasks.subtasks jsonb array.
type Subtask struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Status    bool     `json:"status"`
	LeaderID  *string  `json:"leader_id,omitempty"`
	MemberIDs []string `json:"member_ids,omitempty"`
}

// Task is a row of the tasks table.
type Task struct {
	ID          string     `db:"id" json:"id"`
	ProjectID   string     `db:"project_id" json:"project_id"`
	CreatorID   string     `db:"creator_id" json:"creator_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	AssigneeIDs []string   `db:"assignee_ids" json:"assignee_ids"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	Subtasks    []Subtask  `db:"subtasks" json:"subtasks"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

func (t Task) RowID() string { return t.ID }

func (Task) Columns() []string {
	return []string{"id", "project_id", "creator_id", "title", "description", "status",
		"priority", "assignee_ids", "due_date", "subtasks", "created_at"}
}

func (t Task) Values() []any {
	return []any{t.ID, t.ProjectID, t.CreatorID, t.Title, t.Description, t.Status,
		t.Priority, t.AssigneeIDs, t.DueDate, t.Subtasks, t.CreatedAt}
}
