package models

import "time"

// Comment is a row of the comments table.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	TaskID    *string   `db:"task_id" json:"task_id"`
	ProjectID *string   `db:"project_id" json:"project_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (c Comment) RowID() string { return c.ID }

func (Comment) Columns() []string {
	return []string{"id", "task_id", "project_id", "user_id", "content", "created_at"}
}

func (c Comment) Values() []any {
	return []any{c.ID, c.TaskID, c.ProjectID, c.UserID, c.Content, c.CreatedAt}
}

// Attachment is a row of the attachments table.
type Attachment struct {
	ID        string    `db:"id" json:"id"`
	TaskID    *string   `db:"task_id" json:"task_id"`
	ProjectID *string   `db:"project_id" json:"project_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileURL   string    `db:"file_url" json:"file_url"`
	FileType  string    `db:"file_type" json:"file_type"`
	Size      int64     `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (a Attachment) RowID() string { return a.ID }

func (Attachment) Columns() []string {
	return []string{"id", "task_id", "project_id", "user_id", "file_name", "file_url",
		"file_type", "size", "created_at"}
}

func (a Attachment) Values() []any {
	return []any{a.ID, a.TaskID, a.ProjectID, a.UserID, a.FileName, a.FileURL,
		a.FileType, a.Size, a.CreatedAt}
}

// Notification is a row of the notifications table. It is also the payload of
// realtime insert events.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Link      *string   `db:"link" json:"link"`
}

func (n Notification) RowID() string { return n.ID }

func (Notification) Columns() []string {
	return []string{"id", "user_id", "title", "message", "type", "read", "created_at", "link"}
}

func (n Notification) Values() []any {
	return []any{n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt, n.Link}
}
