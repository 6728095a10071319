package domain

import "time"

// Comment is an immutable note on a task or a project.
type Comment struct {
	ID        string    `json:"id"`
	Target              // Exactly one of taskId / projectId
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy of c that shares no pointers with it.
func (c Comment) Clone() Comment {
	c.Target = c.Target.Clone()
	return c
}

// NewCommentRequest is the input for posting a comment. The author is always the actor.
type NewCommentRequest struct {
	Target
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// Attachment is file metadata attached to a task or a project.
type Attachment struct {
	ID        string    `json:"id"`
	Target              // Exactly one of taskId / projectId
	UserID    string    `json:"userId"` // Uploader
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl"`
	FileType  string    `json:"fileType"`
	Size      int64     `json:"size"` // Bytes
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy of a that shares no pointers with it.
func (a Attachment) Clone() Attachment {
	a.Target = a.Target.Clone()
	return a
}

// NewAttachmentRequest is the input for registering an uploaded file.
type NewAttachmentRequest struct {
	Target
	FileName string `json:"fileName" validate:"required,min=1,max=255"`
	FileURL  string `json:"fileUrl" validate:"required,url"`
	FileType string `json:"fileType" validate:"required,max=255"`
	Size     int64  `json:"size" validate:"gte=0"`
}

// NotificationType is the severity shown with a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is a system generated message addressed to one user.
// Read only ever moves from false to true.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"` // Recipient
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	Link      *string          `json:"link,omitempty"`
}

// Clone returns a copy of n that shares no pointers with it.
func (n Notification) Clone() Notification {
	n.Link = clonePtr(n.Link)
	return n
}

// NewNotificationRequest is the input for emitting a notification.
type NewNotificationRequest struct {
	UserID  string           `json:"userId" validate:"required"`
	Title   string           `json:"title" validate:"required,max=200"`
	Message string           `json:"message" validate:"required,max=2000"`
	Type    NotificationType `json:"type" validate:"required,oneof=info success warning error"`
	Link    *string          `json:"link,omitempty"`
}
