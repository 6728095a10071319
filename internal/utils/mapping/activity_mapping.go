package mapping

import (
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
)

func toDomainTarget(taskID, projectID *string) domain.Target {
	return domain.Target{TaskID: emptyToNil(taskID), ProjectID: emptyToNil(projectID)}
}

// ToModelComment converts a domain Comment to a comments row
func ToModelComment(d domain.Comment) models.Comment {
	return models.Comment{
		ID:        d.ID,
		TaskID:    emptyToNil(d.TaskID),
		ProjectID: emptyToNil(d.ProjectID),
		UserID:    d.UserID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainComment converts a comments row to a domain Comment
func ToDomainComment(m models.Comment) domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		Target:    toDomainTarget(m.TaskID, m.ProjectID),
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainCommentSlice converts a slice of comments rows to domain Comments
func ToDomainCommentSlice(ms []models.Comment) []domain.Comment {
	ds := make([]domain.Comment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainComment(m)
	}
	return ds
}

// ToModelAttachment converts a domain Attachment to an attachments row
func ToModelAttachment(d domain.Attachment) models.Attachment {
	return models.Attachment{
		ID:        d.ID,
		TaskID:    emptyToNil(d.TaskID),
		ProjectID: emptyToNil(d.ProjectID),
		UserID:    d.UserID,
		FileName:  d.FileName,
		FileURL:   d.FileURL,
		FileType:  d.FileType,
		Size:      d.Size,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainAttachment converts an attachments row to a domain Attachment
func ToDomainAttachment(m models.Attachment) domain.Attachment {
	return domain.Attachment{
		ID:        m.ID,
		Target:    toDomainTarget(m.TaskID, m.ProjectID),
		UserID:    m.UserID,
		FileName:  m.FileName,
		FileURL:   m.FileURL,
		FileType:  m.FileType,
		Size:      m.Size,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainAttachmentSlice converts a slice of attachments rows to domain Attachments
func ToDomainAttachmentSlice(ms []models.Attachment) []domain.Attachment {
	ds := make([]domain.Attachment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAttachment(m)
	}
	return ds
}

// ToModelNotification converts a domain Notification to a notifications row
func ToModelNotification(d domain.Notification) models.Notification {
	return models.Notification{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Message:   d.Message,
		Type:      string(d.Type),
		Read:      d.Read,
		CreatedAt: d.CreatedAt,
		Link:      emptyToNil(d.Link),
	}
}

// ToDomainNotification converts a notifications row to a domain Notification
func ToDomainNotification(m models.Notification) domain.Notification {
	n := domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Message,
		Type:      domain.NotificationType(m.Type),
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
		Link:      emptyToNil(m.Link),
	}
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}
	return n
}

// ToDomainNotificationSlice converts a slice of notifications rows to domain Notifications
func ToDomainNotificationSlice(ms []models.Notification) []domain.Notification {
	ds := make([]domain.Notification, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNotification(m)
	}
	return ds
}
