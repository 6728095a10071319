package store

import (
	"context"
	"log/slog"

	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
)

// resolveTarget finds the project, and the task when there is one, that a
// comment or attachment hangs off.
func resolveTarget(snap *Snapshot, t domain.Target) (domain.Project, *domain.Task, error) {
	if !t.IsValid() {
		return domain.Project{}, nil, invalid("Exactly one of taskId and projectId must be set")
	}
	if t.TaskID != nil {
		task, ok := findByID(snap.Tasks, *t.TaskID, keyTask)
		if !ok {
			return domain.Project{}, nil, notFound("Task", *t.TaskID)
		}
		p, ok := findByID(snap.Projects, task.ProjectID, keyProject)
		if !ok {
			return domain.Project{}, nil, notFound("Project", task.ProjectID)
		}
		return p, &task, nil
	}
	p, ok := findByID(snap.Projects, *t.ProjectID, keyProject)
	if !ok {
		return domain.Project{}, nil, notFound("Project", *t.ProjectID)
	}
	return p, nil, nil
}

// AddComment posts a comment authored by the actor.
func (s *Store) AddComment(ctx context.Context, req domain.NewCommentRequest) (domain.Comment, error) {
	const op = "add comment"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Comment{}, s.fail(ctx, op, err)
	}
	var (
		project domain.Project
		task    *domain.Task
	)
	s.view(func(snap *Snapshot) { project, task, err = resolveTarget(snap, req.Target) })
	if err != nil {
		return domain.Comment{}, s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.CommentResource{Project: project, Task: task}, authz.ActionCreate).Allowed() {
		return domain.Comment{}, s.fail(ctx, op, denied("comment here"))
	}
	if err := s.check(req); err != nil {
		return domain.Comment{}, s.fail(ctx, op, err)
	}

	saved, err := s.gw.Comments().Insert(ctx, mapping.ToModelComment(domain.Comment{
		ID:        s.newID(),
		Target:    req.Target,
		UserID:    actor.ID,
		Content:   req.Content,
		CreatedAt: s.now(),
	}))
	if err != nil {
		return domain.Comment{}, s.fail(ctx, op, remoteErr(err))
	}
	comment := mapping.ToDomainComment(saved)
	s.apply(gen, func(snap *Snapshot) { snap.Comments = replaceByID(snap.Comments, comment, keyComment) })
	if task != nil {
		s.notify(ctx, actor.ID, append([]string{task.CreatorID}, task.AssigneeIDs...),
			"New comment", actor.Name+" commented on \""+task.Title+"\".", taskLink(*task))
	}
	s.succeed(ctx, op, "Comment posted.", slog.String("comment_id", comment.ID))
	return comment, nil
}

// DeleteComment removes a comment. Allowed for its author and for managers
// of the task or project it belongs to.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	const op = "delete comment"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		comment domain.Comment
		project domain.Project
		task    *domain.Task
		found   bool
	)
	s.view(func(snap *Snapshot) {
		if comment, found = findByID(snap.Comments, id, keyComment); found {
			project, task, err = resolveTarget(snap, comment.Target)
		}
	})
	if !found {
		return s.fail(ctx, op, notFound("Comment", id))
	}
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.CommentResource{Project: project, Task: task, Comment: comment}, authz.ActionDelete).Allowed() {
		return s.fail(ctx, op, denied("delete this comment"))
	}
	if err := s.gw.Comments().Delete(ctx, id); err != nil {
		return s.fail(ctx, op, remoteErr(err))
	}
	s.apply(gen, func(snap *Snapshot) {
		snap.Comments = removeWhere(snap.Comments, func(c domain.Comment) bool { return c.ID == id })
	})
	s.succeed(ctx, op, "Comment deleted.", slog.String("comment_id", id))
	return nil
}

// AddAttachment registers an uploaded file on a task or project.
func (s *Store) AddAttachment(ctx context.Context, req domain.NewAttachmentRequest) (domain.Attachment, error) {
	const op = "add attachment"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Attachment{}, s.fail(ctx, op, err)
	}
	var (
		project domain.Project
		task    *domain.Task
	)
	s.view(func(snap *Snapshot) { project, task, err = resolveTarget(snap, req.Target) })
	if err != nil {
		return domain.Attachment{}, s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.AttachmentResource{Project: project, Task: task}, authz.ActionCreate).Allowed() {
		return domain.Attachment{}, s.fail(ctx, op, denied("attach files here"))
	}
	if err := s.check(req); err != nil {
		return domain.Attachment{}, s.fail(ctx, op, err)
	}

	saved, err := s.gw.Attachments().Insert(ctx, mapping.ToModelAttachment(domain.Attachment{
		ID:        s.newID(),
		Target:    req.Target,
		UserID:    actor.ID,
		FileName:  req.FileName,
		FileURL:   req.FileURL,
		FileType:  req.FileType,
		Size:      req.Size,
		CreatedAt: s.now(),
	}))
	if err != nil {
		return domain.Attachment{}, s.fail(ctx, op, remoteErr(err))
	}
	att := mapping.ToDomainAttachment(saved)
	s.apply(gen, func(snap *Snapshot) { snap.Attachments = replaceByID(snap.Attachments, att, keyAttachment) })
	s.succeed(ctx, op, "File attached.", slog.String("attachment_id", att.ID))
	return att, nil
}

// DeleteAttachment removes an attachment. Allowed for the uploader and for
// managers of the task or project it belongs to.
func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	const op = "delete attachment"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		att     domain.Attachment
		project domain.Project
		task    *domain.Task
		found   bool
	)
	s.view(func(snap *Snapshot) {
		if att, found = findByID(snap.Attachments, id, keyAttachment); found {
			project, task, err = resolveTarget(snap, att.Target)
		}
	})
	if !found {
		return s.fail(ctx, op, notFound("Attachment", id))
	}
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.AttachmentResource{Project: project, Task: task, Attachment: att}, authz.ActionDelete).Allowed() {
		return s.fail(ctx, op, denied("delete this attachment"))
	}
	if err := s.gw.Attachments().Delete(ctx, id); err != nil {
		return s.fail(ctx, op, remoteErr(err))
	}
	s.apply(gen, func(snap *Snapshot) {
		snap.Attachments = removeWhere(snap.Attachments, func(a domain.Attachment) bool { return a.ID == id })
	})
	s.succeed(ctx, op, "Attachment deleted.", slog.String("attachment_id", id))
	return nil
}

// MarkNotificationRead sets read=true. Marking an already read notification
// is a no-op that does not contact the gateway.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	const op = "mark notification read"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		n     domain.Notification
		found bool
	)
	s.view(func(snap *Snapshot) { n, found = findByID(snap.Notifications, id, keyNotification) })
	if !found {
		return s.fail(ctx, op, notFound("Notification", id))
	}
	if !authz.Decide(&actor, authz.NotificationResource{Notification: n}, authz.ActionMarkRead).Allowed() {
		return s.fail(ctx, op, denied("change this notification"))
	}
	if n.Read {
		return nil
	}

	n.Read = true
	row, err := s.gw.Notifications().Update(ctx, id, mapping.ToModelNotification(n))
	if err != nil {
		return s.fail(ctx, op, remoteErr(err))
	}
	saved := mapping.ToDomainNotification(row)
	saved.Read = true
	s.apply(gen, func(snap *Snapshot) {
		snap.Notifications = replaceByID(snap.Notifications, saved, keyNotification)
	})
	s.LogDebug(ctx, "Notification marked read", slog.String("notification_id", id))
	return nil
}

// MarkAllNotificationsRead marks every unread notification of the actor.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	var unread []string
	s.view(func(snap *Snapshot) {
		for _, n := range snap.Notifications {
			if !n.Read {
				unread = append(unread, n.ID)
			}
		}
	})
	for _, id := range unread {
		if err := s.MarkNotificationRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// AddNotification emits a system notification. When the actor is the
// recipient it is merged into the snapshot right away; the realtime echo of
// the same row is then ignored because it carries the same id.
func (s *Store) AddNotification(ctx context.Context, req domain.NewNotificationRequest) (domain.Notification, error) {
	const op = "add notification"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Notification{}, s.fail(ctx, op, err)
	}
	if err := s.check(req); err != nil {
		return domain.Notification{}, s.fail(ctx, op, err)
	}
	var recipient *domain.User
	if req.UserID == actor.ID {
		recipient = &actor
	} else {
		s.view(func(snap *Snapshot) {
			if u, ok := findByID(snap.Users, req.UserID, keyUser); ok {
				recipient = &u
			}
		})
	}
	target := authz.NotificationResource{Notification: domain.Notification{UserID: req.UserID}, Recipient: recipient}
	if !authz.Decide(&actor, target, authz.ActionCreate).Allowed() {
		return domain.Notification{}, s.fail(ctx, op, denied("notify this user"))
	}
	row, err := s.gw.Notifications().Insert(ctx, mapping.ToModelNotification(domain.Notification{
		ID:        s.newID(),
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		CreatedAt: s.now(),
		Link:      req.Link,
	}))
	if err != nil {
		return domain.Notification{}, s.fail(ctx, op, remoteErr(err))
	}
	n := mapping.ToDomainNotification(row)
	if n.UserID == actor.ID {
		s.mergeNotification(gen, n)
	}
	return n, nil
}
