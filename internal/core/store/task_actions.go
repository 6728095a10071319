package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
)

func taskLink(t domain.Task) *string { return strPtr("/projects/" + t.ProjectID + "/tasks/" + t.ID) }

// checkAssignees verifies that ids are active members of project.
func checkAssignees(snap *Snapshot, project domain.Project, ids []string) error {
	for _, id := range ids {
		if !project.IsMember(id) {
			return invalid("User %s is not a member of project %q", id, project.Name)
		}
		u, ok := findByID(snap.Users, id, keyUser)
		if !ok {
			return invalid("User %s does not exist", id)
		}
		if u.IsSuspended() {
			return invalid("User %s is suspended and cannot be assigned", u.Name)
		}
	}
	return nil
}

// checkSubtaskStaff enforces that subtask leaders and members are task assignees.
func checkSubtaskStaff(t domain.Task) error {
	for _, st := range t.Subtasks {
		if st.LeaderID != nil && !t.IsAssignee(*st.LeaderID) {
			return invalid("Subtask %q leader must be assigned to the task", st.Title)
		}
		for _, m := range st.MemberIDs {
			if !t.IsAssignee(m) {
				return invalid("Subtask %q members must be assigned to the task", st.Title)
			}
		}
	}
	return nil
}

func (s *Store) withSubtaskIDs(subs []domain.Subtask) []domain.Subtask {
	out := slices.Clone(subs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = s.newID()
		}
		if out[i].MemberIDs == nil {
			out[i].MemberIDs = []string{}
		}
	}
	return out
}

// statusOnly reports whether next differs from prev in task status and
// subtask completion only.
func statusOnly(prev, next domain.Task) bool {
	if prev.Title != next.Title || prev.Priority != next.Priority ||
		prev.ProjectID != next.ProjectID || prev.CreatorID != next.CreatorID ||
		!equalPtr(prev.Description, next.Description) ||
		!slices.Equal(prev.AssigneeIDs, next.AssigneeIDs) ||
		len(prev.Subtasks) != len(next.Subtasks) {
		return false
	}
	if (prev.DueDate == nil) != (next.DueDate == nil) || (prev.DueDate != nil && !prev.DueDate.Equal(*next.DueDate)) {
		return false
	}
	for i, a := range prev.Subtasks {
		b := next.Subtasks[i]
		if a.ID != b.ID || a.Title != b.Title || !equalPtr(a.LeaderID, b.LeaderID) || !slices.Equal(a.MemberIDs, b.MemberIDs) {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// AddTask creates a task in its project and notifies the assignees.
func (s *Store) AddTask(ctx context.Context, req domain.NewTaskRequest) (domain.Task, error) {
	const op = "add task"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Task{}, s.fail(ctx, op, err)
	}
	var (
		project domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) { project, found = findByID(snap.Projects, req.ProjectID, keyProject) })
	if !found {
		return domain.Task{}, s.fail(ctx, op, notFound("Project", req.ProjectID))
	}
	draft := domain.Task{ProjectID: project.ID}
	if !authz.Decide(&actor, authz.TaskResource{Project: project, Task: draft}, authz.ActionCreate).Allowed() {
		return domain.Task{}, s.fail(ctx, op, denied("add tasks to this project"))
	}
	if err := s.check(req); err != nil {
		return domain.Task{}, s.fail(ctx, op, err)
	}

	task := domain.Task{
		ID:          s.newID(),
		ProjectID:   project.ID,
		CreatorID:   actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeIDs: dedup(req.AssigneeIDs),
		DueDate:     req.DueDate,
		Subtasks:    s.withSubtaskIDs(req.Subtasks),
	}
	s.view(func(snap *Snapshot) { err = checkAssignees(snap, project, task.AssigneeIDs) })
	if err == nil {
		err = checkSubtaskStaff(task)
	}
	if err != nil {
		return domain.Task{}, s.fail(ctx, op, err)
	}

	row := mapping.ToModelTask(task)
	row.CreatedAt = s.now()
	saved, err := s.gw.Tasks().Insert(ctx, row)
	if err != nil {
		return domain.Task{}, s.fail(ctx, op, remoteErr(err))
	}
	task = mapping.ToDomainTask(saved)
	s.apply(gen, func(snap *Snapshot) { snap.Tasks = replaceByID(snap.Tasks, task, keyTask) })
	s.notify(ctx, actor.ID, task.AssigneeIDs, "New task", fmt.Sprintf("You were assigned to %q.", task.Title), taskLink(task))
	s.succeed(ctx, op, "Task created.", slog.String("task_id", task.ID))
	return task, nil
}

// UpdateTask applies patch to the task with id. Assignees holding only the
// status verdict may change the task status and subtask completion, nothing
// else. The full row is written; a later update overwrites an earlier one.
func (s *Store) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	const op = "update task"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Task{}, s.fail(ctx, op, err)
	}
	var (
		current domain.Task
		project domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) {
		if current, found = findByID(snap.Tasks, id, keyTask); found {
			project, found = findByID(snap.Projects, current.ProjectID, keyProject)
		}
	})
	if !found {
		return domain.Task{}, s.fail(ctx, op, notFound("Task", id))
	}
	action := authz.ActionEdit
	if patch.OnlyStatus() {
		action = authz.ActionMutateStatus
	}
	verdict := authz.Decide(&actor, authz.TaskResource{Project: project, Task: current}, action)
	if !verdict.Allowed() {
		return domain.Task{}, s.fail(ctx, op, denied("edit this task"))
	}
	if err := s.check(patch); err != nil {
		return domain.Task{}, s.fail(ctx, op, err)
	}

	next := patch.Apply(current)
	next.AssigneeIDs = dedup(next.AssigneeIDs)
	next.Subtasks = s.withSubtaskIDs(next.Subtasks)
	progressOnly := statusOnly(current, next)
	if !verdict.Full() && !progressOnly {
		return domain.Task{}, s.fail(ctx, op, denied("change anything but the task and subtask status"))
	}
	joined := added(current.AssigneeIDs, next.AssigneeIDs)
	// Stored staffing is trusted when only progress changes.
	if !progressOnly && (patch.AssigneeIDs != nil || patch.Subtasks != nil) {
		s.view(func(snap *Snapshot) { err = checkAssignees(snap, project, joined) })
		if err == nil {
			err = checkSubtaskStaff(next)
		}
		if err != nil {
			return domain.Task{}, s.fail(ctx, op, err)
		}
	}

	task, err := s.saveTask(ctx, gen, next)
	if err != nil {
		return domain.Task{}, s.fail(ctx, op, err)
	}
	s.notify(ctx, actor.ID, joined, "New task", fmt.Sprintf("You were assigned to %q.", task.Title), taskLink(task))
	s.succeed(ctx, op, "Task updated.", slog.String("task_id", id))
	return task, nil
}

// SetTaskStatus moves the task to status.
func (s *Store) SetTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (domain.Task, error) {
	return s.UpdateTask(ctx, id, domain.TaskPatch{Status: &status})
}

// ToggleSubtask marks one subtask done or not done.
func (s *Store) ToggleSubtask(ctx context.Context, tid, subtaskID string, done bool) (domain.Task, error) {
	var (
		current domain.Task
		found   bool
	)
	s.view(func(snap *Snapshot) { current, found = findByID(snap.Tasks, tid, keyTask) })
	if !found {
		return domain.Task{}, s.fail(ctx, "toggle subtask", notFound("Task", tid))
	}
	idx := current.SubtaskIndex(subtaskID)
	if idx < 0 {
		return domain.Task{}, s.fail(ctx, "toggle subtask", notFound("Subtask", subtaskID))
	}
	subs := slices.Clone(current.Subtasks)
	subs[idx].Done = done
	return s.UpdateTask(ctx, tid, domain.TaskPatch{Subtasks: &subs})
}

// DeleteTask removes the task together with its comments and attachments.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	const op = "delete task"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		current domain.Task
		project domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) {
		if current, found = findByID(snap.Tasks, id, keyTask); found {
			project, found = findByID(snap.Projects, current.ProjectID, keyProject)
		}
	})
	if !found {
		return s.fail(ctx, op, notFound("Task", id))
	}
	if !authz.Decide(&actor, authz.TaskResource{Project: project, Task: current}, authz.ActionDelete).Allowed() {
		return s.fail(ctx, op, denied("delete this task"))
	}
	if err := s.gw.Tasks().Delete(ctx, id); err != nil {
		return s.fail(ctx, op, remoteErr(err))
	}
	onTask := func(t domain.Target) bool { return t.TaskID != nil && *t.TaskID == id }
	s.apply(gen, func(snap *Snapshot) {
		snap.Tasks = removeWhere(snap.Tasks, func(t domain.Task) bool { return t.ID == id })
		snap.Comments = removeWhere(snap.Comments, func(c domain.Comment) bool { return onTask(c.Target) })
		snap.Attachments = removeWhere(snap.Attachments, func(a domain.Attachment) bool { return onTask(a.Target) })
	})
	s.succeed(ctx, op, "Task deleted.", slog.String("task_id", id))
	return nil
}

func (s *Store) saveTask(ctx context.Context, gen uint64, t domain.Task) (domain.Task, error) {
	row, err := s.gw.Tasks().Update(ctx, t.ID, mapping.ToModelTask(t))
	if err != nil {
		return domain.Task{}, remoteErr(err)
	}
	saved := mapping.ToDomainTask(row)
	s.apply(gen, func(snap *Snapshot) { snap.Tasks = replaceByID(snap.Tasks, saved, keyTask) })
	return saved, nil
}
