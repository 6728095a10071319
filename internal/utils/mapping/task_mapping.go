package mapping

import (
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
)

// ToModelSubtasks converts ordered domain subtasks to their jsonb form.
func ToModelSubtasks(ds []domain.Subtask) []models.Subtask {
	ms := make([]models.Subtask, len(ds))
	for i, d := range ds {
		ms[i] = models.Subtask{
			ID:        d.ID,
			Title:     d.Title,
			Status:    d.Done,
			LeaderID:  emptyToNil(d.LeaderID),
			MemberIDs: nonNilStrings(d.MemberIDs),
		}
	}
	return ms
}

// ToDomainSubtasks converts stored subtasks, keeping their order.
func ToDomainSubtasks(ms []models.Subtask) []domain.Subtask {
	ds := make([]domain.Subtask, len(ms))
	for i, m := range ms {
		ds[i] = domain.Subtask{
			ID:        m.ID,
			Title:     m.Title,
			Done:      m.Status,
			LeaderID:  emptyToNil(m.LeaderID),
			MemberIDs: nonNilStrings(m.MemberIDs),
		}
	}
	return ds
}

// ToModelTask converts a domain Task to a tasks row
func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		CreatorID:   d.CreatorID,
		Title:       d.Title,
		Description: d.Description,
		Status:      string(d.Status),
		Priority:    string(d.Priority),
		AssigneeIDs: nonNilStrings(d.AssigneeIDs),
		DueDate:     d.DueDate,
		Subtasks:    ToModelSubtasks(d.Subtasks),
	}
}

// ToDomainTask converts a tasks row to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	t := domain.Task{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		CreatorID:   m.CreatorID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.Priority(m.Priority),
		AssigneeIDs: nonNilStrings(m.AssigneeIDs),
		DueDate:     m.DueDate,
		Subtasks:    ToDomainSubtasks(m.Subtasks),
	}
	if !t.Status.IsValid() {
		t.Status = domain.TaskTodo
	}
	if !t.Priority.IsValid() {
		t.Priority = domain.PriorityMedium
	}
	return t
}

// ToDomainTaskSlice converts a slice of tasks rows to domain Tasks
func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}
