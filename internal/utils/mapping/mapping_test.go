package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainUser_InjectsDefaults(t *testing.T) {
	u := mapping.ToDomainUser(models.Member{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "USER"})

	assert.Equal(t, domain.UserActive, u.Status)
	assert.NotNil(t, u.Permissions)
	assert.Empty(t, u.Permissions)
	assert.Equal(t, domain.DefaultPreferences(), u.Preferences)
	assert.Nil(t, u.CompanyID)
}

func TestToDomainUser_PartialPreferences(t *testing.T) {
	u := mapping.ToDomainUser(models.Member{
		ID:          "u1",
		Role:        "ADMIN",
		Preferences: &models.Preferences{Theme: "dark"},
	})

	assert.Equal(t, "dark", u.Preferences.Theme)
	assert.Equal(t, domain.DefaultPrimaryColor, u.Preferences.PrimaryColor)
	assert.Equal(t, domain.DefaultLayoutDensity, u.Preferences.LayoutDensity)
	assert.Equal(t, domain.DefaultLanguage, u.Preferences.Language)
}

func TestToDomainUser_EmptyCompanyIsNil(t *testing.T) {
	empty := ""
	suspended := "suspended"
	u := mapping.ToDomainUser(models.Member{ID: "u1", Role: "USER", CompanyID: &empty, Status: &suspended})

	assert.Nil(t, u.CompanyID)
	assert.True(t, u.IsSuspended())
}

func TestMemberRoundTripKeepsProfile(t *testing.T) {
	company := "c1"
	title := "Engineer"
	in := domain.NewUser("u1", "Ana", "ana@example.com", domain.RoleUser)
	in.CompanyID = &company
	in.JobTitle = &title
	in.Permissions = []string{"reports"}

	out := mapping.ToDomainUser(mapping.ToModelMember(in))
	assert.Equal(t, in, out)
}

func TestToDomainTask_DefaultsCollections(t *testing.T) {
	task := mapping.ToDomainTask(models.Task{ID: "t1", ProjectID: "p1", Status: "bogus"})

	assert.Equal(t, domain.TaskTodo, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.NotNil(t, task.AssigneeIDs)
	assert.NotNil(t, task.Subtasks)
}

func TestSubtasksKeepOrder(t *testing.T) {
	leader := "u2"
	in := []domain.Subtask{
		{ID: "s1", Title: "first", Done: true, LeaderID: &leader, MemberIDs: []string{"u3"}},
		{ID: "s2", Title: "second", MemberIDs: []string{}},
	}
	out := mapping.ToDomainSubtasks(mapping.ToModelSubtasks(in))

	require.Len(t, out, 2)
	assert.Equal(t, "s1", out[0].ID)
	assert.True(t, out[0].Done)
	assert.Equal(t, "u2", *out[0].LeaderID)
	assert.Equal(t, "s2", out[1].ID)
	assert.Empty(t, out[1].MemberIDs)
}

func TestProjectDescription(t *testing.T) {
	m := mapping.ToModelProject(domain.Project{ID: "p1", Name: "P"})
	assert.Nil(t, m.Description)
	assert.NotNil(t, m.Members)

	d := mapping.ToDomainProject(models.Project{ID: "p1", Status: "on-hold", Priority: "high"})
	assert.Equal(t, "", d.Description)
	assert.Equal(t, domain.ProjectOnHold, d.Status)
	assert.Equal(t, domain.PriorityHigh, d.Priority)
}

func TestCommentTarget(t *testing.T) {
	taskID := "t1"
	empty := ""
	c := mapping.ToDomainComment(models.Comment{ID: "c1", TaskID: &taskID, ProjectID: &empty, CreatedAt: time.Now()})

	assert.True(t, c.IsValid())
	assert.Equal(t, "t1", *c.TaskID)
	assert.Nil(t, c.ProjectID)
}

func TestNotificationDefaultsType(t *testing.T) {
	n := mapping.ToDomainNotification(models.Notification{ID: "n1", UserID: "u1"})
	assert.Equal(t, domain.NotificationInfo, n.Type)
	assert.False(t, n.Read)
}
