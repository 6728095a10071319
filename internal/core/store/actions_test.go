package store_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/core/store"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/stretchr/testify/mock"
)

func findTask(snap store.Snapshot, id string) (domain.Task, bool) {
	for _, t := range snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func findUser(snap store.Snapshot, id string) (domain.User, bool) {
	for _, u := range snap.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *StoreTestSuite) TestMasterCreatesCompanyThenAssignsAdmin() {
	s.signIn("master")

	acme, err := s.store.AddCompany(s.ctx, domain.NewCompanyRequest{Name: "Acme"})
	s.Require().NoError(err)
	s.Nil(acme.AdminID)
	s.Contains(s.store.Snapshot().Companies, acme)

	updated, err := s.store.UpdateCompany(s.ctx, acme.ID, domain.CompanyPatch{AdminID: sp("admin-x")})
	s.Require().NoError(err)
	s.Require().NotNil(updated.AdminID)
	s.Equal("admin-x", *updated.AdminID)
	s.Contains(s.store.Snapshot().Companies, updated)
}

func (s *StoreTestSuite) TestCompanyAdminMustBeAdminOrMaster() {
	s.signIn("master")
	_, err := s.store.AddCompany(s.ctx, domain.NewCompanyRequest{Name: "Acme", AdminID: sp("user-x")})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.gw.companies.writes())
}

func (s *StoreTestSuite) TestAdminCannotCreateCompany() {
	s.signIn("admin-x")
	_, err := s.store.AddCompany(s.ctx, domain.NewCompanyRequest{Name: "Acme"})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestAdminCannotUpdateOtherCompany() {
	s.signIn("admin-x")
	before := s.store.Snapshot()

	_, err := s.store.UpdateCompany(s.ctx, "Y", domain.CompanyPatch{Name: sp("Mine now")})

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Equal(before, s.store.Snapshot())
	s.Zero(s.gw.companies.writes())

	fb := <-s.store.Feedback()
	s.Equal(store.FeedbackError, fb.Level)
	s.Equal("You do not have permission to perform this action.", fb.Message)
}

func (s *StoreTestSuite) TestAdminUpdatesOwnCompany() {
	s.signIn("admin-x")
	c, err := s.store.UpdateCompany(s.ctx, "X", domain.CompanyPatch{Description: sp("We ship")})
	s.Require().NoError(err)
	s.Equal("We ship", *c.Description)
}

func (s *StoreTestSuite) TestDeleteCompany_ReferentialGuard() {
	s.signIn("master")
	before := s.store.Snapshot()

	for _, id := range []string{"X", "Y"} {
		err := s.store.DeleteCompany(s.ctx, id)
		s.ErrorIs(err, apperrors.ErrDependency, id)
		s.Equal(apperrors.KindDependency, apperrors.KindOf(err))
	}
	s.Equal(before, s.store.Snapshot())
	s.Zero(s.gw.companies.writes())

	s.Require().NoError(s.store.DeleteCompany(s.ctx, "Z"))
	s.Len(s.store.Snapshot().Companies, 2)
	_, stillThere := s.gw.companies.get("Z")
	s.False(stillThere)
}

func (s *StoreTestSuite) TestMarkNotificationRead_Idempotent() {
	s.signIn("assignee-x")

	s.Require().NoError(s.store.MarkNotificationRead(s.ctx, "n1"))
	once := s.store.Snapshot()
	s.Require().NoError(s.store.MarkNotificationRead(s.ctx, "n1"))

	s.Equal(once, s.store.Snapshot())
	s.Equal(1, s.gw.notifications.updates)
	row, _ := s.gw.notifications.get("n1")
	s.True(row.Read)
	s.Equal(1, s.store.UnreadNotifications())
}

func (s *StoreTestSuite) TestMarkAllNotificationsRead() {
	s.signIn("assignee-x")
	s.Require().NoError(s.store.MarkAllNotificationsRead(s.ctx))
	s.Zero(s.store.UnreadNotifications())
}

func (s *StoreTestSuite) TestAddNotification_RealtimeEchoIsNotDuplicated() {
	s.signIn("assignee-x")
	sub := s.feed.sub("assignee-x")
	s.gw.notifications.onInsert = func(r models.Notification) { sub.events <- r }

	n, err := s.store.AddNotification(s.ctx, domain.NewNotificationRequest{
		UserID: "assignee-x", Title: "Reminder", Message: "Standup", Type: domain.NotificationWarning,
	})
	s.Require().NoError(err)
	s.Equal(n.ID, s.store.Snapshot().Notifications[0].ID)

	s.Never(func() bool { return len(s.store.Snapshot().Notifications) != 3 }, 150*time.Millisecond, 10*time.Millisecond)
}

func (s *StoreTestSuite) TestOutsiderCannotReachTask() {
	s.signIn("outsider-y")
	s.Empty(s.store.VisibleTasks("p1"))

	_, err := s.store.UpdateTask(s.ctx, "t1", domain.TaskPatch{Title: sp("hijack")})
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Zero(s.gw.tasks.writes())
}

func (s *StoreTestSuite) TestAssigneeTogglesSubtaskButCannotRename() {
	s.signIn("assignee-x")

	task, err := s.store.ToggleSubtask(s.ctx, "t1", "s1", true)
	s.Require().NoError(err)
	s.True(task.Subtasks[0].Done)
	snapTask, _ := findTask(s.store.Snapshot(), "t1")
	s.True(snapTask.Subtasks[0].Done)

	before := s.store.Snapshot()
	_, err = s.store.UpdateTask(s.ctx, "t1", domain.TaskPatch{Title: sp("Renamed")})
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Equal(before, s.store.Snapshot())

	task, err = s.store.SetTaskStatus(s.ctx, "t1", domain.TaskDone)
	s.Require().NoError(err)
	s.Equal(domain.TaskDone, task.Status)
}

func (s *StoreTestSuite) TestAssigneeCannotRestructureSubtasks() {
	s.signIn("assignee-x")
	subs := []domain.Subtask{{ID: "s1", Title: "Renamed outline", LeaderID: sp("assignee-x")}}
	_, err := s.store.UpdateTask(s.ctx, "t1", domain.TaskPatch{Subtasks: &subs})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestConcurrentTaskUpdates_LastWriteWins() {
	s.signIn("leader-x")
	other := store.New(store.Dependencies{Gateway: s.gw}, store.Options{})
	s.gw.signInAs("creator-x")
	s.Require().NoError(other.SignIn(s.ctx))
	defer other.SignOut(s.ctx)

	low := domain.PriorityLow
	_, err := s.store.UpdateTask(s.ctx, "t1", domain.TaskPatch{Title: sp("First"), Priority: &low})
	s.Require().NoError(err)
	second, err := other.UpdateTask(s.ctx, "t1", domain.TaskPatch{Title: sp("Second")})
	s.Require().NoError(err)

	row, _ := s.gw.tasks.get("t1")
	s.Equal("Second", row.Title)
	s.Equal("medium", row.Priority, "second writer overwrote the whole record")
	s.Equal("Second", second.Title)
}

func (s *StoreTestSuite) TestAddTask_AssigneesMustBeActiveProjectMembers() {
	s.signIn("leader-x")
	base := domain.NewTaskRequest{ProjectID: "p1", Title: "Ship", Status: domain.TaskTodo, Priority: domain.PriorityHigh}

	req := base
	req.AssigneeIDs = []string{"outsider-y"}
	_, err := s.store.AddTask(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	req = base
	req.AssigneeIDs = []string{"assignee-x"}
	req.Subtasks = []domain.Subtask{{Title: "Stray", LeaderID: sp("creator-x")}}
	_, err = s.store.AddTask(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.gw.totalWrites())

	req.Subtasks = []domain.Subtask{{Title: "Checklist", LeaderID: sp("assignee-x")}}
	task, err := s.store.AddTask(s.ctx, req)
	s.Require().NoError(err)
	s.Equal("leader-x", task.CreatorID)
	s.NotEmpty(task.Subtasks[0].ID)
	s.Equal(1, s.gw.notifications.inserts, "assignee notified")
}

func (s *StoreTestSuite) TestMemberWithoutAssignmentCannotAddTask() {
	s.signIn("user-x")
	_, err := s.store.AddTask(s.ctx, domain.NewTaskRequest{ProjectID: "p1", Title: "Nope", Status: domain.TaskTodo, Priority: domain.PriorityLow})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestDeleteTask_RemovesActivity() {
	s.signIn("creator-x")
	s.Require().NoError(s.store.DeleteTask(s.ctx, "t1"))
	snap := s.store.Snapshot()
	s.Empty(snap.Tasks)
	s.Len(snap.Comments, 1)
	s.Empty(snap.Attachments)
}

func (s *StoreTestSuite) TestProjectLifecycle() {
	s.signIn("admin-x")
	start := fixedNow
	due := fixedNow.AddDate(0, 1, 0)

	_, err := s.store.AddProject(s.ctx, domain.NewProjectRequest{
		CompanyID: "X", Name: "Bad", LeaderID: "leader-x", Status: domain.ProjectActive, Priority: domain.PriorityLow,
		StartDate: start, DueDate: due, Members: []string{"outsider-y"},
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	p, err := s.store.AddProject(s.ctx, domain.NewProjectRequest{
		CompanyID: "X", Name: "Beta", LeaderID: "leader-x", Status: domain.ProjectActive, Priority: domain.PriorityLow,
		StartDate: start, DueDate: due, Members: []string{"user-x", "user-x"},
	})
	s.Require().NoError(err)
	s.Equal([]string{"user-x"}, p.Members)
	s.Equal(2, s.gw.notifications.inserts)

	p, err = s.store.AddProjectMember(s.ctx, p.ID, "assignee-x")
	s.Require().NoError(err)
	s.Contains(p.Members, "assignee-x")

	_, err = s.store.AddProjectMember(s.ctx, p.ID, "retired-x")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.store.RemoveProjectMember(s.ctx, p.ID, "leader-x")
	s.ErrorIs(err, apperrors.ErrValidation)

	p, err = s.store.RemoveProjectMember(s.ctx, p.ID, "user-x")
	s.Require().NoError(err)
	s.NotContains(p.Members, "user-x")

	p, err = s.store.SetProjectStatus(s.ctx, p.ID, domain.ProjectCompleted)
	s.Require().NoError(err)
	s.Equal(domain.ProjectCompleted, p.Status)
}

func (s *StoreTestSuite) TestLeaderManagesButCannotDeleteProject() {
	s.signIn("leader-x")
	_, err := s.store.AddProjectMember(s.ctx, "p1", "user-x")
	s.Require().NoError(err)

	err = s.store.DeleteProject(s.ctx, "p1")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestDeleteProject_Cascades() {
	s.signIn("admin-x")
	s.Require().NoError(s.store.DeleteProject(s.ctx, "p1"))
	snap := s.store.Snapshot()
	s.Empty(snap.Projects)
	s.Empty(snap.Tasks)
	s.Empty(snap.Comments)
	s.Empty(snap.Attachments)
}

func (s *StoreTestSuite) TestUpdateProject_DueBeforeStart() {
	s.signIn("leader-x")
	early := fixedNow.AddDate(0, -1, 0)
	_, err := s.store.UpdateProject(s.ctx, "p1", domain.ProjectPatch{DueDate: &early})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestComments() {
	s.signIn("assignee-x")
	c, err := s.store.AddComment(s.ctx, domain.NewCommentRequest{Target: domain.ProjectTarget("p1"), Content: "hello"})
	s.Require().NoError(err)
	s.Equal("assignee-x", c.UserID)
	s.Equal(fixedNow, c.CreatedAt)

	both := domain.Target{TaskID: sp("t1"), ProjectID: sp("p1")}
	_, err = s.store.AddComment(s.ctx, domain.NewCommentRequest{Target: both, Content: "x"})
	s.ErrorIs(err, apperrors.ErrValidation)

	s.ErrorIs(s.store.DeleteComment(s.ctx, "c2"), apperrors.ErrForbidden)
	s.Require().NoError(s.store.DeleteComment(s.ctx, c.ID))

	// The task creator manages the task and may remove comments on it.
	s.store.SignOut(s.ctx)
	s.signIn("creator-x")
	s.Require().NoError(s.store.DeleteComment(s.ctx, "c1"))

	s.store.SignOut(s.ctx)
	s.signIn("outsider-y")
	_, err = s.store.AddComment(s.ctx, domain.NewCommentRequest{Target: domain.TaskTarget("t1"), Content: "hi"})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestAttachments() {
	s.signIn("assignee-x")
	_, err := s.store.AddAttachment(s.ctx, domain.NewAttachmentRequest{
		Target: domain.TaskTarget("t1"), FileName: "a.txt", FileURL: "https://files/a.txt", FileType: "text/plain", Size: -1,
	})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.gw.attachments.writes())

	a, err := s.store.AddAttachment(s.ctx, domain.NewAttachmentRequest{
		Target: domain.TaskTarget("t1"), FileName: "a.txt", FileURL: "https://files/a.txt", FileType: "text/plain", Size: 42,
	})
	s.Require().NoError(err)
	s.Equal(int64(42), a.Size)
	s.Require().NoError(s.store.DeleteAttachment(s.ctx, "a1"))
	s.Len(s.store.Snapshot().Attachments, 1)
}

func (s *StoreTestSuite) TestDeleteUser_SuspendsInstead() {
	s.signIn("admin-x")

	err := s.store.DeleteUser(s.ctx, "user-x")
	s.ErrorIs(err, apperrors.ErrUnsupported)
	u, _ := findUser(s.store.Snapshot(), "user-x")
	s.True(u.IsSuspended())
	row, _ := s.gw.members.get("user-x")
	s.Equal("suspended", *row.Status)

	err = s.store.DeleteUser(s.ctx, "admin-x")
	s.ErrorIs(err, apperrors.ErrForbidden)
	err = s.store.DeleteUser(s.ctx, "outsider-y")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestMasterCannotDeleteItself() {
	s.signIn("master")
	s.ErrorIs(s.store.DeleteUser(s.ctx, "master"), apperrors.ErrForbidden)
	suspended := domain.UserSuspended
	_, err := s.store.UpdateUser(s.ctx, "master", domain.UserPatch{Status: &suspended})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestUpdateUser() {
	s.signIn("user-x")
	me, err := s.store.UpdateUser(s.ctx, "user-x", domain.UserPatch{Name: sp("Renamed"), JobTitle: sp("Engineer")})
	s.Require().NoError(err)
	s.Equal("Renamed", me.Name)
	s.Equal("Renamed", s.store.Actor().Name)

	admin := domain.RoleAdmin
	_, err = s.store.UpdateUser(s.ctx, "user-x", domain.UserPatch{Role: &admin})
	s.ErrorIs(err, apperrors.ErrForbidden)

	s.store.SignOut(s.ctx)
	s.signIn("admin-x")
	u, err := s.store.UpdateUser(s.ctx, "user-x", domain.UserPatch{Role: &admin})
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, u.Role)

	masterRole := domain.RoleMaster
	_, err = s.store.UpdateUser(s.ctx, "leader-x", domain.UserPatch{Role: &masterRole})
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.store.UpdateUser(s.ctx, "leader-x", domain.UserPatch{CompanyID: sp("Y")})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// On the client side the request that leaves the store already names the
// admin's own company.
func (s *StoreTestSuite) TestAddUser_AdminPinnedToOwnCompany() {
	s.signIn("admin-x")
	s.prov.On("CreateUser", mock.Anything, "token-admin-x", mock.MatchedBy(func(r domain.NewUserRequest) bool {
		return r.CompanyID != nil && *r.CompanyID == "X" && r.Email == "new@example.com"
	})).Return(gateway.ProvisionedUser{ID: "new-user", Email: "new@example.com", CompanyID: sp("X")}, nil).Once()

	created, err := s.store.AddUser(s.ctx, domain.NewUserRequest{
		Email: "new@example.com", Password: "secret1", FullName: "New Person", Role: domain.RoleUser, CompanyID: sp("Y"),
	})
	s.Require().NoError(err)
	s.Equal("new-user", created.ID)
	s.prov.AssertExpectations(s.T())
}

func (s *StoreTestSuite) TestAddUser_Rejections() {
	s.signIn("admin-x")
	_, err := s.store.AddUser(s.ctx, domain.NewUserRequest{Email: "a@example.com", Password: "123", FullName: "A", Role: domain.RoleUser})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.store.AddUser(s.ctx, domain.NewUserRequest{Email: "not-an-email", Password: "secret1", FullName: "A", Role: domain.RoleUser})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.store.AddUser(s.ctx, domain.NewUserRequest{Email: "a@example.com", Password: "secret1", FullName: "A", Role: domain.RoleMaster})
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.prov.AssertNotCalled(s.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)

	s.prov.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
		Return(gateway.ProvisionedUser{}, apperrors.NewConflictError("Email already registered")).Once()
	_, err = s.store.AddUser(s.ctx, domain.NewUserRequest{Email: "dup@example.com", Password: "secret1", FullName: "A", Role: domain.RoleUser})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	s.store.SignOut(s.ctx)
	s.signIn("user-x")
	_, err = s.store.AddUser(s.ctx, domain.NewUserRequest{Email: "a@example.com", Password: "secret1", FullName: "A", Role: domain.RoleUser})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *StoreTestSuite) TestUpdatePreferences_AppliedOnlyAfterConfirm() {
	s.signIn("user-x")
	s.gw.members.writeErr = errBoom

	_, err := s.store.UpdatePreferences(s.ctx, domain.Preferences{Theme: "dark"})
	s.Equal(apperrors.KindTransport, apperrors.KindOf(err))
	s.Equal(domain.DefaultTheme, s.store.Actor().Preferences.Theme)

	s.gw.members.writeErr = nil
	prefs, err := s.store.UpdatePreferences(s.ctx, domain.Preferences{Theme: "dark", Language: "en-US"})
	s.Require().NoError(err)
	s.Equal("dark", prefs.Theme)
	s.Equal(domain.DefaultPrimaryColor, prefs.PrimaryColor)
	s.Equal("en-US", s.store.Actor().Preferences.Language)

	_, err = s.store.UpdatePreferences(s.ctx, domain.Preferences{Theme: "neon"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestUploadAvatar() {
	s.signIn("user-x")
	key := fmt.Sprintf("avatars/user-x/%d.png", fixedNow.Unix())
	s.blobs.On("Put", mock.Anything, key, "image/png", mock.Anything, int64(3)).
		Return("https://cdn.example.com/"+key, nil).Once()

	url, err := s.store.UploadAvatar(s.ctx, "Me.PNG", "image/png", strings.NewReader("png"), 3)
	s.Require().NoError(err)
	s.Equal("https://cdn.example.com/"+key, url)
	s.Equal(url, *s.store.Actor().AvatarURL)
	u, _ := findUser(s.store.Snapshot(), "user-x")
	s.Equal(url, *u.AvatarURL)
	s.blobs.AssertExpectations(s.T())

	_, err = s.store.UploadAvatar(s.ctx, "notes.txt", "text/plain", strings.NewReader("x"), 1)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestTransportErrorLeavesSnapshotUntouched() {
	s.signIn("leader-x")
	s.gw.tasks.writeErr = errBoom
	before := s.store.Snapshot()

	_, err := s.store.UpdateTask(s.ctx, "t1", domain.TaskPatch{Title: sp("Nope")})
	s.ErrorIs(err, apperrors.ErrTransport)
	s.Equal(before, s.store.Snapshot())
}

func (s *StoreTestSuite) TestSnapshotIsIsolatedFromReaders() {
	s.gw.members.edit("user-x", func(m *models.Member) { m.Permissions = []string{"reports:view"} })
	s.signIn("user-x")
	before := s.store.Snapshot()

	snap := s.store.Snapshot()
	s.Require().NotEmpty(snap.Tasks[0].Subtasks)
	snap.Tasks[0].Subtasks[0].Done = true
	*snap.Tasks[0].Subtasks[0].LeaderID = "hijacked"
	snap.Tasks[0].AssigneeIDs[0] = "hijacked"
	snap.Projects[0].Members[0] = "hijacked"
	snap.Actor.Permissions[0] = "hijacked"
	for i := range snap.Users {
		if snap.Users[i].ID == "user-x" {
			snap.Users[i].Permissions[0] = "hijacked"
		}
	}
	for _, c := range snap.Comments {
		if c.TaskID != nil {
			*c.TaskID = "hijacked"
		}
	}

	s.Equal(before, s.store.Snapshot())
	task, _ := findTask(s.store.Snapshot(), "t1")
	s.False(task.Subtasks[0].Done)
	s.Equal([]string{"assignee-x"}, task.AssigneeIDs)
}

func (s *StoreTestSuite) TestVisibleAccessorsReturnCopies() {
	s.gw.members.edit("user-x", func(m *models.Member) { m.Permissions = []string{"reports:view"} })
	s.signIn("user-x")
	before := s.store.Snapshot()

	projects := s.store.VisibleProjects()
	s.Require().Len(projects, 1)
	projects[0].Members[0] = "hijacked"

	tasks := s.store.VisibleTasks("p1")
	s.Require().Len(tasks, 1)
	tasks[0].AssigneeIDs[0] = "hijacked"
	tasks[0].Subtasks[0].Done = true

	users := s.store.VisibleUsers()
	for i := range users {
		if users[i].ID == "user-x" {
			users[i].Permissions[0] = "hijacked"
		}
	}

	companies := s.store.VisibleCompanies()
	s.Require().Len(companies, 1)
	companies[0].Description = sp("hijacked")

	actor := s.store.Actor()
	actor.Permissions[0] = "hijacked"

	s.Equal(before, s.store.Snapshot())
	s.Equal([]string{"reports:view"}, s.store.Actor().Permissions)
}

func (s *StoreTestSuite) TestSuspendedAfterRefreshCannotMutate() {
	s.signIn("user-x")
	s.gw.members.edit("user-x", func(m *models.Member) { m.Status = sp("suspended") })
	s.Require().NoError(s.store.Refresh(s.ctx))
	s.Require().True(s.store.Actor().IsSuspended())
	writes := s.gw.totalWrites()

	_, err := s.store.UpdatePreferences(s.ctx, domain.Preferences{Theme: "dark"})
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.store.UploadAvatar(s.ctx, "me.png", "image/png", strings.NewReader("png"), 3)
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.store.AddNotification(s.ctx, domain.NewNotificationRequest{
		UserID: "user-x", Title: "Reminder", Message: "Standup", Type: domain.NotificationInfo,
	})
	s.ErrorIs(err, apperrors.ErrForbidden)

	s.Equal(writes, s.gw.totalWrites())
	s.blobs.AssertNotCalled(s.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.Equal(domain.DefaultTheme, s.store.Actor().Preferences.Theme)
}

func (s *StoreTestSuite) TestAddNotification_RecipientScope() {
	s.signIn("user-x")
	req := domain.NewNotificationRequest{Title: "Heads up", Message: "Review", Type: domain.NotificationInfo}

	req.UserID = "admin-y"
	_, err := s.store.AddNotification(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrForbidden)
	req.UserID = "nobody"
	_, err = s.store.AddNotification(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Zero(s.gw.notifications.writes())

	req.UserID = "leader-x"
	n, err := s.store.AddNotification(s.ctx, req)
	s.Require().NoError(err)
	s.Equal("leader-x", n.UserID)

	s.store.SignOut(s.ctx)
	s.signIn("master")
	req.UserID = "outsider-y"
	_, err = s.store.AddNotification(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(2, s.gw.notifications.inserts)
}

func (s *StoreTestSuite) TestAssigneeTogglesSubtaskWithUnassignedStaff() {
	s.gw.tasks.edit("t1", func(t *models.Task) { t.Subtasks[0].MemberIDs = []string{"user-x"} })
	s.signIn("assignee-x")

	task, err := s.store.ToggleSubtask(s.ctx, "t1", "s1", true)
	s.Require().NoError(err)
	s.True(task.Subtasks[0].Done)
	s.Equal([]string{"user-x"}, task.Subtasks[0].MemberIDs)
	row, _ := s.gw.tasks.get("t1")
	s.True(row.Subtasks[0].Status)

	// Changing the staffing still has to satisfy the assignee rule.
	s.store.SignOut(s.ctx)
	s.signIn("leader-x")
	current, _ := findTask(s.store.Snapshot(), "t1")
	subs := current.Subtasks
	subs[0].Title = "Outline v2"
	_, err = s.store.UpdateTask(s.ctx, "t1", domain.TaskPatch{Subtasks: &subs})
	s.ErrorIs(err, apperrors.ErrValidation)
}
