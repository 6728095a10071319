package store_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/core/store"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sp(s string) *string { return &s }

func member(id, role string, company *string) models.Member {
	return models.Member{ID: id, Name: id, Email: id + "@example.com", Role: role, CompanyID: company}
}

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	gw    *memGateway
	feed  *chanFeed
	prov  *MockProvisioner
	blobs *MockObjectStorage
	store *store.Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	suspended := "suspended"
	retired := member("retired-x", "USER", sp("X"))
	retired.Status = &suspended

	s.gw = &memGateway{
		members: newTable(
			member("master", "MASTER", nil),
			member("admin-x", "ADMIN", sp("X")),
			member("admin-y", "ADMIN", sp("Y")),
			member("leader-x", "USER", sp("X")),
			member("creator-x", "USER", sp("X")),
			member("assignee-x", "USER", sp("X")),
			member("user-x", "USER", sp("X")),
			member("outsider-y", "USER", sp("Y")),
			retired,
		),
		companies: newTable(
			models.Company{ID: "X", Name: "X Corp"},
			models.Company{ID: "Y", Name: "Y Corp"},
			models.Company{ID: "Z", Name: "Empty Corp"},
		),
		projects: newTable(models.Project{
			ID: "p1", CompanyID: "X", Name: "Launch", LeaderID: "leader-x",
			Status: "active", Priority: "high",
			StartDate: fixedNow, DueDate: fixedNow.AddDate(0, 3, 0),
			Members: []string{"assignee-x", "creator-x"},
		}),
		tasks: newTable(models.Task{
			ID: "t1", ProjectID: "p1", CreatorID: "creator-x", Title: "Write docs",
			Status: "todo", Priority: "medium", AssigneeIDs: []string{"assignee-x"},
			Subtasks: []models.Subtask{{ID: "s1", Title: "Outline", LeaderID: sp("assignee-x")}},
		}),
		comments: newTable(
			models.Comment{ID: "c1", TaskID: sp("t1"), UserID: "assignee-x", Content: "on it", CreatedAt: fixedNow},
			models.Comment{ID: "c2", ProjectID: sp("p1"), UserID: "leader-x", Content: "kickoff", CreatedAt: fixedNow},
		),
		attachments: newTable(
			models.Attachment{ID: "a1", TaskID: sp("t1"), UserID: "assignee-x", FileName: "spec.pdf", FileURL: "https://files/spec.pdf", FileType: "application/pdf", Size: 10},
		),
		notifications: newTable(
			models.Notification{ID: "n1", UserID: "assignee-x", Title: "old", Message: "m", Type: "info", CreatedAt: fixedNow.Add(-time.Hour)},
			models.Notification{ID: "n2", UserID: "assignee-x", Title: "new", Message: "m", Type: "info", CreatedAt: fixedNow},
			models.Notification{ID: "n3", UserID: "leader-x", Title: "other", Message: "m", Type: "info", CreatedAt: fixedNow},
		),
	}
	s.feed = newFeed()
	s.prov = new(MockProvisioner)
	s.blobs = new(MockObjectStorage)

	var seq atomic.Int64
	s.store = store.New(store.Dependencies{
		Gateway:     s.gw,
		Feed:        s.feed,
		Provisioner: s.prov,
		Storage:     s.blobs,
	}, store.Options{
		Now:   func() time.Time { return fixedNow },
		NewID: func() string { return fmt.Sprintf("id-%d", seq.Add(1)) },
	})
}

func (s *StoreTestSuite) TearDownTest() {
	s.store.SignOut(s.ctx)
}

func (s *StoreTestSuite) signIn(userID string) {
	s.gw.signInAs(userID)
	s.Require().NoError(s.store.SignIn(s.ctx))
	s.Require().Equal(store.StateReady, s.store.State())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestSignIn_LoadsEverything() {
	s.signIn("assignee-x")
	snap := s.store.Snapshot()

	s.Require().NotNil(snap.Actor)
	s.Equal("assignee-x", snap.Actor.ID)
	s.Len(snap.Users, 9)
	s.Len(snap.Companies, 3)
	s.Len(snap.Projects, 1)
	s.Len(snap.Tasks, 1)
	s.Len(snap.Comments, 2)
	s.Len(snap.Attachments, 1)
	s.False(snap.Loading)

	// Only the actor's notifications, newest first.
	s.Require().Len(snap.Notifications, 2)
	s.Equal("n2", snap.Notifications[0].ID)
	s.Equal("n1", snap.Notifications[1].ID)

	// Defaults injected at the boundary.
	s.Equal(domain.DefaultPreferences(), snap.Actor.Preferences)
	s.NotNil(snap.Actor.Permissions)
	s.NotNil(s.feed.sub("assignee-x"))
}

func (s *StoreTestSuite) TestSignIn_WithoutSession() {
	err := s.store.SignIn(s.ctx)
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.Equal(store.StateUnauthenticated, s.store.State())
}

func (s *StoreTestSuite) TestSignIn_SuspendedUserRefused() {
	s.gw.signInAs("retired-x")
	err := s.store.SignIn(s.ctx)

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Equal(store.StateUnauthenticated, s.store.State())
	s.Nil(s.store.Actor())
	s.Nil(s.feed.sub("retired-x"))
}

func (s *StoreTestSuite) TestSignIn_BulkFailureEndsReadyAndEmpty() {
	s.gw.tasks.selectErr = errBoom
	s.gw.signInAs("user-x")
	err := s.store.SignIn(s.ctx)

	s.Error(err)
	s.Equal(apperrors.KindTransport, apperrors.KindOf(err))
	s.Equal(store.StateReady, s.store.State())
	snap := s.store.Snapshot()
	s.Empty(snap.Projects)
	s.Empty(snap.Users)
	s.Empty(snap.Notifications)

	fb := <-s.store.Feedback()
	s.Equal(store.FeedbackError, fb.Level)
	s.Equal("An unexpected error occurred.", fb.Message)
}

func (s *StoreTestSuite) TestSignOut_ClearsSnapshotAndSubscription() {
	s.signIn("assignee-x")
	sub := s.feed.sub("assignee-x")

	s.store.SignOut(s.ctx)

	s.Equal(store.StateUnauthenticated, s.store.State())
	s.True(sub.isClosed())
	snap := s.store.Snapshot()
	s.Nil(snap.Actor)
	s.Empty(snap.Projects)
	s.Empty(snap.Notifications)

	_, err := s.store.AddComment(s.ctx, domain.NewCommentRequest{Target: domain.ProjectTarget("p1"), Content: "late"})
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *StoreTestSuite) TestRealtime_MergesOwnNotificationsByID() {
	s.signIn("assignee-x")
	sub := s.feed.sub("assignee-x")

	sub.events <- models.Notification{ID: "rt1", UserID: "assignee-x", Title: "live", Type: "info", CreatedAt: fixedNow.Add(time.Minute)}
	sub.events <- models.Notification{ID: "rt1", UserID: "assignee-x", Title: "live", Type: "info", CreatedAt: fixedNow.Add(time.Minute)}
	sub.events <- models.Notification{ID: "n2", UserID: "assignee-x", Title: "new", Type: "info", CreatedAt: fixedNow}
	sub.events <- models.Notification{ID: "stray", UserID: "leader-x", Title: "not mine", Type: "info"}
	sub.events <- models.Notification{ID: "rt2", UserID: "assignee-x", Title: "second", Type: "warning"}

	s.Require().Eventually(func() bool {
		return len(s.store.Snapshot().Notifications) == 4
	}, time.Second, 10*time.Millisecond)

	ns := s.store.Snapshot().Notifications
	s.Equal([]string{"rt2", "rt1", "n2", "n1"}, []string{ns[0].ID, ns[1].ID, ns[2].ID, ns[3].ID})
	s.Equal(4, s.store.UnreadNotifications())
}

func (s *StoreTestSuite) TestRefresh_ReplacesCollections() {
	s.signIn("admin-x")
	_, err := s.gw.projects.Insert(s.ctx, models.Project{ID: "p-remote", CompanyID: "X", Name: "Remote", LeaderID: "leader-x", Status: "active", Priority: "low"})
	s.Require().NoError(err)

	s.Require().NoError(s.store.Refresh(s.ctx))
	s.Len(s.store.Snapshot().Projects, 2)
}

func (s *StoreTestSuite) TestViewFilters() {
	s.signIn("outsider-y")
	s.Empty(s.store.VisibleProjects())
	s.Empty(s.store.VisibleTasks("p1"))
	users := s.store.VisibleUsers()
	for _, u := range users {
		s.Require().NotNil(u.CompanyID)
		s.Equal("Y", *u.CompanyID)
	}
	companies := s.store.VisibleCompanies()
	s.Require().Len(companies, 1)
	s.Equal("Y", companies[0].ID)

	s.store.SignOut(s.ctx)
	s.signIn("master")
	s.Len(s.store.VisibleUsers(), 9)
	s.Len(s.store.VisibleTasks("p1"), 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", store.StateUnauthenticated.String())
	assert.Equal(t, "loading", store.StateLoading.String())
	assert.Equal(t, "ready", store.StateReady.String())
}

func TestNewStore_StartsUnauthenticated(t *testing.T) {
	st := store.New(store.Dependencies{Gateway: &memGateway{}}, store.Options{})
	require.Equal(t, store.StateUnauthenticated, st.State())
	require.Nil(t, st.Actor())
	require.Empty(t, st.Snapshot().Projects)
}
