package store

import (
	"slices"

	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
)

// Snapshot is a copy of everything the session has loaded. Entities inside it
// are values; the store never modifies one in place, it swaps in a new copy.
type Snapshot struct {
	Actor         *domain.User
	Users         []domain.User
	Companies     []domain.Company
	Projects      []domain.Project
	Tasks         []domain.Task
	Comments      []domain.Comment
	Attachments   []domain.Attachment
	Notifications []domain.Notification // Newest first
	Loading       bool
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Users:         []domain.User{},
		Companies:     []domain.Company{},
		Projects:      []domain.Project{},
		Tasks:         []domain.Task{},
		Comments:      []domain.Comment{},
		Attachments:   []domain.Attachment{},
		Notifications: []domain.Notification{},
	}
}

// clone deep-copies s so callers can never reach the store's backing arrays.
func (s Snapshot) clone() Snapshot {
	c := s
	c.Actor = cloneActor(s.Actor)
	c.Users = cloneAll(s.Users)
	c.Companies = cloneAll(s.Companies)
	c.Projects = cloneAll(s.Projects)
	c.Tasks = cloneAll(s.Tasks)
	c.Comments = cloneAll(s.Comments)
	c.Attachments = cloneAll(s.Attachments)
	c.Notifications = cloneAll(s.Notifications)
	return c
}

type cloner[T any] interface{ Clone() T }

func cloneAll[T cloner[T]](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneActor(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	a := u.Clone()
	return &a
}

func keyUser(u domain.User) string                 { return u.ID }
func keyCompany(c domain.Company) string           { return c.ID }
func keyProject(p domain.Project) string           { return p.ID }
func keyTask(t domain.Task) string                 { return t.ID }
func keyComment(c domain.Comment) string           { return c.ID }
func keyAttachment(a domain.Attachment) string     { return a.ID }
func keyNotification(n domain.Notification) string { return n.ID }

// findByID returns a copy of the element with id.
func findByID[T cloner[T]](items []T, id string, key func(T) string) (T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// replaceByID returns a new slice with the element matching item's id swapped
// for a copy of item. If no element matches, the copy is appended.
func replaceByID[T cloner[T]](items []T, item T, key func(T) string) []T {
	out := slices.Clone(items)
	item = item.Clone()
	id := key(item)
	for i := range out {
		if key(out[i]) == id {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Actor returns the signed-in user, or nil.
func (s *Store) Actor() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneActor(s.snap.Actor)
}

// VisibleProjects returns the projects the actor may view.
func (s *Store) VisibleProjects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Project{}
	for _, p := range s.snap.Projects {
		if authz.CanViewProject(s.snap.Actor, p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// VisibleTasks returns the tasks of project pid the actor may view. The project
// itself is checked first; an invisible project yields nothing.
func (s *Store) VisibleTasks(pid string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Task{}
	p, ok := findByID(s.snap.Projects, pid, keyProject)
	if !ok || !authz.CanViewProject(s.snap.Actor, p) {
		return out
	}
	for _, t := range s.snap.Tasks {
		if t.ProjectID == pid && authz.Decide(s.snap.Actor, authz.TaskResource{Project: p, Task: t}, authz.ActionView).Allowed() {
			out = append(out, t.Clone())
		}
	}
	return out
}

// VisibleUsers returns the users the actor may list.
func (s *Store) VisibleUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.User{}
	if s.snap.Actor == nil {
		return out
	}
	for _, u := range s.snap.Users {
		if authz.CanViewUser(s.snap.Actor, u) {
			out = append(out, u.Clone())
		}
	}
	return out
}

// VisibleCompanies returns the companies the actor may view.
func (s *Store) VisibleCompanies() []domain.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Company{}
	for _, c := range s.snap.Companies {
		if authz.Decide(s.snap.Actor, authz.CompanyResource{Company: c}, authz.ActionView).Allowed() {
			out = append(out, c.Clone())
		}
	}
	return out
}

// UnreadNotifications counts the actor's unread notifications.
func (s *Store) UnreadNotifications() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, x := range s.snap.Notifications {
		if !x.Read {
			n++
		}
	}
	return n
}
