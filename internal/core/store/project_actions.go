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

// checkAssignable verifies that every id names an active user who may join
// work in companyID. MASTER actors may staff projects across companies.
func checkAssignable(snap *Snapshot, actor domain.User, companyID string, ids []string) error {
	for _, id := range ids {
		u, ok := findByID(snap.Users, id, keyUser)
		if !ok {
			return invalid("User %s does not exist", id)
		}
		if u.IsSuspended() {
			return invalid("User %s is suspended and cannot be assigned", u.Name)
		}
		if actor.Role != domain.RoleMaster && u.Role != domain.RoleMaster && !u.InCompany(companyID) {
			return invalid("User %s belongs to another company", u.Name)
		}
	}
	return nil
}

// added returns the ids in next that are not in prev.
func added(prev, next []string) []string {
	var out []string
	for _, id := range next {
		if !slices.Contains(prev, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func dedup(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func projectLink(id string) *string { return strPtr("/projects/" + id) }

// AddProject creates a project and notifies its leader and members.
func (s *Store) AddProject(ctx context.Context, req domain.NewProjectRequest) (domain.Project, error) {
	const op = "add project"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	draft := domain.Project{CompanyID: req.CompanyID}
	if !authz.Decide(&actor, authz.ProjectResource{Project: draft}, authz.ActionCreate).Allowed() {
		return domain.Project{}, s.fail(ctx, op, denied("create projects in this company"))
	}
	if err := s.check(req); err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	members := dedup(req.Members)
	s.view(func(snap *Snapshot) {
		if _, ok := findByID(snap.Companies, req.CompanyID, keyCompany); !ok {
			err = invalid("Company %s does not exist", req.CompanyID)
			return
		}
		err = checkAssignable(snap, actor, req.CompanyID, append([]string{req.LeaderID}, members...))
	})
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}

	row := mapping.ToModelProject(domain.Project{
		ID:          s.newID(),
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Members:     members,
	})
	row.CreatedAt = s.now()
	saved, err := s.gw.Projects().Insert(ctx, row)
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, remoteErr(err))
	}
	project := mapping.ToDomainProject(saved)
	s.apply(gen, func(snap *Snapshot) { snap.Projects = replaceByID(snap.Projects, project, keyProject) })

	s.notify(ctx, actor.ID, append([]string{project.LeaderID}, project.Members...),
		"New project", fmt.Sprintf("You were added to project %q.", project.Name), projectLink(project.ID))
	s.succeed(ctx, op, "Project created.", slog.String("project_id", project.ID))
	return project, nil
}

// UpdateProject applies patch to the project with id. A patch that only
// changes the status needs the mutate-status verdict.
func (s *Store) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, error) {
	const op = "update project"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	var (
		current domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) { current, found = findByID(snap.Projects, id, keyProject) })
	if !found {
		return domain.Project{}, s.fail(ctx, op, notFound("Project", id))
	}
	res := authz.ProjectResource{Project: current}
	action := authz.ActionEdit
	if patch.OnlyStatus() {
		action = authz.ActionMutateStatus
	}
	if !authz.Decide(&actor, res, action).Allowed() {
		return domain.Project{}, s.fail(ctx, op, denied("edit this project"))
	}
	if patch.LeaderID != nil && *patch.LeaderID != current.LeaderID &&
		!authz.Decide(&actor, res, authz.ActionAssignLeader).Allowed() {
		return domain.Project{}, s.fail(ctx, op, denied("change the project leader"))
	}
	if patch.Members != nil && !authz.Decide(&actor, res, authz.ActionManageMembers).Allowed() {
		return domain.Project{}, s.fail(ctx, op, denied("change project members"))
	}
	if err := s.check(patch); err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}

	next := patch.Apply(current)
	next.Members = dedup(next.Members)
	if next.DueDate.Before(next.StartDate) {
		return domain.Project{}, s.fail(ctx, op, invalid("Due date must not be before start date"))
	}
	joined := added(append([]string{current.LeaderID}, current.Members...), append([]string{next.LeaderID}, next.Members...))
	s.view(func(snap *Snapshot) { err = checkAssignable(snap, actor, current.CompanyID, joined) })
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}

	project, err := s.saveProject(ctx, gen, next)
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	s.notify(ctx, actor.ID, joined, "New project", fmt.Sprintf("You were added to project %q.", project.Name), projectLink(project.ID))
	s.succeed(ctx, op, "Project updated.", slog.String("project_id", id))
	return project, nil
}

// SetProjectStatus moves the project to status.
func (s *Store) SetProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (domain.Project, error) {
	return s.UpdateProject(ctx, id, domain.ProjectPatch{Status: &status})
}

// AddProjectMember adds memberID to the project and notifies them.
func (s *Store) AddProjectMember(ctx context.Context, pid, memberID string) (domain.Project, error) {
	const op = "add project member"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	var (
		current domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) { current, found = findByID(snap.Projects, pid, keyProject) })
	if !found {
		return domain.Project{}, s.fail(ctx, op, notFound("Project", pid))
	}
	if !authz.Decide(&actor, authz.ProjectResource{Project: current}, authz.ActionManageMembers).Allowed() {
		return domain.Project{}, s.fail(ctx, op, denied("change project members"))
	}
	if current.IsMember(memberID) {
		return current, nil
	}
	s.view(func(snap *Snapshot) { err = checkAssignable(snap, actor, current.CompanyID, []string{memberID}) })
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}

	next := current
	next.Members = append(slices.Clone(current.Members), memberID)
	project, err := s.saveProject(ctx, gen, next)
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	s.notify(ctx, actor.ID, []string{memberID}, "New project",
		fmt.Sprintf("You were added to project %q.", project.Name), projectLink(project.ID))
	s.succeed(ctx, op, "Member added.", slog.String("project_id", pid), slog.String("member_id", memberID))
	return project, nil
}

// RemoveProjectMember removes memberID from the project and notifies them.
// The leader cannot be removed this way.
func (s *Store) RemoveProjectMember(ctx context.Context, pid, memberID string) (domain.Project, error) {
	const op = "remove project member"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	var (
		current domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) { current, found = findByID(snap.Projects, pid, keyProject) })
	if !found {
		return domain.Project{}, s.fail(ctx, op, notFound("Project", pid))
	}
	if !authz.Decide(&actor, authz.ProjectResource{Project: current}, authz.ActionManageMembers).Allowed() {
		return domain.Project{}, s.fail(ctx, op, denied("change project members"))
	}
	if memberID == current.LeaderID {
		return domain.Project{}, s.fail(ctx, op, invalid("Assign a new leader before removing the current one"))
	}
	if !slices.Contains(current.Members, memberID) {
		return domain.Project{}, s.fail(ctx, op, notFound("Project member", memberID))
	}

	next := current
	next.Members = removeWhere(current.Members, func(id string) bool { return id == memberID })
	project, err := s.saveProject(ctx, gen, next)
	if err != nil {
		return domain.Project{}, s.fail(ctx, op, err)
	}
	s.notify(ctx, actor.ID, []string{memberID}, "Removed from project",
		fmt.Sprintf("You were removed from project %q.", project.Name), nil)
	s.succeed(ctx, op, "Member removed.", slog.String("project_id", pid), slog.String("member_id", memberID))
	return project, nil
}

// DeleteProject removes the project. Its tasks, comments and attachments go
// with it, remotely by cascade and locally here.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	const op = "delete project"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		current domain.Project
		found   bool
	)
	s.view(func(snap *Snapshot) { current, found = findByID(snap.Projects, id, keyProject) })
	if !found {
		return s.fail(ctx, op, notFound("Project", id))
	}
	if !authz.Decide(&actor, authz.ProjectResource{Project: current}, authz.ActionDelete).Allowed() {
		return s.fail(ctx, op, denied("delete this project"))
	}
	if err := s.gw.Projects().Delete(ctx, id); err != nil {
		return s.fail(ctx, op, remoteErr(err))
	}
	s.apply(gen, func(snap *Snapshot) {
		gone := map[string]bool{}
		for _, t := range snap.Tasks {
			if t.ProjectID == id {
				gone[t.ID] = true
			}
		}
		orphan := func(t domain.Target) bool {
			return (t.ProjectID != nil && *t.ProjectID == id) || (t.TaskID != nil && gone[*t.TaskID])
		}
		snap.Projects = removeWhere(snap.Projects, func(p domain.Project) bool { return p.ID == id })
		snap.Tasks = removeWhere(snap.Tasks, func(t domain.Task) bool { return t.ProjectID == id })
		snap.Comments = removeWhere(snap.Comments, func(c domain.Comment) bool { return orphan(c.Target) })
		snap.Attachments = removeWhere(snap.Attachments, func(a domain.Attachment) bool { return orphan(a.Target) })
	})
	s.succeed(ctx, op, "Project deleted.", slog.String("project_id", id))
	return nil
}

func (s *Store) saveProject(ctx context.Context, gen uint64, p domain.Project) (domain.Project, error) {
	row, err := s.gw.Projects().Update(ctx, p.ID, mapping.ToModelProject(p))
	if err != nil {
		return domain.Project{}, remoteErr(err)
	}
	saved := mapping.ToDomainProject(row)
	s.apply(gen, func(snap *Snapshot) { snap.Projects = replaceByID(snap.Projects, saved, keyProject) })
	return saved, nil
}
