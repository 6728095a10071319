package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
)

// AddUser provisions a new authenticated identity through the provisioning
// function and reloads the snapshot so the new member shows up. ADMIN callers
// are pinned to their own company.
func (s *Store) AddUser(ctx context.Context, req domain.NewUserRequest) (gateway.ProvisionedUser, error) {
	const op = "add user"
	actor, _, err := s.session()
	if err != nil {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.UserResource{}, authz.ActionProvisionUsers).Allowed() {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, denied("create users"))
	}
	if err := s.check(req); err != nil {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, err)
	}
	if len(req.Password) < s.minPassword {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, invalid("Password must be at least %d characters", s.minPassword))
	}
	if !authz.CanAssignRole(&actor, req.Role) {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, denied("grant role "+string(req.Role)))
	}
	req.CompanyID = authz.EffectiveProvisioningCompany(&actor, req.CompanyID)
	if s.provisioner == nil {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, apperrors.NewAppError(http.StatusNotImplemented, "User provisioning is not configured", apperrors.ErrUnsupported))
	}

	sess, err := s.gw.Session(ctx)
	if err != nil {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, remoteErr(err))
	}
	created, err := s.provisioner.CreateUser(ctx, sess.Token, req)
	if err != nil {
		return gateway.ProvisionedUser{}, s.fail(ctx, op, remoteErr(err))
	}
	if err := s.Refresh(ctx); err != nil {
		s.LogWarn(ctx, "User created but reload failed", slog.String("user_id", created.ID))
	}
	s.succeed(ctx, op, "User created.", slog.String("user_id", created.ID))
	return created, nil
}

// UpdateUser applies patch to the user with id. Self edits are limited to
// profile fields; role, company, status and permissions need a full verdict.
func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	const op = "update user"
	actor, gen, err := s.session()
	if err != nil {
		return domain.User{}, s.fail(ctx, op, err)
	}
	var (
		target domain.User
		found  bool
	)
	s.view(func(snap *Snapshot) { target, found = findByID(snap.Users, id, keyUser) })
	if !found {
		return domain.User{}, s.fail(ctx, op, notFound("User", id))
	}
	res := authz.UserResource{User: target}
	verdict := authz.Decide(&actor, res, authz.ActionEdit)
	if !verdict.Allowed() {
		return domain.User{}, s.fail(ctx, op, denied("edit this user"))
	}
	if !verdict.Full() && patch.TouchesPrivilegedFields() {
		return domain.User{}, s.fail(ctx, op, denied("change role, company, status or permissions"))
	}
	if patch.Status != nil && *patch.Status == domain.UserSuspended && !target.IsSuspended() &&
		!authz.Decide(&actor, res, authz.ActionSuspend).Allowed() {
		return domain.User{}, s.fail(ctx, op, denied("suspend this user"))
	}
	if patch.Role != nil && *patch.Role != target.Role &&
		(!authz.Decide(&actor, res, authz.ActionChangeRole).Allowed() || !authz.CanAssignRole(&actor, *patch.Role)) {
		return domain.User{}, s.fail(ctx, op, denied("change this user's role"))
	}
	if patch.CompanyID != nil && actor.Role != domain.RoleMaster && !target.InCompany(*patch.CompanyID) {
		return domain.User{}, s.fail(ctx, op, denied("move users between companies"))
	}
	if err := s.check(patch); err != nil {
		return domain.User{}, s.fail(ctx, op, err)
	}
	if patch.IsEmpty() {
		return target, nil
	}

	saved, err := s.saveUser(ctx, gen, patch.Apply(target))
	if err != nil {
		return domain.User{}, s.fail(ctx, op, err)
	}
	s.succeed(ctx, op, "User updated.", slog.String("user_id", id))
	return saved, nil
}

// DeleteUser never removes the identity. It suspends the user and returns an
// ErrUnsupported error saying so.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	const op = "delete user"
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, op, err)
	}
	var (
		target domain.User
		found  bool
	)
	s.view(func(snap *Snapshot) { target, found = findByID(snap.Users, id, keyUser) })
	if !found {
		return s.fail(ctx, op, notFound("User", id))
	}
	if !authz.Decide(&actor, authz.UserResource{User: target}, authz.ActionDelete).Allowed() {
		return s.fail(ctx, op, denied("delete this user"))
	}

	if !target.IsSuspended() {
		target.Status = domain.UserSuspended
		if _, err := s.saveUser(ctx, gen, target); err != nil {
			return s.fail(ctx, op, err)
		}
	}
	s.LogInfo(ctx, "User suspended in place of deletion", slog.String("user_id", id))
	msg := "Users cannot be deleted; the account was suspended instead."
	s.emit(FeedbackWarning, msg)
	return apperrors.NewAppError(http.StatusNotImplemented, msg, apperrors.ErrUnsupported)
}

// UploadAvatar stores the image under avatars/<userId>/ and points the actor's
// avatarUrl at it.
func (s *Store) UploadAvatar(ctx context.Context, fileName, contentType string, body io.Reader, size int64) (string, error) {
	const op = "upload avatar"
	actor, gen, err := s.session()
	if err != nil {
		return "", s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.UserResource{User: actor}, authz.ActionEdit).Allowed() {
		return "", s.fail(ctx, op, denied("change your profile"))
	}
	if s.storage == nil {
		return "", s.fail(ctx, op, apperrors.NewAppError(http.StatusNotImplemented, "Object storage is not configured", apperrors.ErrUnsupported))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", s.fail(ctx, op, invalid("Avatar must be an image"))
	}
	if size <= 0 {
		return "", s.fail(ctx, op, invalid("Avatar file is empty"))
	}

	key := fmt.Sprintf("avatars/%s/%d%s", actor.ID, s.now().Unix(), strings.ToLower(path.Ext(fileName)))
	url, err := s.storage.Put(ctx, key, contentType, body, size)
	if err != nil {
		return "", s.fail(ctx, op, remoteErr(err))
	}
	actor.AvatarURL = &url
	if _, err := s.saveUser(ctx, gen, actor); err != nil {
		return "", s.fail(ctx, op, err)
	}
	s.succeed(ctx, op, "Profile picture updated.", slog.String("key", key))
	return url, nil
}

// UpdatePreferences merges the non-empty fields of patch into the actor's
// preferences. The snapshot changes only after the gateway confirms.
func (s *Store) UpdatePreferences(ctx context.Context, patch domain.Preferences) (domain.Preferences, error) {
	const op = "update preferences"
	actor, gen, err := s.session()
	if err != nil {
		return domain.Preferences{}, s.fail(ctx, op, err)
	}
	if !authz.Decide(&actor, authz.UserResource{User: actor}, authz.ActionEdit).Allowed() {
		return domain.Preferences{}, s.fail(ctx, op, denied("change your preferences"))
	}
	if err := s.check(patch); err != nil {
		return domain.Preferences{}, s.fail(ctx, op, err)
	}
	actor.Preferences = actor.Preferences.Merge(patch)
	saved, err := s.saveUser(ctx, gen, actor)
	if err != nil {
		return domain.Preferences{}, s.fail(ctx, op, err)
	}
	s.succeed(ctx, op, "Preferences saved.")
	return saved.Preferences, nil
}

// saveUser writes u and reflects the canonical row in Users and, when u is
// the actor, in Actor.
func (s *Store) saveUser(ctx context.Context, gen uint64, u domain.User) (domain.User, error) {
	row, err := s.gw.Members().Update(ctx, u.ID, mapping.ToModelMember(u))
	if err != nil {
		return domain.User{}, remoteErr(err)
	}
	saved := mapping.ToDomainUser(row)
	s.apply(gen, func(snap *Snapshot) {
		snap.Users = replaceByID(snap.Users, saved, keyUser)
		if snap.Actor != nil && snap.Actor.ID == saved.ID {
			snap.Actor = cloneActor(&saved)
		}
	})
	return saved, nil
}
