package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
	"github.com/go-playground/validator/v10"
)

// FeedbackLevel is the severity of a Feedback message.
type FeedbackLevel string

const (
	FeedbackSuccess FeedbackLevel = "success"
	FeedbackWarning FeedbackLevel = "warning"
	FeedbackError   FeedbackLevel = "error"
)

// Feedback is the transient, user facing outcome of an action.
type Feedback struct {
	Level   FeedbackLevel
	Message string
}

// Feedback returns the channel every action reports its outcome on. Messages
// are dropped when nobody drains it.
func (s *Store) Feedback() <-chan Feedback {
	return s.feedback
}

func (s *Store) emit(level FeedbackLevel, msg string) {
	select {
	case s.feedback <- Feedback{Level: level, Message: msg}:
	default:
	}
}

// fail logs err, reports it as feedback and returns it unchanged.
func (s *Store) fail(ctx context.Context, op string, err error) error {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindTransport:
		s.LogError(ctx, err, "Action failed", slog.String("action", op))
	default:
		s.LogWarn(ctx, "Action rejected", slog.String("action", op), slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
	s.emit(FeedbackError, apperrors.UserMessage(err))
	return err
}

func (s *Store) succeed(ctx context.Context, op, msg string, keyvals ...any) {
	s.LogInfo(ctx, "Action completed", append([]any{slog.String("action", op)}, keyvals...)...)
	s.emit(FeedbackSuccess, msg)
}

// session returns a copy of the actor and the session generation. Actions run
// only in StateReady with a known actor.
func (s *Store) session() (domain.User, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady || s.snap.Actor == nil {
		return domain.User{}, 0, apperrors.NewUnauthorizedError("Not signed in")
	}
	return *s.snap.Actor, s.gen, nil
}

// view runs fn against the live snapshot under the read lock.
func (s *Store) view(fn func(snap *Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.snap)
}

// apply runs fn under the write lock if the session gen is still current.
// Results of a call that outlived its session are discarded.
func (s *Store) apply(gen uint64, fn func(snap *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != StateReady {
		return
	}
	fn(&s.snap)
}

// remoteErr normalises a gateway error: classified errors pass through, the
// rest become transport errors.
func remoteErr(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindTransport || errors.Is(err, apperrors.ErrTransport) {
		return err
	}
	return apperrors.NewTransportError("Remote gateway call failed", err)
}

func denied(what string) error {
	return apperrors.NewForbiddenError("You do not have permission to " + what)
}

func notFound(entity, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", entity, id))
}

func invalid(format string, args ...any) error {
	return apperrors.NewValidationFailedError(fmt.Sprintf(format, args...))
}

// check runs struct validation and folds the result into a ValidationError.
func (s *Store) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return invalid("Invalid fields: %s", strings.Join(fields, ", "))
	}
	return invalid("Invalid input: %v", err)
}

// notify emits system notifications to recipients other than the actor.
// Failures are logged and never fail the calling action.
func (s *Store) notify(ctx context.Context, actorID string, recipients []string, title, message string, link *string) {
	seen := map[string]struct{}{}
	for _, to := range recipients {
		if to == "" || to == actorID {
			continue
		}
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}
		n := domain.Notification{
			ID:        s.newID(),
			UserID:    to,
			Title:     title,
			Message:   message,
			Type:      domain.NotificationInfo,
			CreatedAt: s.now(),
			Link:      link,
		}
		if _, err := s.gw.Notifications().Insert(ctx, mapping.ToModelNotification(n)); err != nil {
			s.LogError(ctx, err, "Failed to emit notification", slog.String("user_id", to), slog.String("title", title))
		}
	}
}

func strPtr(s string) *string { return &s }

func dependencyErr(entity string, projects, users int) error {
	return apperrors.NewDependencyError(fmt.Sprintf("This %s is still referenced by %d project(s) and %d user(s)", entity, projects, users))
}
