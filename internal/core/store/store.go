// Package store holds the session scoped snapshot of remote entities and the
// mutation actions that change it. A Store is created once per process and
// moves between Unauthenticated, Loading and Ready as sessions begin and end.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/core/services"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle state of the store.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unauthenticated"
	}
}

const (
	defaultMinPasswordLength = 6
	defaultFeedbackBuffer    = 64
)

// Dependencies are the remote collaborators of a Store. Gateway is required;
// the others disable their actions when nil.
type Dependencies struct {
	Gateway     gateway.Gateway
	Feed        gateway.Feed
	Provisioner gateway.Provisioner
	Storage     gateway.ObjectStorage
}

// Options tunes a Store. Zero values select defaults.
type Options struct {
	MinPasswordLength int
	FeedbackBuffer    int
	Now               func() time.Time
	NewID             func() string
}

// Store owns the snapshot. Only its methods write to it.
type Store struct {
	services.BaseService

	gw          gateway.Gateway
	feed        gateway.Feed
	provisioner gateway.Provisioner
	storage     gateway.ObjectStorage
	validate    *validator.Validate
	now         func() time.Time
	newID       func() string
	minPassword int

	mu    sync.RWMutex
	state State
	gen   uint64 // Bumped on every sign-in and sign-out
	snap  Snapshot

	sub       gateway.Subscription
	subCancel context.CancelFunc
	subDone   chan struct{}

	feedback chan Feedback
}

// New creates a Store in the Unauthenticated state.
func New(deps Dependencies, opts Options) *Store {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = defaultMinPasswordLength
	}
	if opts.FeedbackBuffer <= 0 {
		opts.FeedbackBuffer = defaultFeedbackBuffer
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{
		gw:          deps.Gateway,
		feed:        deps.Feed,
		provisioner: deps.Provisioner,
		storage:     deps.Storage,
		validate:    validator.New(),
		now:         opts.Now,
		newID:       opts.NewID,
		minPassword: opts.MinPasswordLength,
		feedback:    make(chan Feedback, opts.FeedbackBuffer),
		snap:        emptySnapshot(),
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SignIn establishes a session for the gateway's authenticated user. It loads
// the actor profile and every collection, then subscribes to notification
// inserts for the actor. A failed bulk load still ends in StateReady, with
// empty collections, and the error is returned.
func (s *Store) SignIn(ctx context.Context) error {
	s.teardown()

	sess, err := s.gw.Session(ctx)
	if err != nil {
		s.LogWarn(ctx, "No active session", slog.String("error", err.Error()))
		return s.fail(ctx, "sign in", remoteErr(err))
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = StateLoading
	s.snap = emptySnapshot()
	s.snap.Loading = true
	s.mu.Unlock()

	row, err := s.gw.Members().SelectByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			err = apperrors.NewUnauthorizedError("No profile exists for the authenticated user")
		}
		s.finishLoad(gen, nil, emptySnapshot())
		return s.fail(ctx, "load profile", remoteErr(err))
	}
	actor := mapping.ToDomainUser(row)
	if !authz.CanEstablishSession(&actor) {
		s.teardown()
		return s.fail(ctx, "sign in", apperrors.NewForbiddenError("This account is suspended"))
	}

	loaded, loadErr := s.fetchAll(ctx, actor.ID)
	if !s.finishLoad(gen, &actor, loaded) {
		return apperrors.NewUnauthorizedError("Session ended while loading")
	}
	s.subscribe(ctx, gen, actor.ID)

	if loadErr != nil {
		return s.fail(ctx, "bulk fetch", remoteErr(loadErr))
	}
	s.LogInfo(ctx, "Session ready", slog.String("user_id", actor.ID), slog.String("role", string(actor.Role)))
	return nil
}

// SignOut tears down the realtime subscription and clears the snapshot.
func (s *Store) SignOut(ctx context.Context) {
	s.teardown()
	s.LogInfo(ctx, "Signed out")
}

// Refresh re-fetches every collection and replaces them wholesale.
func (s *Store) Refresh(ctx context.Context) error {
	actor, gen, err := s.session()
	if err != nil {
		return s.fail(ctx, "refresh", err)
	}
	loaded, err := s.fetchAll(ctx, actor.ID)
	if err != nil {
		return s.fail(ctx, "refresh", remoteErr(err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != StateReady {
		return nil
	}
	loaded.Actor = s.snap.Actor
	if u, ok := findByID(loaded.Users, actor.ID, keyUser); ok {
		loaded.Actor = &u
	}
	s.snap = loaded
	return nil
}

// finishLoad installs a loaded snapshot if the session that started the load
// is still current. It reports whether it did.
func (s *Store) finishLoad(gen uint64, actor *domain.User, loaded Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	loaded.Actor = actor
	loaded.Loading = false
	s.snap = loaded
	s.state = StateReady
	return true
}

// fetchAll loads every collection in parallel. On any failure it returns an
// empty snapshot along with the first error.
func (s *Store) fetchAll(ctx context.Context, actorID string) (Snapshot, error) {
	var (
		members       []models.Member
		companies     []models.Company
		projects      []models.Project
		tasks         []models.Task
		comments      []models.Comment
		attachments   []models.Attachment
		notifications []models.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { members, err = s.gw.Members().SelectAll(gctx); return })
	g.Go(func() (err error) { companies, err = s.gw.Companies().SelectAll(gctx); return })
	g.Go(func() (err error) { projects, err = s.gw.Projects().SelectAll(gctx); return })
	g.Go(func() (err error) { tasks, err = s.gw.Tasks().SelectAll(gctx); return })
	g.Go(func() (err error) { comments, err = s.gw.Comments().SelectAll(gctx); return })
	g.Go(func() (err error) { attachments, err = s.gw.Attachments().SelectAll(gctx); return })
	g.Go(func() (err error) { notifications, err = s.gw.Notifications().SelectAll(gctx); return })
	if err := g.Wait(); err != nil {
		return emptySnapshot(), err
	}

	own := make([]domain.Notification, 0, len(notifications))
	for _, n := range mapping.ToDomainNotificationSlice(notifications) {
		if n.UserID == actorID {
			own = append(own, n)
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })

	return Snapshot{
		Users:         mapping.ToDomainUserSlice(members),
		Companies:     mapping.ToDomainCompanySlice(companies),
		Projects:      mapping.ToDomainProjectSlice(projects),
		Tasks:         mapping.ToDomainTaskSlice(tasks),
		Comments:      mapping.ToDomainCommentSlice(comments),
		Attachments:   mapping.ToDomainAttachmentSlice(attachments),
		Notifications: dedupNotifications(own),
	}, nil
}

// subscribe opens the realtime feed for actorID. The subscription outlives
// ctx and ends on sign-out.
func (s *Store) subscribe(ctx context.Context, gen uint64, actorID string) {
	if s.feed == nil {
		return
	}
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub, err := s.feed.Subscribe(subCtx, actorID)
	if err != nil {
		cancel()
		s.LogError(ctx, err, "Failed to subscribe to notifications", slog.String("user_id", actorID))
		s.emit(FeedbackWarning, "Live notifications are unavailable.")
		return
	}

	done := make(chan struct{})
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		cancel()
		_ = sub.Close()
		return
	}
	s.sub, s.subCancel, s.subDone = sub, cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-subCtx.Done():
				return
			case row, ok := <-sub.Events():
				if !ok {
					return
				}
				n := mapping.ToDomainNotification(row)
				if n.UserID != actorID {
					continue
				}
				if s.mergeNotification(gen, n) {
					s.LogDebug(subCtx, "Realtime notification merged", slog.String("notification_id", n.ID))
				}
			}
		}
	}()
}

// teardown closes any live subscription and resets to Unauthenticated.
func (s *Store) teardown() {
	s.mu.Lock()
	s.gen++
	sub, cancel, done := s.sub, s.subCancel, s.subDone
	s.sub, s.subCancel, s.subDone = nil, nil, nil
	s.state = StateUnauthenticated
	s.snap = emptySnapshot()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		_ = sub.Close()
	}
	if done != nil {
		<-done
	}
}

// mergeNotification prepends n unless a notification with the same id is
// already present. Returns false when nothing changed.
func (s *Store) mergeNotification(gen uint64, n domain.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != StateReady {
		return false
	}
	if _, ok := findByID(s.snap.Notifications, n.ID, keyNotification); ok {
		return false
	}
	s.snap.Notifications = append([]domain.Notification{n.Clone()}, s.snap.Notifications...)
	return true
}

func dedupNotifications(ns []domain.Notification) []domain.Notification {
	seen := make(map[string]struct{}, len(ns))
	out := make([]domain.Notification, 0, len(ns))
	for _, n := range ns {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	return out
}
