package store_test

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/stretchr/testify/mock"
)

// memTable is an in-memory gateway.Table that records write calls.
type memTable[R models.Row] struct {
	mu        sync.Mutex
	rows      []R
	selectErr error
	writeErr  error
	inserts   int
	updates   int
	deletes   int
	onInsert  func(R)
}

var _ gateway.Table[models.Task] = (*memTable[models.Task])(nil)

func newTable[R models.Row](rows ...R) *memTable[R] {
	return &memTable[R]{rows: rows}
}

func (t *memTable[R]) SelectAll(ctx context.Context) ([]R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selectErr != nil {
		return nil, t.selectErr
	}
	return slices.Clone(t.rows), nil
}

func (t *memTable[R]) SelectByID(ctx context.Context, id string) (R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.rows {
		if r.RowID() == id {
			return r, nil
		}
	}
	var zero R
	return zero, apperrors.ErrNotFound
}

func (t *memTable[R]) Insert(ctx context.Context, row R) (R, error) {
	t.mu.Lock()
	t.inserts++
	if t.writeErr != nil {
		t.mu.Unlock()
		var zero R
		return zero, t.writeErr
	}
	t.rows = append(t.rows, row)
	hook := t.onInsert
	t.mu.Unlock()
	if hook != nil {
		hook(row)
	}
	return row, nil
}

func (t *memTable[R]) Update(ctx context.Context, id string, row R) (R, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updates++
	var zero R
	if t.writeErr != nil {
		return zero, t.writeErr
	}
	for i, r := range t.rows {
		if r.RowID() == id {
			t.rows[i] = row
			return row, nil
		}
	}
	return zero, apperrors.ErrNotFound
}

func (t *memTable[R]) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deletes++
	if t.writeErr != nil {
		return t.writeErr
	}
	for i, r := range t.rows {
		if r.RowID() == id {
			t.rows = slices.Delete(t.rows, i, i+1)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (t *memTable[R]) get(id string) (R, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.rows {
		if r.RowID() == id {
			return r, true
		}
	}
	var zero R
	return zero, false
}

// edit rewrites a stored row in place, as another client would.
func (t *memTable[R]) edit(id string, fn func(*R)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].RowID() == id {
			fn(&t.rows[i])
			return
		}
	}
	panic("no row " + id)
}

func (t *memTable[R]) writes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inserts + t.updates + t.deletes
}

// memGateway is an in-memory gateway.Gateway.
type memGateway struct {
	members       *memTable[models.Member]
	companies     *memTable[models.Company]
	projects      *memTable[models.Project]
	tasks         *memTable[models.Task]
	comments      *memTable[models.Comment]
	attachments   *memTable[models.Attachment]
	notifications *memTable[models.Notification]

	mu      sync.Mutex
	session *gateway.Session
}

var _ gateway.Gateway = (*memGateway)(nil)

func (g *memGateway) Members() gateway.Table[models.Member]             { return g.members }
func (g *memGateway) Companies() gateway.Table[models.Company]          { return g.companies }
func (g *memGateway) Projects() gateway.Table[models.Project]           { return g.projects }
func (g *memGateway) Tasks() gateway.Table[models.Task]                 { return g.tasks }
func (g *memGateway) Comments() gateway.Table[models.Comment]           { return g.comments }
func (g *memGateway) Attachments() gateway.Table[models.Attachment]     { return g.attachments }
func (g *memGateway) Notifications() gateway.Table[models.Notification] { return g.notifications }

func (g *memGateway) Session(ctx context.Context) (gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return gateway.Session{}, apperrors.NewUnauthorizedError("no session")
	}
	return *g.session, nil
}

func (g *memGateway) signInAs(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = &gateway.Session{Token: "token-" + userID, UserID: userID}
}

func (g *memGateway) totalWrites() int {
	return g.members.writes() + g.companies.writes() + g.projects.writes() + g.tasks.writes() +
		g.comments.writes() + g.attachments.writes() + g.notifications.writes()
}

// chanFeed hands out channel backed subscriptions.
type chanFeed struct {
	mu   sync.Mutex
	subs map[string]*chanSub
	err  error
}

type chanSub struct {
	events chan models.Notification
	once   sync.Once
	closed chan struct{}
}

func newFeed() *chanFeed { return &chanFeed{subs: map[string]*chanSub{}} }

func (f *chanFeed) Subscribe(ctx context.Context, userID string) (gateway.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sub := &chanSub{events: make(chan models.Notification, 16), closed: make(chan struct{})}
	f.subs[userID] = sub
	return sub, nil
}

func (f *chanFeed) sub(userID string) *chanSub {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[userID]
}

func (s *chanSub) Events() <-chan models.Notification { return s.events }

func (s *chanSub) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *chanSub) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// MockProvisioner is a mock implementation of gateway.Provisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) CreateUser(ctx context.Context, token string, req domain.NewUserRequest) (gateway.ProvisionedUser, error) {
	args := m.Called(ctx, token, req)
	return args.Get(0).(gateway.ProvisionedUser), args.Error(1)
}

// MockObjectStorage is a mock implementation of gateway.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

var errBoom = errors.New("connection reset by peer")
