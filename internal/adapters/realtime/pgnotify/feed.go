// Package pgnotify streams notification inserts from PostgreSQL LISTEN/NOTIFY.
// The notifications table trigger publishes row_to_json(NEW) on Channel.
package pgnotify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/middleware"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Channel is the NOTIFY channel the insert trigger publishes on.
const Channel = "notifications"

type Feed struct {
	pool *pgxpool.Pool
}

var _ gateway.Feed = (*Feed)(nil)

func NewFeed(pool *pgxpool.Pool) *Feed {
	return &Feed{pool: pool}
}

// decode parses a trigger payload. ok is false for malformed payloads.
func decode(payload string) (models.Notification, bool) {
	var n models.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil || n.ID == "" {
		return models.Notification{}, false
	}
	return n, true
}

// open dedicates a pooled connection to the channel.
func (f *Feed) open(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, apperrors.NewTransportError("failed to acquire listen connection", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, apperrors.NewTransportError("failed to listen for notifications", err)
	}
	return conn, nil
}

// loop hands every decoded insert to fn until ctx is done. The connection is
// released on return; after a cancelled wait pgx has already closed it, so
// the pool discards it instead of reusing a listening session.
func loop(ctx context.Context, conn *pgxpool.Conn, fn func(models.Notification)) error {
	defer conn.Release()
	logger := middleware.GetLoggerFromCtx(ctx)
	for {
		msg, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return apperrors.NewTransportError("notification listener stopped", err)
		}
		n, ok := decode(msg.Payload)
		if !ok {
			logger.Warn("Dropping malformed notification payload", slog.Int("bytes", len(msg.Payload)))
			continue
		}
		fn(n)
	}
}

// Listen delivers every notification insert, for any recipient, to fn until
// ctx is done.
func (f *Feed) Listen(ctx context.Context, fn func(models.Notification)) error {
	conn, err := f.open(ctx)
	if err != nil {
		return err
	}
	return loop(ctx, conn, fn)
}

// Subscribe streams inserts addressed to userID.
func (f *Feed) Subscribe(ctx context.Context, userID string) (gateway.Subscription, error) {
	conn, err := f.open(ctx)
	if err != nil {
		return nil, err
	}
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		events: make(chan models.Notification, 32),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(sub.done)
		defer close(sub.events)
		err := loop(subCtx, conn, func(n models.Notification) {
			if n.UserID != userID {
				return
			}
			select {
			case sub.events <- n:
			case <-subCtx.Done():
			}
		})
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Realtime subscription ended",
				slog.String("user_id", userID), slog.String("error", err.Error()))
		}
	}()
	return sub, nil
}

type subscription struct {
	events chan models.Notification
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Events() <-chan models.Notification { return s.events }

// Close stops the listener and waits for it to release its connection.
func (s *subscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}
