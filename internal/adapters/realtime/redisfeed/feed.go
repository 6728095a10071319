// Package redisfeed fans notification inserts out over Redis pub/sub, one
// channel per recipient.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/middleware"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/redis/go-redis/v9"
)

// ChannelFor is the pub/sub channel carrying userID's notifications.
func ChannelFor(userID string) string {
	return "notifications:" + userID
}

// NewClient connects to the Redis server at url and pings it.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis: url is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}
	return client, nil
}

// Source produces notification inserts for every recipient.
type Source interface {
	Listen(ctx context.Context, fn func(models.Notification)) error
}

type Feed struct {
	client *redis.Client
}

var _ gateway.Feed = (*Feed)(nil)

func NewFeed(client *redis.Client) *Feed {
	return &Feed{client: client}
}

// Publish sends n to its recipient's channel.
func (f *Feed) Publish(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redis: encode notification %s: %w", n.ID, err)
	}
	if err := f.client.Publish(ctx, ChannelFor(n.UserID), payload).Err(); err != nil {
		return apperrors.NewTransportError("failed to publish notification", err)
	}
	return nil
}

// Relay republishes everything src produces until ctx is done. Publish
// failures are logged and skipped.
func (f *Feed) Relay(ctx context.Context, src Source) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	return src.Listen(ctx, func(n models.Notification) {
		if err := f.Publish(ctx, n); err != nil {
			logger.Warn("Failed to relay notification",
				slog.String("notification_id", n.ID), slog.String("error", err.Error()))
		}
	})
}

// accept decodes a message received on userID's channel.
func accept(payload, userID string) (models.Notification, bool) {
	var n models.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil || n.ID == "" || n.UserID != userID {
		return models.Notification{}, false
	}
	return n, true
}

// Subscribe streams notifications published for userID. It returns once
// Redis has confirmed the subscription.
func (f *Feed) Subscribe(ctx context.Context, userID string) (gateway.Subscription, error) {
	ps := f.client.Subscribe(ctx, ChannelFor(userID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, apperrors.NewTransportError("failed to subscribe to notifications", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		ps:     ps,
		events: make(chan models.Notification, 32),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(sub.done)
		defer close(sub.events)
		ch := ps.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				n, ok := accept(msg.Payload, userID)
				if !ok {
					continue
				}
				select {
				case sub.events <- n:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()
	return sub, nil
}

type subscription struct {
	ps     *redis.PubSub
	events chan models.Notification
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Events() <-chan models.Notification { return s.events }

func (s *subscription) Close() error {
	s.cancel()
	err := s.ps.Close()
	<-s.done
	return err
}
