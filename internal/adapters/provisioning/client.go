// Package provisioning calls the privileged user-provisioning function over
// HTTP on behalf of the signed-in caller.
package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/sony/gobreaker"
)

// Client posts provisioning requests. Calls are never retried; after
// repeated transport failures the breaker opens and calls fail fast until it
// half-opens again.
type Client struct {
	url  string
	http *http.Client
	cb   *gobreaker.CircuitBreaker
}

var _ gateway.Provisioner = (*Client)(nil)

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "provisioning",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			// Only transport failures count; a 4xx answer means the
			// function is healthy.
			IsSuccessful: func(err error) bool {
				return err == nil || apperrors.KindOf(err) != apperrors.KindTransport
			},
		}),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// CreateUser sends req with the caller's bearer token and maps the answer.
func (c *Client) CreateUser(ctx context.Context, token string, req domain.NewUserRequest) (gateway.ProvisionedUser, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.post(ctx, token, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return gateway.ProvisionedUser{}, apperrors.NewTransportError("Provisioning service unavailable", err)
		}
		return gateway.ProvisionedUser{}, err
	}
	return out.(gateway.ProvisionedUser), nil
}

func (c *Client) post(ctx context.Context, token string, req domain.NewUserRequest) (gateway.ProvisionedUser, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return gateway.ProvisionedUser{}, fmt.Errorf("encode provisioning request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return gateway.ProvisionedUser{}, apperrors.NewTransportError("invalid provisioning url", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return gateway.ProvisionedUser{}, apperrors.NewTransportError("Provisioning request failed", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gateway.ProvisionedUser{}, apperrors.NewTransportError("failed to read provisioning response", err)
	}

	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK {
		var created gateway.ProvisionedUser
		if err := json.Unmarshal(raw, &created); err != nil || created.ID == "" {
			return gateway.ProvisionedUser{}, apperrors.NewTransportError("malformed provisioning response", err)
		}
		return created, nil
	}
	return gateway.ProvisionedUser{}, statusError(resp.StatusCode, raw)
}

// statusError maps the documented answer codes onto the error taxonomy.
func statusError(code int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Error
	switch code {
	case http.StatusBadRequest:
		if msg == "" {
			msg = "Missing or invalid fields"
		}
		return apperrors.NewValidationFailedError(msg)
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "Session expired"
		}
		return apperrors.NewUnauthorizedError(msg)
	case http.StatusForbidden:
		if msg == "" {
			msg = "Insufficient permission"
		}
		return apperrors.NewForbiddenError(msg)
	case http.StatusConflict:
		if msg == "" {
			msg = "Email already registered"
		}
		return apperrors.NewConflictError(msg)
	}
	return apperrors.NewTransportError(fmt.Sprintf("Provisioning answered %d", code), errors.New(msg))
}
