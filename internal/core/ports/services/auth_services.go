package services

import (
	"context"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
)

// TokenSvcFacade defines the interface for session token management.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed session token for user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// VerifyAccessToken checks signature and expiry and returns the user id
	// the token was issued to.
	VerifyAccessToken(ctx context.Context, token string) (string, error)
}
