package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	portssvc "github.com/SscSPs/pm_dashboard_app/internal/core/ports/services"
	"github.com/SscSPs/pm_dashboard_app/internal/platform/config"
	"github.com/SscSPs/pm_dashboard_app/internal/utils"
)

// tokenService implements the TokenSvcFacade with HS256 JWTs.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.ID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.ID))
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

func (s *tokenService) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		s.LogDebug(ctx, "Rejected access token", slog.String("reason", err.Error()))
		return "", apperrors.NewUnauthorizedError("Invalid or expired token")
	}
	if claims.Subject == "" {
		return "", apperrors.NewUnauthorizedError("Token has no subject")
	}
	return claims.Subject, nil
}
