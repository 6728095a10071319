package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/authz"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pm_dashboard_app/internal/core/ports/repositories"
	"github.com/SscSPs/pm_dashboard_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultMinPasswordLength applies when no option overrides it.
const DefaultMinPasswordLength = 6

type memberService struct {
	BaseService
	memberRepo  portsrepo.MemberRepositoryFacade
	validate    *validator.Validate
	minPassword int
	now         func() time.Time
	newID       func() string
}

// MemberServiceOption configures a memberService
type MemberServiceOption func(*memberService)

// WithMinPasswordLength sets the shortest password ProvisionUser accepts.
func WithMinPasswordLength(n int) MemberServiceOption {
	return func(s *memberService) {
		if n > 0 {
			s.minPassword = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemberServiceOption {
	return func(s *memberService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for new member ids.
func WithIDGenerator(newID func() string) MemberServiceOption {
	return func(s *memberService) { s.newID = newID }
}

// NewMemberService creates the service behind the provisioning function,
// login and whoami.
func NewMemberService(repo portsrepo.MemberRepositoryFacade, opts ...MemberServiceOption) *memberService {
	s := &memberService{
		memberRepo:  repo,
		validate:    validator.New(),
		minPassword: DefaultMinPasswordLength,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// caller loads the stored profile of callerID. Client asserted roles are
// never trusted.
func (s *memberService) caller(ctx context.Context, callerID string) (*domain.User, error) {
	u, err := s.memberRepo.FindMemberByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Unknown caller")
		}
		s.LogError(ctx, err, "Failed to load caller", slog.String("caller_id", callerID))
		return nil, err
	}
	if !authz.CanEstablishSession(u) {
		return nil, apperrors.NewForbiddenError("Account suspended")
	}
	return u, nil
}

func (s *memberService) ProvisionUser(ctx context.Context, callerID string, req domain.NewUserRequest) (*domain.User, error) {
	caller, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !authz.CanProvisionUsers(caller) {
		s.LogWarn(ctx, "Provisioning refused", slog.String("caller_id", callerID), slog.String("role", string(caller.Role)))
		return nil, apperrors.NewForbiddenError("Insufficient permission")
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("Missing or invalid field: %s", verrs[0].Field()))
		}
		return nil, apperrors.NewValidationFailedError("Missing or invalid fields")
	}
	if len(req.Password) < s.minPassword {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("Password must be at least %d characters", s.minPassword))
	}
	if !authz.CanAssignRole(caller, req.Role) {
		return nil, apperrors.NewForbiddenError("Insufficient permission to grant role " + string(req.Role))
	}
	requested := req.CompanyID
	req.CompanyID = authz.EffectiveProvisioningCompany(caller, req.CompanyID)
	if requested != nil && req.CompanyID != nil && *requested != *req.CompanyID {
		s.LogInfo(ctx, "Provisioning company pinned to caller's company",
			slog.String("caller_id", callerID), slog.String("requested", *requested), slog.String("pinned", *req.CompanyID))
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, apperrors.NewAppError(500, "failed to hash password", err)
	}

	member := domain.NewUser(s.newID(), strings.TrimSpace(req.FullName), req.Email, req.Role)
	member.CompanyID = req.CompanyID
	member.JobTitle = req.JobTitle
	if req.Permissions != nil {
		member.Permissions = req.Permissions
	}
	if req.Status != nil {
		member.Status = *req.Status
	}
	welcome := &domain.Notification{
		ID:        s.newID(),
		UserID:    member.ID,
		Title:     "Welcome",
		Message:   fmt.Sprintf("%s created your account.", caller.Name),
		Type:      domain.NotificationSuccess,
		CreatedAt: s.now(),
	}

	if err := s.memberRepo.CreateMember(ctx, member, hash, welcome); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email already registered")
		}
		s.LogError(ctx, err, "Failed to create member", slog.String("email", req.Email))
		return nil, err
	}
	s.LogInfo(ctx, "Member provisioned",
		slog.String("member_id", member.ID), slog.String("caller_id", callerID), slog.String("role", string(member.Role)))
	return &member, nil
}

func (s *memberService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, hash, err := s.memberRepo.FindCredentialByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if hash == "" || !utils.CheckPasswordHash(password, hash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if !authz.CanEstablishSession(u) {
		s.LogWarn(ctx, "Suspended member attempted to log in", slog.String("member_id", u.ID))
		return nil, apperrors.NewForbiddenError("Account suspended")
	}
	return u, nil
}

func (s *memberService) WhoAmI(ctx context.Context, callerID string) (*domain.User, error) {
	u, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !authz.CanProvisionUsers(u) {
		return nil, apperrors.NewForbiddenError("Insufficient permission")
	}
	return u, nil
}
