package services

import (
	"context"

	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
)

// MemberProvisioningSvc creates new authenticated identities.
type MemberProvisioningSvc interface {
	// ProvisionUser creates the identity described by req on behalf of the
	// member callerID. The caller's role is re-read from storage; ADMIN
	// callers are pinned to their own company.
	ProvisionUser(ctx context.Context, callerID string, req domain.NewUserRequest) (*domain.User, error)
}

// MemberSessionSvc defines operations around member sessions
type MemberSessionSvc interface {
	// Authenticate checks email and password. Suspended members are refused.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// WhoAmI returns the stored profile of a MASTER or ADMIN caller.
	WhoAmI(ctx context.Context, callerID string) (*domain.User, error)
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberProvisioningSvc
	MemberSessionSvc
}
