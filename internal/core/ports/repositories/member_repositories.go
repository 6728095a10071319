package repositories

import (
	"context"

	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
)

// MemberReader defines read operations on member identities
type MemberReader interface {
	// FindMemberByID retrieves a member by id. Returns apperrors.ErrNotFound when absent.
	FindMemberByID(ctx context.Context, id string) (*domain.User, error)

	// FindCredentialByEmail returns the member registered with email together
	// with its bcrypt password hash. The hash is empty for members that can
	// not log in with a password.
	FindCredentialByEmail(ctx context.Context, email string) (*domain.User, string, error)
}

// MemberWriter defines write operations on member identities
type MemberWriter interface {
	// CreateMember persists a new member with its password hash. When welcome
	// is not nil it is stored in the same transaction.
	CreateMember(ctx context.Context, member domain.User, passwordHash string, welcome *domain.Notification) error
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
