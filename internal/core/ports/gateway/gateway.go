// Package gateway declares the remote collaborators the synchronized store
// depends on: the data gateway, the session accessor, the realtime feed, the
// user provisioning function and object storage.
package gateway

import (
	"context"
	"io"

	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
)

// TableReader reads rows of one remote collection.
type TableReader[R models.Row] interface {
	SelectAll(ctx context.Context) ([]R, error)
	// SelectByID returns apperrors.ErrNotFound when no row has id.
	SelectByID(ctx context.Context, id string) (R, error)
}

// TableWriter writes rows of one remote collection. Insert and Update return
// the canonical row as stored.
type TableWriter[R models.Row] interface {
	Insert(ctx context.Context, row R) (R, error)
	// Update overwrites every mutable column of the row with id.
	Update(ctx context.Context, id string, row R) (R, error)
	Delete(ctx context.Context, id string) error
}

// Table is CRUD over a single remote collection.
type Table[R models.Row] interface {
	TableReader[R]
	TableWriter[R]
}

// Session is the authenticated identity the gateway currently acts as.
type Session struct {
	Token  string
	UserID string
}

// SessionAccessor returns the active session, or apperrors.ErrUnauthorized.
type SessionAccessor interface {
	Session(ctx context.Context) (Session, error)
}

// Gateway exposes the seven remote collections plus the session accessor.
type Gateway interface {
	Members() Table[models.Member]
	Companies() Table[models.Company]
	Projects() Table[models.Project]
	Tasks() Table[models.Task]
	Comments() Table[models.Comment]
	Attachments() Table[models.Attachment]
	Notifications() Table[models.Notification]
	SessionAccessor
}

// Subscription is a live stream of notification inserts for one recipient.
type Subscription interface {
	// Events is closed once the subscription ends.
	Events() <-chan models.Notification
	Close() error
}

// Feed opens realtime subscriptions keyed by recipient id.
type Feed interface {
	Subscribe(ctx context.Context, userID string) (Subscription, error)
}

// ProvisionedUser is what the provisioning function returns on 201.
type ProvisionedUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	CompanyID *string `json:"companyId,omitempty"`
}

// Provisioner creates new authenticated identities on behalf of the caller
// whose session token is given.
type Provisioner interface {
	CreateUser(ctx context.Context, token string, req domain.NewUserRequest) (ProvisionedUser, error)
}

// ObjectStorage stores blobs and returns the public URL they are served from.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
