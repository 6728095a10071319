package pgsql

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway serves the seven collections from PostgreSQL. Every call is bounded
// by the timeout given to NewGateway.
type Gateway struct {
	members       *Table[models.Member]
	companies     *Table[models.Company]
	projects      *Table[models.Project]
	tasks         *Table[models.Task]
	comments      *Table[models.Comment]
	attachments   *Table[models.Attachment]
	notifications *Table[models.Notification]

	mu      sync.RWMutex
	session *gateway.Session
}

var _ gateway.Gateway = (*Gateway)(nil)

func NewGateway(pool *pgxpool.Pool, timeout time.Duration) *Gateway {
	return &Gateway{
		members:       NewTable[models.Member](pool, models.TableMembers, timeout),
		companies:     NewTable[models.Company](pool, models.TableCompanies, timeout),
		projects:      NewTable[models.Project](pool, models.TableProjects, timeout),
		tasks:         NewTable[models.Task](pool, models.TableTasks, timeout),
		comments:      NewTable[models.Comment](pool, models.TableComments, timeout),
		attachments:   NewTable[models.Attachment](pool, models.TableAttachments, timeout),
		notifications: NewTable[models.Notification](pool, models.TableNotifications, timeout),
	}
}

func (g *Gateway) Members() gateway.Table[models.Member]             { return g.members }
func (g *Gateway) Companies() gateway.Table[models.Company]          { return g.companies }
func (g *Gateway) Projects() gateway.Table[models.Project]           { return g.projects }
func (g *Gateway) Tasks() gateway.Table[models.Task]                 { return g.tasks }
func (g *Gateway) Comments() gateway.Table[models.Comment]           { return g.comments }
func (g *Gateway) Attachments() gateway.Table[models.Attachment]     { return g.attachments }
func (g *Gateway) Notifications() gateway.Table[models.Notification] { return g.notifications }

// UseSession makes s the identity returned by Session. The token must already
// have been verified by the caller.
func (g *Gateway) UseSession(s gateway.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = &s
}

// ClearSession drops the active session.
func (g *Gateway) ClearSession() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = nil
}

func (g *Gateway) Session(ctx context.Context) (gateway.Session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return gateway.Session{}, apperrors.NewUnauthorizedError("No active session")
	}
	return *g.session, nil
}
