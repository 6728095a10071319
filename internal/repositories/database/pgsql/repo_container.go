package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/pm_dashboard_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, timeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MemberRepo: newPgxMemberRepository(dbPool, timeout),
	}
}
