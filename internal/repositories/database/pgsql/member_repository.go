package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/apperrors"
	"github.com/SscSPs/pm_dashboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pm_dashboard_app/internal/core/ports/repositories"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/SscSPs/pm_dashboard_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(db *pgxpool.Pool, timeout time.Duration) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository{Pool: db, Timeout: timeout}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

var memberSelectQuery = `SELECT ` + strings.Join(models.Member{}.Columns(), ", ") + ` FROM members `

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, memberSelectQuery+`WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.NewTransportError("failed to query member", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Member])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("member %s not found", id))
		}
		return nil, apperrors.NewTransportError("failed to read member", err)
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *PgxMemberRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `SELECT id, email, password_hash FROM members WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return nil, "", apperrors.NewTransportError("failed to query credentials", err)
	}
	cred, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Credential])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", apperrors.NewTransportError("failed to read credentials", err)
	}

	u, err := r.FindMemberByID(ctx, cred.MemberID)
	if err != nil {
		return nil, "", err
	}
	hash := ""
	if cred.PasswordHash != nil {
		hash = *cred.PasswordHash
	}
	return u, hash, nil
}

func (r *PgxMemberRepository) CreateMember(ctx context.Context, member domain.User, passwordHash string, welcome *domain.Notification) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	row := mapping.ToModelMember(member)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	cols := append(row.Columns(), "password_hash")
	args := append(row.Values(), passwordHash)
	if _, err := tx.Exec(ctx, insertSQL(models.TableMembers, cols), args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("Email already registered")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("company does not exist")
			}
		}
		return apperrors.NewTransportError("failed to save member "+member.ID, err)
	}

	if welcome != nil {
		n := mapping.ToModelNotification(*welcome)
		if n.CreatedAt.IsZero() {
			n.CreatedAt = row.CreatedAt
		}
		if _, err := tx.Exec(ctx, insertSQL(models.TableNotifications, n.Columns()), n.Values()...); err != nil {
			return apperrors.NewTransportError("failed to save welcome notification", err)
		}
	}
	return r.Commit(ctx, tx)
}

func insertSQL(table string, cols []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(ph, ", "))
}
