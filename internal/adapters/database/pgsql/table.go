package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pm_dashboard_app/internal/core/ports/gateway"
	"github.com/SscSPs/pm_dashboard_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Table is the pgx implementation of gateway.Table for one collection. The
// SQL is derived from the row type's Columns, so every collection shares it.
type Table[R models.Row] struct {
	pool    *pgxpool.Pool
	name    string
	timeout time.Duration

	columns    []string
	selectSQL  string
	insertSQL  string
	updateSQL  string
	updateCols []int
	deleteSQL  string
}

var _ gateway.Table[models.Member] = (*Table[models.Member])(nil)

// NewTable builds the statements for the collection called name.
func NewTable[R models.Row](pool *pgxpool.Pool, name string, timeout time.Duration) *Table[R] {
	var zero R
	cols := zero.Columns()
	list := strings.Join(cols, ", ")

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	// id and created_at never change after insert.
	var sets []string
	var updateCols []int
	for i, c := range cols {
		if c == "id" || c == "created_at" {
			continue
		}
		updateCols = append(updateCols, i)
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(updateCols)+1))
	}

	return &Table[R]{
		pool:       pool,
		name:       name,
		timeout:    timeout,
		columns:    cols,
		selectSQL:  fmt.Sprintf("SELECT %s FROM %s", list, name),
		insertSQL:  fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s", name, list, strings.Join(placeholders, ", "), list),
		updateSQL:  fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s", name, strings.Join(sets, ", "), list),
		updateCols: updateCols,
		deleteSQL:  fmt.Sprintf("DELETE FROM %s WHERE id = $1", name),
	}
}

func (t *Table[R]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

func (t *Table[R]) query(ctx context.Context, sql string, args ...any) ([]R, error) {
	rows, err := t.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[R])
}

// SelectAll returns every row, oldest first.
func (t *Table[R]) SelectAll(ctx context.Context) ([]R, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	out, err := t.query(ctx, t.selectSQL+" ORDER BY created_at")
	if err != nil {
		return nil, translateError(err, opRead, t.name, "")
	}
	if out == nil {
		out = []R{}
	}
	return out, nil
}

func (t *Table[R]) SelectByID(ctx context.Context, id string) (R, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	var zero R
	rows, err := t.pool.Query(ctx, t.selectSQL+" WHERE id = $1", id)
	if err != nil {
		return zero, translateError(err, opRead, t.name, id)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	if err != nil {
		return zero, translateError(err, opRead, t.name, id)
	}
	return row, nil
}

// Insert writes row and returns it as stored. A zero created_at is replaced
// with the current time.
func (t *Table[R]) Insert(ctx context.Context, row R) (R, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	var zero R
	args := row.Values()
	for i, c := range t.columns {
		if ts, ok := args[i].(time.Time); ok && c == "created_at" && ts.IsZero() {
			args[i] = time.Now().UTC()
		}
	}
	rows, err := t.pool.Query(ctx, t.insertSQL, args...)
	if err != nil {
		return zero, translateError(err, opInsert, t.name, row.RowID())
	}
	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	if err != nil {
		return zero, translateError(err, opInsert, t.name, row.RowID())
	}
	return saved, nil
}

// Update overwrites every mutable column of the row with id.
func (t *Table[R]) Update(ctx context.Context, id string, row R) (R, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	var zero R
	values := row.Values()
	args := make([]any, 0, len(t.updateCols)+1)
	args = append(args, id)
	for _, i := range t.updateCols {
		args = append(args, values[i])
	}
	rows, err := t.pool.Query(ctx, t.updateSQL, args...)
	if err != nil {
		return zero, translateError(err, opUpdate, t.name, id)
	}
	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[R])
	if err != nil {
		return zero, translateError(err, opUpdate, t.name, id)
	}
	return saved, nil
}

func (t *Table[R]) Delete(ctx context.Context, id string) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	tag, err := t.pool.Exec(ctx, t.deleteSQL, id)
	if err != nil {
		return translateError(err, opDelete, t.name, id)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, opDelete, t.name, id)
	}
	return nil
}
