// Package syncrows holds the SQL shared by every syncable table: the common
// metadata columns, status transitions guarded by revision, soft delete and
// partial updates.
//
// All syncable tables carry the columns listed in MetaColumns in that order,
// followed by their family-specific columns.
package syncrows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/common"
	"github.com/dmitrijs2005/tracker/internal/dbx"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

// MetaColumns lists the sync metadata columns in scan order.
const MetaColumns = "id, created_at, updated_at, deleted_at, sync_status, revision"

var metaColumnNames = strings.Split(strings.ReplaceAll(MetaColumns, " ", ""), ",")

// UserSource resolves the user owning newly created records.
type UserSource interface {
	UserID(ctx context.Context) (string, error)
}

// StaticUser is a UserSource that always returns the same id.
type StaticUser string

func (s StaticUser) UserID(context.Context) (string, error) {
	return string(s), nil
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Meta is the scan target for MetaColumns.
type Meta struct {
	id       string
	created  string
	updated  string
	deleted  sql.NullString
	status   string
	revision int64
}

// Dest returns scan destinations for MetaColumns.
func (m *Meta) Dest() []any {
	return []any{&m.id, &m.created, &m.updated, &m.deleted, &m.status, &m.revision}
}

// Into converts the scanned values into dst.
func (m *Meta) Into(dst *models.SyncMeta) error {
	created, err := timex.ParseTimestamp(m.created)
	if err != nil {
		return err
	}
	updated, err := timex.ParseTimestamp(m.updated)
	if err != nil {
		return err
	}
	deleted, err := timex.ScanTimestamp(m.deleted)
	if err != nil {
		return err
	}

	*dst = models.SyncMeta{
		ID:         m.id,
		CreatedAt:  created,
		UpdatedAt:  updated,
		DeletedAt:  deleted,
		SyncStatus: models.SyncStatus(m.status),
		Revision:   m.revision,
	}
	return nil
}

// MetaArgs returns query arguments matching MetaColumns.
func MetaArgs(m models.SyncMeta) []any {
	return []any{
		m.ID,
		timex.FormatTimestamp(m.CreatedAt),
		timex.FormatTimestamp(m.UpdatedAt),
		timex.NullableTimestamp(m.DeletedAt),
		string(m.SyncStatus),
		m.Revision,
	}
}

// InsertQuery builds an INSERT for the metadata columns plus columns.
func InsertQuery(table string, columns ...string) string {
	all := append(append([]string{}, metaColumnNames...), columns...)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(all, ", "), dbx.Placeholders(len(all)))
}

// UpsertQuery builds an INSERT that overwrites every column of an existing row
// with the same id. The stored revision is bumped rather than replaced so that
// marks captured before the overwrite no longer apply.
func UpsertQuery(table string, columns ...string) string {
	set := make([]string, 0, len(metaColumnNames)+len(columns))
	for _, c := range metaColumnNames[1:] {
		if c == "revision" {
			set = append(set, fmt.Sprintf("revision = %s.revision + 1", table))
			continue
		}
		set = append(set, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	for _, c := range columns {
		set = append(set, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return InsertQuery(table, columns...) + " ON CONFLICT(id) DO UPDATE SET " + strings.Join(set, ", ")
}

// MergeQuery is UpsertQuery restricted to rows that are synced locally. A
// pending or failed row keeps its local edit until a push settles it.
func MergeQuery(table string, columns ...string) string {
	return UpsertQuery(table, columns...) + fmt.Sprintf(" WHERE %s.sync_status = '%s'", table, models.SyncStatusSynced)
}

// SelectQuery builds a SELECT of the metadata columns plus columns.
func SelectQuery(table string, columns ...string) string {
	cols := MetaColumns
	if len(columns) > 0 {
		cols += ", " + strings.Join(columns, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s", cols, table)
}

// Query runs query and scans every row with scan.
func Query[T any](ctx context.Context, db dbx.DBTX, table string, scan func(Scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", table, err)
	}
	return result, nil
}

// Get runs query expecting a single row. It returns common.ErrNotFound when
// there is none.
func Get[T any](ctx context.Context, db dbx.DBTX, table string, scan func(Scanner) (T, error), query string, args ...any) (T, error) {
	item, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, common.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s: %w", table, err)
	}
	return item, nil
}

// ExecEach runs query once per item inside a single transaction. An empty
// items slice does not touch the database.
func ExecEach[T any](ctx context.Context, db *sql.DB, query string, items []T, args func(T) []any) error {
	if len(items) == 0 {
		return nil
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, query, args(item)...); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkStatus moves the rows identified by marks to status. A row is only
// updated while its revision still equals the captured one; rows edited in
// the meantime keep their pending status.
func MarkStatus(ctx context.Context, db *sql.DB, table string, marks []models.SyncMark, status models.SyncStatus) error {
	query := fmt.Sprintf("UPDATE %s SET sync_status = ? WHERE id = ? AND revision = ?", table)
	err := ExecEach(ctx, db, query, marks, func(m models.SyncMark) []any {
		return []any{string(status), m.ID, m.Revision}
	})
	if err != nil {
		return fmt.Errorf("failed to mark %s %s: %w", table, status, err)
	}
	return nil
}

// PendingQuery selects every pending row, deleted ones included, ordered by id.
func PendingQuery(table string, columns ...string) string {
	return SelectQuery(table, columns...) + " WHERE sync_status = 'pending' ORDER BY id"
}

// SoftDelete tombstones a live row and re-arms it for sync.
func SoftDelete(ctx context.Context, db dbx.DBTX, table, id string, now time.Time) error {
	ts := timex.FormatTimestamp(now)
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = ?, updated_at = ?, sync_status = 'pending',
		revision = revision + 1 WHERE id = ? AND deleted_at IS NULL`, table)
	res, err := db.ExecContext(ctx, query, ts, ts, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", table, err)
	}
	return expectOne(res, table)
}

// Assignment is a single "column = value" pair of a partial update.
type Assignment struct {
	Column string
	Value  any
}

// Set appends an assignment when v is non-nil.
func Set[V any](list []Assignment, column string, v *V) []Assignment {
	if v == nil {
		return list
	}
	return append(list, Assignment{Column: column, Value: *v})
}

// SetClearable is Set for nullable text columns: a pointer to "" stores NULL.
func SetClearable(list []Assignment, column string, v *string) []Assignment {
	if v == nil {
		return list
	}
	if *v == "" {
		return append(list, Assignment{Column: column, Value: nil})
	}
	return append(list, Assignment{Column: column, Value: *v})
}

// Update applies assignments to the row with id, stamps updated_at, marks it
// pending and bumps its revision. It returns common.ErrNotFound when no row
// has that id.
func Update(ctx context.Context, db dbx.DBTX, table, id string, assignments []Assignment, now time.Time) error {
	set := make([]string, 0, len(assignments)+3)
	args := make([]any, 0, len(assignments)+2)
	for _, a := range assignments {
		set = append(set, a.Column+" = ?")
		args = append(args, a.Value)
	}
	set = append(set, "updated_at = ?", "sync_status = 'pending'", "revision = revision + 1")
	args = append(args, timex.FormatTimestamp(now), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(set, ", "))
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return expectOne(res, table)
}

func expectOne(res sql.Result, table string) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", table, err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
