package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// ErrUniqueConstraint is returned when a write violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.RecaseError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const entityColumns = `id, parent_id, workspace_raw, workspace_norm, name_raw, name_norm,
	kind, editable, created_at, updated_at, deleted_at`

// Insert stores a new entity.
func Insert(ctx context.Context, q Querier, e *entity.Entity) error {
	query := `
		INSERT INTO entities (
			id, parent_id, workspace_raw, workspace_norm, name_raw, name_norm,
			kind, editable, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		e.ID, toNullString(e.ParentID), e.WorkspaceRaw, e.WorkspaceNorm, e.NameRaw, e.NameNorm,
		e.Kind, e.Editable, e.CreatedAt, e.UpdatedAt, toNullInt64(e.DeletedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves an entity by its ULID.
// If includeDeleted is false, soft-deleted entities are excluded.
func GetByID(ctx context.Context, q Querier, id string, includeDeleted bool) (*entity.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	e, err := scanEntity(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return e, nil
}

// GetByName retrieves an active entity by workspace, parent and normalized name.
// A nil parentID addresses workspace roots.
func GetByName(ctx context.Context, q Querier, workspaceNorm string, parentID *string, nameNorm string) (*entity.Entity, error) {
	query := `
		SELECT ` + entityColumns + `
		FROM entities
		WHERE workspace_norm = ? AND COALESCE(parent_id, '') = ? AND name_norm = ?
			AND deleted_at IS NULL
	`

	e, err := scanEntity(q.QueryRowContext(ctx, query, workspaceNorm, deref(parentID), nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return e, nil
}

// ListFilters selects the entities returned by ListChildren.
type ListFilters struct {
	// ParentID lists that entity's children; nil lists the roots of WorkspaceNorm.
	ParentID       *string
	WorkspaceNorm  string
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// ListChildren returns one page of summaries ordered by creation (ULID order)
// and the total number of matching entities.
func ListChildren(ctx context.Context, q Querier, f ListFilters) ([]entity.Summary, int, error) {
	var (
		where strings.Builder
		args  []any
	)
	if f.ParentID != nil {
		where.WriteString("e.parent_id = ?")
		args = append(args, *f.ParentID)
	} else {
		where.WriteString("e.parent_id IS NULL AND e.workspace_norm = ?")
		args = append(args, f.WorkspaceNorm)
	}
	if !f.IncludeDeleted {
		where.WriteString(" AND e.deleted_at IS NULL")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM entities e WHERE ` + where.String()
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT e.id, e.parent_id, e.workspace_raw, e.name_raw, e.kind, e.editable,
			(SELECT COUNT(*) FROM entities c WHERE c.parent_id = e.id AND c.deleted_at IS NULL),
			e.created_at, e.updated_at, e.deleted_at
		FROM entities e
		WHERE ` + where.String() + `
		ORDER BY e.id
		LIMIT ? OFFSET ?
	`
	rows, err := q.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []entity.Summary
	for rows.Next() {
		var (
			s         entity.Summary
			parentID  sql.NullString
			deletedAt sql.NullInt64
		)
		if err := rows.Scan(
			&s.ID, &parentID, &s.Workspace, &s.Name, &s.Kind, &s.Editable,
			&s.ChildCount, &s.CreatedAt, &s.UpdatedAt, &deletedAt,
		); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.ParentID = fromNullString(parentID)
		s.DeletedAt = fromNullInt64(deletedAt)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return items, total, nil
}

// Subtree returns the active entity rootID and its active descendants,
// depth-first with parents before children and siblings in creation order.
// maxDepth limits the levels returned (root is level 1); 0 means unlimited.
func Subtree(ctx context.Context, q Querier, rootID string, maxDepth int) ([]*entity.Entity, error) {
	query := `
		WITH RECURSIVE tree(id, sort_key, depth) AS (
			SELECT id, id, 1 FROM entities WHERE id = ? AND deleted_at IS NULL
			UNION ALL
			SELECT c.id, tree.sort_key || '/' || c.id, tree.depth + 1
			FROM entities c JOIN tree ON c.parent_id = tree.id
			WHERE c.deleted_at IS NULL AND (? = 0 OR tree.depth < ?)
		)
		SELECT ` + prefixColumns("e") + `
		FROM tree JOIN entities e ON e.id = tree.id
		ORDER BY tree.sort_key
	`

	rows, err := q.QueryContext(ctx, query, rootID, maxDepth, maxDepth)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []*entity.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if len(out) == 0 {
		return nil, errors.NewNotFound(rootID)
	}

	return out, nil
}

// UpdateName sets an active entity's name and bumps updated_at.
func UpdateName(ctx context.Context, q Querier, id, nameRaw, nameNorm string) error {
	query := `
		UPDATE entities
		SET name_raw = ?, name_norm = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := q.ExecContext(ctx, query, nameRaw, nameNorm, time.Now().Unix(), id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// SoftDeleteSubtree marks an active entity and all its active descendants as deleted.
// Returns the number of entities deleted.
func SoftDeleteSubtree(ctx context.Context, q Querier, rootID string) (int, error) {
	query := `
		WITH RECURSIVE tree(id) AS (
			SELECT id FROM entities WHERE id = ? AND deleted_at IS NULL
			UNION ALL
			SELECT c.id FROM entities c JOIN tree ON c.parent_id = tree.id
			WHERE c.deleted_at IS NULL
		)
		UPDATE entities SET deleted_at = ?
		WHERE id IN (SELECT id FROM tree)
	`

	result, err := q.ExecContext(ctx, query, rootID, time.Now().Unix())
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return 0, errors.NewNotFound(rootID)
	}

	return int(rowsAffected), nil
}

// PurgeDeleted permanently removes soft-deleted entities.
// workspaceNorm and deletedBefore are optional filters.
func PurgeDeleted(ctx context.Context, q Querier, workspaceNorm *string, deletedBefore *int64) (int, error) {
	query := `DELETE FROM entities WHERE deleted_at IS NOT NULL`
	var args []any
	if workspaceNorm != nil {
		query += " AND workspace_norm = ?"
		args = append(args, *workspaceNorm)
	}
	if deletedBefore != nil {
		query += " AND deleted_at < ?"
		args = append(args, *deletedBefore)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(rowsAffected), nil
}

// StreamForExport calls fn for each entity in ULID order, optionally limited
// to one workspace. Iteration stops at the first error returned by fn.
func StreamForExport(ctx context.Context, q Querier, workspaceNorm *string, includeDeleted bool, fn func(*entity.Entity) error) error {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE 1 = 1`
	var args []any
	if workspaceNorm != nil {
		query += " AND workspace_norm = ?"
		args = append(args, *workspaceNorm)
	}
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return errors.NewInternal(err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntity scans a single row selected with entityColumns.
func scanEntity(row rowScanner) (*entity.Entity, error) {
	var (
		e         entity.Entity
		parentID  sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(
		&e.ID, &parentID, &e.WorkspaceRaw, &e.WorkspaceNorm, &e.NameRaw, &e.NameNorm,
		&e.Kind, &e.Editable, &e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	e.ParentID = fromNullString(parentID)
	e.DeletedAt = fromNullInt64(deletedAt)

	return &e, nil
}

// prefixColumns qualifies entityColumns with a table alias.
func prefixColumns(alias string) string {
	cols := strings.Split(entityColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func toNullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func fromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
