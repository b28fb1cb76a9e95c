package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Workspace      string // roots of this workspace when ParentID is empty; defaults to "default"
	ParentID       string // optional; lists this entity's children
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []entity.Summary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// List retrieves entity summaries with pagination.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	filters := db.ListFilters{
		Limit:          clampLimit(input.Limit),
		Offset:         max(input.Offset, 0),
		IncludeDeleted: input.IncludeDeleted,
	}

	if pid := strings.TrimSpace(input.ParentID); pid != "" {
		// Surface NOT_FOUND for unknown parents instead of an empty page
		if _, err := db.GetByID(ctx, database, pid, input.IncludeDeleted); err != nil {
			return nil, err
		}
		filters.ParentID = &pid
	} else {
		filters.WorkspaceNorm = entity.Normalize(input.Workspace)
		if filters.WorkspaceNorm == "" {
			filters.WorkspaceNorm = DefaultWorkspace
		}
	}

	items, total, err := db.ListChildren(ctx, database, filters)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if items == nil {
		items = []entity.Summary{}
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   filters.Limit,
			Offset:  filters.Offset,
			HasMore: filters.Offset+len(items) < total,
			Total:   total,
		},
		Sort: "created_asc",
	}, nil
}
