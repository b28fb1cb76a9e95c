package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/recase/internal/db"
)

// DeleteInput addresses the subtree root, by ID or by (workspace, parent, name).
type DeleteInput struct {
	ID        string
	Workspace string
	ParentID  string
	Name      string
}

// DeleteOutput reports the soft-deleted root and how many rows it took with it.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
	Count   int    `json:"count"`
}

// Delete stamps deleted_at on an active entity and every active descendant.
// Locked entities are deleted like any other; the flag only guards renames.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Workspace, input.ParentID, input.Name)
	if err != nil {
		return nil, err
	}

	e, err := resolve(ctx, database, addr, false)
	if err != nil {
		return nil, err
	}

	count, err := db.SoftDeleteSubtree(ctx, database, e.ID)
	if err != nil {
		return nil, err
	}

	return &DeleteOutput{Deleted: true, ID: e.ID, Count: count}, nil
}
