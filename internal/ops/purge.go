package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	Workspace     *string // optional filter by workspace
	OlderThanDays *int    // optional, only purge if deleted_at < (now - N days)
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge hard-deletes soft-deleted rows, optionally limited to one workspace
// and to rows deleted more than OlderThanDays ago.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	var workspaceNorm *string
	if input.Workspace != nil {
		norm := entity.Normalize(*input.Workspace)
		if norm == "" {
			return nil, errors.NewInvalidRequest("workspace must not be empty")
		}
		workspaceNorm = &norm
	}

	cutoff, err := purgeCutoff(input.OlderThanDays, time.Now())
	if err != nil {
		return nil, err
	}

	count, err := db.PurgeDeleted(ctx, database, workspaceNorm, cutoff)
	if err != nil {
		return nil, err
	}
	return &PurgeOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.Workspace, input.OlderThanDays),
	}, nil
}

// purgeCutoff turns a day count into a deleted_at upper bound. Nil means no bound.
func purgeCutoff(days *int, now time.Time) (*int64, error) {
	if days == nil {
		return nil, nil
	}
	if *days < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be >= 0")
	}
	unix := now.AddDate(0, 0, -*days).Unix()
	return &unix, nil
}

func formatPurgeMessage(count int, workspace *string, olderThanDays *int) string {
	if count == 0 {
		return "No deleted entities to purge"
	}

	var b strings.Builder
	noun := "entities"
	if count == 1 {
		noun = "entity"
	}
	fmt.Fprintf(&b, "Permanently deleted %d %s", count, noun)
	if workspace != nil {
		fmt.Fprintf(&b, " from workspace %q", *workspace)
	}
	if olderThanDays != nil {
		fmt.Fprintf(&b, " (deleted more than %d days ago)", *olderThanDays)
	}
	return b.String()
}
