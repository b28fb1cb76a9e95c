package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	Workspace      string
	ParentID       string
	Name           string
	IncludeDeleted bool // only honored when addressing by id
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	EntityView
}

// Fetch retrieves an entity by ID or by (workspace, parent, name).
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Workspace, input.ParentID, input.Name)
	if err != nil {
		return nil, err
	}

	e, err := resolve(ctx, database, addr, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{EntityView: viewOf(e)}, nil
}

// resolve loads the entity an address points to.
func resolve(ctx context.Context, q db.Querier, addr *Address, includeDeleted bool) (*entity.Entity, error) {
	if addr.ByID {
		return db.GetByID(ctx, q, addr.ID, includeDeleted)
	}
	return db.GetByName(ctx, q, addr.Workspace, addr.ParentID, addr.Name)
}
