package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Workspace string // default: "default"; inherited from the parent when ParentID is set
	ParentID  string // optional; empty adds a workspace root
	Name      string // required
	Kind      string // default: "node"
	Editable  *bool  // default: true
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID        string `json:"id"`
	Workspace string `json:"workspace"`
	Name      string `json:"name"`
}

// Add creates an entity.
func Add(ctx context.Context, database *sql.DB, cfg *config.Config, input AddInput) (*AddOutput, error) {
	e, err := newEntity(ctx, database, cfg, input)
	if err != nil {
		return nil, err
	}

	if err := insertEntity(ctx, database, e); err != nil {
		return nil, err
	}

	return &AddOutput{
		ID:        e.ID,
		Workspace: e.WorkspaceRaw,
		Name:      e.NameRaw,
	}, nil
}

// newEntity validates input and builds the entity to insert.
func newEntity(ctx context.Context, q db.Querier, cfg *config.Config, input AddInput) (*entity.Entity, error) {
	if err := entity.ValidateName(input.Name, cfg.NameMaxChars); err != nil {
		return nil, err
	}

	workspace := strings.TrimSpace(input.Workspace)
	var parentID *string
	if pid := strings.TrimSpace(input.ParentID); pid != "" {
		parent, err := db.GetByID(ctx, q, pid, false)
		if err != nil {
			return nil, err
		}
		if workspace != "" && entity.Normalize(workspace) != parent.WorkspaceNorm {
			return nil, errors.NewInvalidRequest("workspace does not match the parent's workspace")
		}
		workspace = parent.WorkspaceRaw
		parentID = &parent.ID
	}
	if workspace == "" {
		workspace = DefaultWorkspace
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	editable := true
	if input.Editable != nil {
		editable = *input.Editable
	}

	now := time.Now().Unix()
	return &entity.Entity{
		ID:            id,
		ParentID:      parentID,
		WorkspaceRaw:  workspace,
		WorkspaceNorm: entity.Normalize(workspace),
		NameRaw:       input.Name,
		NameNorm:      entity.Normalize(input.Name),
		Kind:          entity.NormalizeKind(input.Kind),
		Editable:      editable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// insertEntity inserts e, mapping sibling collisions to NAME_ALREADY_EXISTS.
func insertEntity(ctx context.Context, q db.Querier, e *entity.Entity) error {
	if err := db.Insert(ctx, q, e); err != nil {
		if err == db.ErrUniqueConstraint {
			return errors.NewNameAlreadyExists(e.WorkspaceRaw, e.NameRaw)
		}
		return err
	}
	return nil
}
