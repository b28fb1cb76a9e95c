package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
	"github.com/hpungsan/recase/internal/rename"
)

// RenameInput contains parameters for the Rename operation.
type RenameInput struct {
	ID        string
	Workspace string
	ParentID  string
	Name      string
	Style     string // falls back to cfg.DefaultStyle
	DryRun    bool
	MaxDepth  int // levels to rename, root is level 1; 0 means unlimited
}

// RenameOutput contains the result of the Rename operation.
type RenameOutput struct {
	ID     string `json:"id"`
	Style  string `json:"style"`
	DryRun bool   `json:"dry_run"`
	rename.Result
}

// Rename applies a style to an entity and its descendants in one transaction.
// Editable entities get the engine's rendering of their current name;
// non-editable ones are skipped but their children are still visited.
// If any new name collides with a sibling, or is rejected by name
// validation, nothing is written.
func Rename(ctx context.Context, database *sql.DB, cfg *config.Config, input RenameInput) (*RenameOutput, error) {
	style, err := ResolveStyle(input.Style, cfg)
	if err != nil {
		return nil, err
	}
	if input.MaxDepth < 0 {
		return nil, errors.NewInvalidRequest("max_depth must be >= 0")
	}
	addr, err := ValidateAddress(input.ID, input.Workspace, input.ParentID, input.Name)
	if err != nil {
		return nil, err
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	root, err := resolve(ctx, tx, addr, false)
	if err != nil {
		return nil, err
	}
	rows, err := db.Subtree(ctx, tx, root.ID, input.MaxDepth)
	if err != nil {
		return nil, err
	}

	var renamed []*dbNode
	tree := buildNodes(ctx, tx, rows, &renamed)

	res, err := rename.Run(ctx, tree, style, rename.Options{DryRun: input.DryRun, MaxDepth: input.MaxDepth})
	if err != nil {
		return nil, err
	}
	for _, c := range res.Changes {
		if err := entity.ValidateName(c.To, cfg.NameMaxChars); err != nil {
			if rErr, ok := errors.As(err); ok {
				rErr.Details = mergeDetails(rErr.Details, map[string]any{"path": c.Path, "from": c.From})
			}
			return nil, err
		}
	}

	out := &RenameOutput{
		ID:     root.ID,
		Style:  string(style),
		DryRun: input.DryRun,
		Result: *res,
	}
	if input.DryRun {
		return out, nil
	}

	// Second phase: every renamed row holds a unique placeholder key, so
	// a constraint failure here is a collision in the final state.
	for _, n := range renamed {
		if err := db.UpdateName(ctx, tx, n.e.ID, n.e.NameRaw, n.e.NameNorm); err != nil {
			if err == db.ErrUniqueConstraint {
				return nil, errors.NewNameAlreadyExists(n.e.WorkspaceRaw, n.e.NameRaw)
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	committed = true

	return out, nil
}

// dbNode adapts an entity row to rename.Node inside a transaction.
type dbNode struct {
	ctx     context.Context
	tx      *sql.Tx
	e       *entity.Entity
	kids    []rename.Node
	renamed *[]*dbNode
}

func (n *dbNode) Name() string   { return n.e.NameRaw }
func (n *dbNode) Editable() bool { return n.e.Editable }

func (n *dbNode) Children() ([]rename.Node, error) { return n.kids, nil }

// SetName writes the new display name with a placeholder lookup key.
// Rename swaps the real key in once the whole walk has finished.
func (n *dbNode) SetName(name string) error {
	if err := db.UpdateName(n.ctx, n.tx, n.e.ID, name, placeholderKey(n.e.ID)); err != nil {
		return err
	}
	n.e.SetName(name)
	*n.renamed = append(*n.renamed, n)
	return nil
}

// placeholderKey cannot collide with a normalized name: Normalize never
// produces a leading NUL.
func placeholderKey(id string) string {
	return "\x00" + id
}

// buildNodes links pre-ordered subtree rows into dbNodes; rows[0] is the root.
func buildNodes(ctx context.Context, tx *sql.Tx, rows []*entity.Entity, renamed *[]*dbNode) *dbNode {
	byID := make(map[string]*dbNode, len(rows))
	var root *dbNode
	for i, e := range rows {
		n := &dbNode{ctx: ctx, tx: tx, e: e, renamed: renamed}
		byID[e.ID] = n
		if i == 0 {
			root = n
			continue
		}
		if parent, ok := byID[*e.ParentID]; ok {
			parent.kids = append(parent.kids, n)
		}
	}
	return root
}

func mergeDetails(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
