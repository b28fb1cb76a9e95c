package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/recase/internal/db"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
)

// TreeInput contains parameters for the Tree operation.
type TreeInput struct {
	ID        string
	Workspace string
	ParentID  string
	Name      string
	MaxDepth  int // levels to include, root is level 1; 0 means unlimited
}

// TreeNode is an entity with its nested children.
type TreeNode struct {
	EntityView
	Children []*TreeNode `json:"children,omitempty"`
}

// TreeOutput contains the result of the Tree operation.
type TreeOutput struct {
	Root  *TreeNode `json:"root"`
	Count int       `json:"count"`
}

// Tree loads an active entity and its active descendants as nested JSON.
func Tree(ctx context.Context, database *sql.DB, input TreeInput) (*TreeOutput, error) {
	if input.MaxDepth < 0 {
		return nil, errors.NewInvalidRequest("max_depth must be >= 0")
	}

	addr, err := ValidateAddress(input.ID, input.Workspace, input.ParentID, input.Name)
	if err != nil {
		return nil, err
	}
	root, err := resolve(ctx, database, addr, false)
	if err != nil {
		return nil, err
	}

	rows, err := db.Subtree(ctx, database, root.ID, input.MaxDepth)
	if err != nil {
		return nil, err
	}

	return &TreeOutput{Root: buildTree(rows), Count: len(rows)}, nil
}

// buildTree nests pre-ordered subtree rows; rows[0] is the root.
func buildTree(rows []*entity.Entity) *TreeNode {
	byID := make(map[string]*TreeNode, len(rows))
	var root *TreeNode
	for i, e := range rows {
		n := &TreeNode{EntityView: viewOf(e)}
		byID[e.ID] = n
		if i == 0 {
			root = n
			continue
		}
		if parent, ok := byID[*e.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}
	return root
}
