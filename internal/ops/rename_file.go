package ops

import (
	"context"

	"github.com/hpungsan/recase/internal/config"
	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/errors"
	"github.com/hpungsan/recase/internal/rename"
)

// RenameFileInput contains parameters for the RenameFile operation.
type RenameFileInput struct {
	Path     string // .md/.markdown outline or .yaml/.yml tree
	Style    string // falls back to cfg.DefaultStyle
	MaxDepth int    // levels per root, root is level 1; 0 means unlimited
}

// RenameFileOutput contains the renamed hierarchy. The file itself is not modified.
type RenameFileOutput struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Style  string `json:"style"`
	rename.Result
	Tree []*entity.OutlineNode `json:"tree"`
}

// RenameFile parses a hierarchy file into memory and renames it without touching the store.
func RenameFile(ctx context.Context, cfg *config.Config, input RenameFileInput) (*RenameFileOutput, error) {
	style, err := ResolveStyle(input.Style, cfg)
	if err != nil {
		return nil, err
	}
	if input.MaxDepth < 0 {
		return nil, errors.NewInvalidRequest("max_depth must be >= 0")
	}

	nodes, format, err := ReadOutlineFile(input.Path, cfg)
	if err != nil {
		return nil, err
	}

	out := &RenameFileOutput{
		Path:   input.Path,
		Format: format,
		Style:  string(style),
		Result: rename.Result{Changes: []rename.Change{}},
		Tree:   []*entity.OutlineNode{},
	}
	for _, n := range nodes {
		tree := toRenameTree(n)
		res, err := rename.Run(ctx, tree, style, rename.Options{MaxDepth: input.MaxDepth})
		if err != nil {
			return nil, err
		}
		out.Renamed += res.Renamed
		out.Unchanged += res.Unchanged
		out.Skipped += res.Skipped
		out.Changes = append(out.Changes, res.Changes...)
		out.Tree = append(out.Tree, fromRenameTree(tree, n))
	}

	return out, nil
}

func toRenameTree(n *entity.OutlineNode) *rename.Tree {
	t := rename.NewTree(n.Name)
	t.SetEditable(n.Editable)
	for _, c := range n.Children {
		t.Add(toRenameTree(c))
	}
	return t
}

// fromRenameTree copies renamed names back onto the shape of src.
func fromRenameTree(t *rename.Tree, src *entity.OutlineNode) *entity.OutlineNode {
	out := &entity.OutlineNode{Name: t.Name(), Kind: src.Kind, Editable: src.Editable}
	for i, c := range t.Subtrees() {
		out.Children = append(out.Children, fromRenameTree(c, src.Children[i]))
	}
	return out
}
