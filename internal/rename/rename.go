// Package rename applies a casing style to every editable node of a named tree.
package rename

import (
	"context"
	"fmt"

	"github.com/hpungsan/recase/internal/casing"
	"github.com/hpungsan/recase/internal/errors"
)

// PathSeparator joins node names in Change.Path.
const PathSeparator = "/"

// Node is a named element in a hierarchy that the service can rename.
type Node interface {
	Name() string
	SetName(name string) error
	// Editable reports whether the node may be renamed. Children of a
	// non-editable node are still visited.
	Editable() bool
	Children() ([]Node, error)
}

// Options controls a rename run.
type Options struct {
	// DryRun computes changes without calling SetName.
	DryRun bool
	// MaxDepth limits how many levels are visited; the root is level 1.
	// 0 means unlimited.
	MaxDepth int
}

// Change records one applied (or, in dry-run mode, planned) rename.
type Change struct {
	Path string `json:"path"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Result summarizes a rename run.
type Result struct {
	Renamed   int      `json:"renamed"`
	Unchanged int      `json:"unchanged"`
	Skipped   int      `json:"skipped"`
	Changes   []Change `json:"changes"`
}

// Service renames trees with a fixed style.
type Service struct {
	Style casing.Style
}

// Run applies s.Style to root and its descendants.
func (s Service) Run(ctx context.Context, root Node, opts Options) (*Result, error) {
	return Run(ctx, root, s.Style, opts)
}

// Run walks root depth-first, parent before children, and renames each
// editable node to casing.Apply(style, name). Nodes whose name would not
// change are left alone. On cancellation or a node error the partial
// result is returned together with the error.
func Run(ctx context.Context, root Node, style casing.Style, opts Options) (*Result, error) {
	if root == nil {
		return nil, errors.NewInvalidRequest("root node is required")
	}
	if !style.Valid() {
		return nil, errors.NewUnknownStyle(string(style), casing.StyleNames())
	}
	if opts.MaxDepth < 0 {
		return nil, errors.NewInvalidRequest("max_depth must be >= 0")
	}

	w := &walker{style: style, opts: opts, res: &Result{Changes: []Change{}}}
	if err := w.visit(ctx, root, "", 1); err != nil {
		return w.res, err
	}
	return w.res, nil
}

type walker struct {
	style casing.Style
	opts  Options
	res   *Result
}

func (w *walker) visit(ctx context.Context, n Node, parentPath string, depth int) error {
	if ctx.Err() != nil {
		return errors.NewCancelled("rename")
	}

	from := n.Name()
	path := from
	if parentPath != "" {
		path = parentPath + PathSeparator + from
	}

	if !n.Editable() {
		w.res.Skipped++
	} else {
		to := casing.Apply(w.style, from)
		if to == from {
			w.res.Unchanged++
		} else {
			if !w.opts.DryRun {
				if err := n.SetName(to); err != nil {
					return fmt.Errorf("rename %q: %w", path, err)
				}
			}
			w.res.Renamed++
			w.res.Changes = append(w.res.Changes, Change{Path: path, From: from, To: to})
		}
	}

	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		return nil
	}

	children, err := n.Children()
	if err != nil {
		return fmt.Errorf("children of %q: %w", path, err)
	}
	for _, c := range children {
		if err := w.visit(ctx, c, path, depth+1); err != nil {
			return err
		}
	}
	return nil
}
