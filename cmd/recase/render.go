package main

import (
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hpungsan/recase/internal/entity"
	"github.com/hpungsan/recase/internal/ops"
	"github.com/hpungsan/recase/internal/rename"
)

// renderTree draws an entity tree with connected guides, one entity per line.
func renderTree(root *ops.TreeNode) string {
	if root == nil {
		return ""
	}
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	appendNode(lw, root)
	return lw.Render()
}

func appendNode(lw list.Writer, n *ops.TreeNode) {
	lw.AppendItem(nodeLabel(n))
	if len(n.Children) == 0 {
		return
	}
	lw.Indent()
	for _, child := range n.Children {
		appendNode(lw, child)
	}
	lw.UnIndent()
}

func nodeLabel(n *ops.TreeNode) string {
	label := n.Name
	if n.Kind != "" && n.Kind != entity.DefaultKind {
		label += " (" + n.Kind + ")"
	}
	if !n.Editable {
		label += " [locked]"
	}
	return label
}

// renderChanges draws a rename plan as a table of path, old name and new name.
func renderChanges(changes []rename.Change) string {
	if len(changes) == 0 {
		return "no changes"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Path", "From", "To"})
	for i, ch := range changes {
		tw.AppendRow(table.Row{i + 1, ch.Path, ch.From, ch.To})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
