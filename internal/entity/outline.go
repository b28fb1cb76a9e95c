package entity

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// KindHeading is the kind given to entities imported from markdown headings.
const KindHeading = "heading"

// OutlineNode is one node of an imported hierarchy.
type OutlineNode struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Editable bool           `json:"editable"`
	Children []*OutlineNode `json:"children,omitempty"`

	level int
}

// Count returns the number of nodes in the forest.
func Count(nodes []*OutlineNode) int {
	n := 0
	for _, node := range nodes {
		n += 1 + Count(node.Children)
	}
	return n
}

var markdown = goldmark.New()

// ParseOutline turns the heading hierarchy of a markdown document into a forest.
// A heading becomes a child of the nearest preceding heading with a lower level.
// Only top-level headings count: "#" lines inside code blocks, lists or
// block quotes are not headings. Headings with no text are dropped.
func ParseOutline(src []byte) []*OutlineNode {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var roots []*OutlineNode
	var stack []*OutlineNode
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		name := headingText(h, src)
		if name == "" {
			continue
		}

		node := &OutlineNode{Name: name, Kind: KindHeading, Editable: true, level: h.Level}
		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

// headingText concatenates the literal text of a heading's inline content,
// dropping emphasis and link markup.
func headingText(h *ast.Heading, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}
