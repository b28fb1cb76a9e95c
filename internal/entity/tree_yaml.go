package entity

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/hpungsan/recase/internal/errors"
)

// treeDoc is the YAML shape of one node.
type treeDoc struct {
	Name     string     `yaml:"name"`
	Kind     string     `yaml:"kind"`
	Editable *bool      `yaml:"editable"`
	Children []*treeDoc `yaml:"children"`
}

// ParseTreeYAML reads a nested tree of name/kind/editable/children mappings.
// The document may be a single mapping or a sequence of them.
// editable defaults to true; kind defaults to DefaultKind.
func ParseTreeYAML(data []byte) ([]*OutlineNode, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid YAML: %v", err))
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	var docs []*treeDoc
	body := root.Content[0]
	switch body.Kind {
	case yaml.SequenceNode:
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid tree: %v", err))
		}
	case yaml.MappingNode:
		var doc treeDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid tree: %v", err))
		}
		docs = []*treeDoc{&doc}
	default:
		return nil, errors.NewInvalidRequest("tree must be a mapping or a sequence of mappings")
	}

	return convertDocs(docs, "")
}

func convertDocs(docs []*treeDoc, path string) ([]*OutlineNode, error) {
	nodes := make([]*OutlineNode, 0, len(docs))
	for i, d := range docs {
		at := fmt.Sprintf("%s[%d]", path, i)
		if d == nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("%s: empty node", at))
		}
		if err := ValidateName(d.Name, 0); err != nil {
			if rErr, ok := errors.As(err); ok {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("%s: %s", at, rErr.Message))
			}
			return nil, err
		}
		node := &OutlineNode{
			Name:     d.Name,
			Kind:     NormalizeKind(d.Kind),
			Editable: d.Editable == nil || *d.Editable,
		}
		children, err := convertDocs(d.Children, at+".children")
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
