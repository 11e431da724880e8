package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// shape describes a tree; build lays it out with consecutive offsets.
type shape struct {
	nodeType tree.Type
	label    string
	kids     []shape
}

func s(nodeType tree.Type, label string, kids ...shape) shape {
	return shape{nodeType: nodeType, label: label, kids: kids}
}

func build(sh shape) *tree.Node {
	cursor := 0

	return layout(sh, &cursor)
}

func layout(sh shape, cursor *int) *tree.Node {
	start := *cursor

	if len(sh.kids) == 0 {
		*cursor += len(sh.label) + 1

		return tree.New(sh.nodeType, sh.label, start, *cursor)
	}

	children := make([]*tree.Node, 0, len(sh.kids))
	for _, kid := range sh.kids {
		children = append(children, layout(kid, cursor))
	}

	n := tree.New(sh.nodeType, sh.label, start, *cursor)
	n.Add(children...)

	return n
}

func locate(path string, n *tree.Node) refactoring.Location {
	return refactoring.Location{FilePath: path, Start: n.Pos.Start, End: n.Pos.End}
}

func first(root *tree.Node, nodeType tree.Type) *tree.Node {
	found := root.Find(func(n *tree.Node) bool { return n.Type == nodeType })
	if len(found) == 0 {
		return nil
	}

	return found[0]
}

func packageShape(parts ...string) shape {
	kids := make([]shape, 0, len(parts))
	for _, part := range parts {
		kids = append(kids, s("identifier", part))
	}

	return s("package_declaration", "", s("scoped_identifier", "", kids...))
}

func modifiersShape(keywords ...string) shape {
	kids := make([]shape, 0, len(keywords))
	for _, keyword := range keywords {
		kids = append(kids, s(tree.Type(keyword), keyword))
	}

	return s("modifiers", "", kids...)
}

func methodShape(name string, modifiers []string, statements ...shape) shape {
	return s("method_declaration", "",
		modifiersShape(modifiers...),
		s("void_type", "void"),
		s("identifier", name),
		s("formal_parameters", "()"),
		s("block", "", statements...),
	)
}

func classShape(name string, modifiers []string, members ...shape) shape {
	return s("class_declaration", "",
		modifiersShape(modifiers...),
		s("identifier", name),
		s("class_body", "", members...),
	)
}

func callShape(target, method string) shape {
	return s("expression_statement", "",
		s("method_invocation", "", s("identifier", target), s("identifier", method), s("argument_list", "()")),
	)
}
