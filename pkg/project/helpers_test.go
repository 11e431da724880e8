package project

import (
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

const (
	classA = "com.example.A"
	classB = "com.example.B"
)

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

func classFile(name string, members ...shape) *tree.Node {
	return build(s("program", "",
		s("package_declaration", "", s("scoped_identifier", "", s("identifier", "com"), s("identifier", "example"))),
		s("class_declaration", "",
			s("modifiers", "", s("public", "public")),
			s("identifier", name),
			s("class_body", "", members...),
		),
	))
}

func method(name string, statements ...shape) shape {
	return s("method_declaration", "",
		s("modifiers", ""),
		s("void_type", "void"),
		s("identifier", name),
		s("formal_parameters", "()"),
		s("block", "", statements...),
	)
}

func call(target, name string) shape {
	return s("expression_statement", "",
		s("method_invocation", "", s("identifier", target), s("identifier", name), s("argument_list", "()")),
	)
}

// fixture is a method moved from A.java to B.java.
type fixture struct {
	beforeA *tree.Node
	afterA  *tree.Node
	afterB  *tree.Node
	model   *refactoring.ModelDiff
}

func newFixture() *fixture {
	fx := &fixture{
		beforeA: classFile("A", method("move", call("log", "info"), call("x", "y"))),
		afterA:  classFile("A"),
		afterB:  classFile("B", method("move", call("log", "info"), call("x", "y"))),
	}

	fx.model = &refactoring.ModelDiff{
		Before: diff.NewIndex(map[string]*tree.Node{"A.java": fx.beforeA}),
		After:  diff.NewIndex(map[string]*tree.Node{"A.java": fx.afterA, "B.java": fx.afterB}),
	}

	return fx
}

func (fx *fixture) classDiff() ClassDiff {
	return ClassDiff{
		Pair:         refactoring.ClassPair{Original: classA, Next: classA},
		SrcPath:      "A.java",
		DstPath:      "A.java",
		OriginalType: locate("A.java", first(fx.beforeA, "class_declaration")),
		NextType:     locate("A.java", first(fx.afterA, "class_declaration")),
	}
}

func (fx *fixture) moveHint(expression bool) *refactoring.Hint {
	srcMethod := first(fx.beforeA, "method_declaration")
	dstMethod := first(fx.afterB, "method_declaration")
	srcStatements := tree.ChildrenOfType(tree.ChildOfType(srcMethod, "block"), "expression_statement")
	dstStatements := tree.ChildrenOfType(tree.ChildOfType(dstMethod, "block"), "expression_statement")

	before := refactoring.Declaration{Name: "move", ClassName: classA, Location: locate("A.java", srcMethod)}
	after := refactoring.Declaration{Name: "move", ClassName: classB, Location: locate("B.java", dstMethod)}

	mappings := make([]refactoring.StatementMapping, 0, len(srcStatements))
	for idx := range srcStatements {
		mappings = append(mappings, refactoring.StatementMapping{
			Before:     locate("A.java", srcStatements[idx]),
			After:      locate("B.java", dstStatements[idx]),
			Expression: expression,
		})
	}

	return &refactoring.Hint{
		Kind:          refactoring.MoveOperation,
		ClassesBefore: []string{classA},
		ClassesAfter:  []string{classB},
		Before:        before,
		After:         after,
		BodyMapper:    &refactoring.BodyMapper{Before: before, After: after, Mappings: mappings},
	}
}
