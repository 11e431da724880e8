package moved

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
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

func first(root *tree.Node, nodeType tree.Type) *tree.Node {
	found := root.Find(func(n *tree.Node) bool { return n.Type == nodeType })
	if len(found) == 0 {
		return nil
	}

	return found[0]
}

func statement(name string) shape {
	return s("expression_statement", "", s("method_invocation", "", s("identifier", name), s("argument_list", "()")))
}

// nestedMethod holds a statement three levels inside the method body.
func nestedMethod(name string) shape {
	return s("method_declaration", "",
		s("identifier", name),
		s("block", "",
			s("if_statement", "",
				s("parenthesized_expression", "(ok)"),
				s("block", "", statement("log")),
			),
		),
	)
}

func class(name string, members ...shape) shape {
	return s("program", "", s("class_declaration", "", s("identifier", name), s("class_body", "", members...)))
}

type fixture struct {
	beforeA, afterA *tree.Node
	beforeB, afterB *tree.Node
	afterC          *tree.Node
	project         *diff.ProjectDiff
	diffA, diffB    *diff.ASTDiff
}

func newFixture() *fixture {
	fix := &fixture{
		beforeA: build(class("A",
			nestedMethod("run"),
			s("field_declaration", "", s("type_identifier", "int"), s("variable_declarator", "", s("identifier", "count")))),
		),
		afterA:  build(class("A")),
		beforeB: build(class("B")),
		afterB: build(class("B",
			nestedMethod("run"),
			s("field_declaration", "", s("type_identifier", "int"), s("variable_declarator", "", s("identifier", "count")))),
		),
		afterC: build(class("C", statement("helper"))),
	}

	fix.project = diff.NewProjectDiff(
		diff.NewIndex(map[string]*tree.Node{"A.java": fix.beforeA, "B.java": fix.beforeB}),
		diff.NewIndex(map[string]*tree.Node{"A.java": fix.afterA, "B.java": fix.afterB, "C.java": fix.afterC}),
	)

	fix.diffA = diff.New("A.java", "A.java", fix.beforeA, fix.afterA)
	fix.diffA.Classification = diff.NewClassification()
	fix.diffB = diff.New("B.java", "B.java", fix.beforeB, fix.afterB)
	fix.diffB.Classification = diff.NewClassification()
	fix.project.Add(fix.diffA)
	fix.project.Add(fix.diffB)

	return fix
}

func (fix *fixture) srcStatement() *tree.Node { return first(fix.beforeA, "expression_statement") }
func (fix *fixture) dstStatement() *tree.Node { return first(fix.afterB, "expression_statement") }

func (fix *fixture) moveStatementOut() {
	fix.diffA.Classification.MovedOut[fix.srcStatement()] = diff.MoveAction{
		Node: fix.srcStatement(), Parent: fix.dstStatement(), File: "B.java",
	}
}

func TestAllSubTreesConservation(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.moveStatementOut()

	srcField := first(fix.beforeA, "field_declaration")
	dstField := first(fix.afterB, "field_declaration")
	fix.diffA.Classification.MovedOut[srcField] = diff.MoveAction{Node: srcField, Parent: dstField, File: "B.java"}

	srcIdent := first(first(fix.beforeA, "method_declaration"), "identifier")
	fix.diffA.Classification.MovedOut[srcIdent] = diff.MoveAction{
		Node: srcIdent, Parent: first(fix.afterC, "expression_statement"), File: "C.java",
	}

	dstMethod := first(fix.afterB, "method_declaration")
	fix.diffB.Classification.MovedIn[dstMethod] = diff.MoveAction{
		Node: first(fix.beforeA, "method_declaration"), Parent: dstMethod, File: "A.java",
	}

	want := 0
	for _, existing := range fix.project.Diffs {
		want += len(existing.Classification.MovedOut) + len(existing.Classification.MovedIn)
	}

	gen := NewAllSubTrees(fix.project)
	groups := gen.MakeFilePairMappings()

	assert.Equal(t, want, CountEdges(groups))
	assert.Len(t, groups[diff.FilePair{Src: "A.java", Dst: "B.java"}], 3)
	assert.Len(t, groups[diff.FilePair{Src: "A.java", Dst: "C.java"}], 1)

	diffs := gen.Make()
	require.Len(t, diffs, 2)
	assert.Equal(t, diff.FilePair{Src: "A.java", Dst: "B.java"}, diffs[0].FilePair())
	assert.Equal(t, diff.FilePair{Src: "A.java", Dst: "C.java"}, diffs[1].FilePair())

	assert.True(t, diffs[0].Store.Contains(fix.srcStatement(), fix.dstStatement()))
	assert.True(t, diffs[0].Store.Contains(srcField, dstField))
	assert.True(t, diffs[0].Store.Contains(first(fix.beforeA, "method_declaration"), dstMethod))
	assert.Same(t, fix.beforeA, diffs[0].Src)
	assert.Same(t, fix.afterB, diffs[0].Dst)
}

func TestAllSubTreesNoMovesNoDiffs(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.diffB.Classification = nil

	gen := NewAllSubTrees(fix.project)

	assert.Empty(t, gen.MakeFilePairMappings())
	assert.Empty(t, gen.Make())
}

func TestAllSubTreesDropsUnindexedFiles(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.diffA.Classification.MovedOut[fix.srcStatement()] = diff.MoveAction{
		Node: fix.srcStatement(), Parent: fix.dstStatement(), File: "Gone.java",
	}

	gen := NewAllSubTrees(fix.project)

	assert.Equal(t, 1, CountEdges(gen.MakeFilePairMappings()))
	assert.Empty(t, gen.Make())
}

func TestDeclarationsScopesToMethod(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.moveStatementOut()

	attributions := NewDeclarations(fix.project).Attributions()
	require.Len(t, attributions, 1)

	srcMethod := first(fix.beforeA, "method_declaration")
	dstMethod := first(fix.afterB, "method_declaration")

	got := attributions[0]
	assert.Equal(t, KindMethod, got.Kind)
	assert.Same(t, srcMethod, got.Declaration)
	assert.NotSame(t, fix.srcStatement(), got.Declaration)
	assert.NotSame(t, first(fix.beforeA, "class_declaration"), got.Declaration)
	assert.Equal(t, diff.FilePair{Src: "A.java", Dst: "B.java"}, got.Pair)
	assert.Equal(t, []Edge{
		{Src: srcMethod, Dst: dstMethod},
		{Src: fix.srcStatement(), Dst: fix.dstStatement()},
	}, got.Edges)

	diffs := NewDeclarations(fix.project).Make()
	require.Len(t, diffs, 1)
	assert.True(t, diffs[0].Store.Contains(srcMethod, dstMethod))
}

func TestDeclarationsFieldAndType(t *testing.T) {
	t.Parallel()

	fix := newFixture()

	srcIdent := first(first(fix.beforeA, "field_declaration"), "identifier")
	dstIdent := first(first(fix.afterB, "field_declaration"), "identifier")
	fix.diffA.Classification.MovedOut[srcIdent] = diff.MoveAction{Node: srcIdent, Parent: dstIdent, File: "B.java"}

	srcClass := first(fix.beforeA, "class_declaration")
	dstClass := first(fix.afterB, "class_declaration")
	fix.diffA.Classification.MovedOut[srcClass] = diff.MoveAction{Node: srcClass, Parent: dstClass, File: "B.java"}

	attributions := NewDeclarations(fix.project).Attributions()
	require.Len(t, attributions, 2)

	assert.Equal(t, KindField, attributions[0].Kind)
	assert.Same(t, first(fix.beforeA, "field_declaration"), attributions[0].Declaration)
	assert.Equal(t, KindType, attributions[1].Kind)
	assert.Same(t, srcClass, attributions[1].Declaration)
	assert.Equal(t, []Edge{{Src: srcClass, Dst: dstClass}}, attributions[1].Edges)
}

func TestDeclarationsTypeTakesEveryCounterpart(t *testing.T) {
	t.Parallel()

	beforeA := build(class("A", nestedMethod("run")))
	afterA := build(s("program", "", s("line_comment", "//")))
	afterB := build(s("program", "",
		s("class_declaration", "", s("identifier", "A")),
		s("class_declaration", "", s("identifier", "A")),
	))

	project := diff.NewProjectDiff(
		diff.NewIndex(map[string]*tree.Node{"A.java": beforeA}),
		diff.NewIndex(map[string]*tree.Node{"A.java": afterA, "B.java": afterB}),
	)

	srcClass := first(beforeA, "class_declaration")
	firstCopy, secondCopy := afterB.Children[0], afterB.Children[1]

	home := diff.New("A.java", "A.java", beforeA, afterA)
	home.Classification = diff.NewClassification()
	home.Classification.MovedOut[srcClass] = diff.MoveAction{Node: srcClass, Parent: firstCopy, File: "B.java"}

	cross := diff.New("A.java", "B.java", beforeA, afterB)
	cross.Classification = diff.NewClassification()
	require.NoError(t, cross.Store.AddMapping(srcClass, firstCopy))
	require.NoError(t, cross.Store.AddMapping(srcClass, secondCopy))

	project.Add(home)
	project.Add(cross)

	gen := NewDeclarations(project)

	attributions := gen.Attributions()
	require.Len(t, attributions, 1)
	assert.Equal(t, KindType, attributions[0].Kind)
	assert.Same(t, srcClass, attributions[0].Declaration)
	assert.Equal(t, []Edge{
		{Src: srcClass, Dst: firstCopy},
		{Src: srcClass, Dst: secondCopy},
	}, attributions[0].Edges)

	diffs := gen.Make()
	require.Len(t, diffs, 1)
	assert.True(t, diffs[0].Store.Contains(srcClass, firstCopy))
	assert.True(t, diffs[0].Store.Contains(srcClass, secondCopy))
}

func TestDeclarationsMultiMoveResolution(t *testing.T) {
	t.Parallel()

	fix := newFixture()

	fix.diffA.Classification.MultiMove[fix.srcStatement()] = diff.MultiMoveAction{
		Node: fix.srcStatement(), Parent: fix.dstStatement(),
	}

	stray := build(class("Stray", statement("log")))
	srcMethodIdent := first(first(fix.beforeA, "method_declaration"), "identifier")
	fix.diffA.Classification.MultiMove[srcMethodIdent] = diff.MultiMoveAction{
		Node: srcMethodIdent, Parent: first(stray, "identifier"),
	}

	groups := NewDeclarations(fix.project).MakeFilePairMappings()

	require.Len(t, groups, 1)
	assert.Len(t, groups[diff.FilePair{Src: "A.java", Dst: "B.java"}], 2)
}

func TestDeclarationsNoEnclosingDeclaration(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	srcName := first(fix.beforeA, "identifier")
	fix.diffA.Classification.MovedOut[srcName] = diff.MoveAction{
		Node: srcName, Parent: first(fix.afterB, "identifier"), File: "B.java",
	}

	gen := NewDeclarations(fix.project)

	assert.Empty(t, gen.Attributions())
	assert.Empty(t, gen.Make())
}

func TestRun(t *testing.T) {
	t.Parallel()

	fix := newFixture()
	fix.moveStatementOut()

	diffs, err := Run(context.Background(), NewAllSubTrees(fix.project), NewDeclarations(fix.project))
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.NotSame(t, diffs[0], diffs[1])
	assert.Equal(t, diffs[0].FilePair(), diffs[1].FilePair())
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, NewAllSubTrees(newFixture().project))
	require.ErrorIs(t, err, context.Canceled)
}
