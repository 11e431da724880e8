package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

const (
	classA = "com.example.A"
	classB = "com.example.B"
)

// moveFixture holds a method moved from A.java to B.java plus a field whose
// declared type changes inside A.java.
type moveFixture struct {
	beforeA *tree.Node
	afterA  *tree.Node
	afterB  *tree.Node
	model   *refactoring.ModelDiff
}

func fieldShape(typeName, name string) shape {
	return s("field_declaration", "",
		modifiersShape("private"),
		s("type_identifier", typeName),
		s("variable_declarator", "", s("identifier", name)),
	)
}

func newMoveFixture() *moveFixture {
	fixture := &moveFixture{
		beforeA: build(s("program", "", packageShape("com", "example"), classShape("A", []string{"public"},
			fieldShape("int", "count"),
			methodShape("move", nil, callShape("log", "info"), callShape("x", "y")),
		))),
		afterA: build(s("program", "", packageShape("com", "example"), classShape("A", []string{"public"},
			fieldShape("long", "count"),
		))),
		afterB: build(s("program", "", packageShape("com", "example"), classShape("B", []string{"public"},
			methodShape("move", nil, callShape("log", "info"), callShape("x", "z")),
		))),
	}

	fixture.model = &refactoring.ModelDiff{
		Before: diff.NewIndex(map[string]*tree.Node{"A.java": fixture.beforeA}),
		After:  diff.NewIndex(map[string]*tree.Node{"A.java": fixture.afterA, "B.java": fixture.afterB}),
	}

	return fixture
}

func (fixture *moveFixture) moveHint() *refactoring.Hint {
	srcMethod := first(fixture.beforeA, "method_declaration")
	dstMethod := first(fixture.afterB, "method_declaration")
	srcStatements := tree.ChildrenOfType(tree.ChildOfType(srcMethod, "block"), "expression_statement")
	dstStatements := tree.ChildrenOfType(tree.ChildOfType(dstMethod, "block"), "expression_statement")

	before := refactoring.Declaration{Name: "move", ClassName: classA, Location: locate("A.java", srcMethod)}
	after := refactoring.Declaration{Name: "move", ClassName: classB, Location: locate("B.java", dstMethod)}

	return &refactoring.Hint{
		Kind:          refactoring.MoveOperation,
		ClassesBefore: []string{classA},
		ClassesAfter:  []string{classB},
		Before:        before,
		After:         after,
		BodyMapper: &refactoring.BodyMapper{
			Before: before,
			After:  after,
			Mappings: []refactoring.StatementMapping{
				{Before: locate("A.java", srcStatements[0]), After: locate("B.java", dstStatements[0])},
				{Before: locate("A.java", srcStatements[1]), After: locate("B.java", dstStatements[1])},
			},
		},
	}
}

func (fixture *moveFixture) fieldDeclarations() (refactoring.Declaration, refactoring.Declaration) {
	srcField := first(fixture.beforeA, "field_declaration")
	dstField := first(fixture.afterA, "field_declaration")

	before := refactoring.Declaration{
		Name:         "count",
		ClassName:    classA,
		Location:     locate("A.java", first(srcField, "variable_declarator")),
		TypeLocation: locate("A.java", first(srcField, "type_identifier")),
	}
	after := refactoring.Declaration{
		Name:         "count",
		ClassName:    classA,
		Location:     locate("A.java", first(dstField, "variable_declarator")),
		TypeLocation: locate("A.java", first(dstField, "type_identifier")),
	}

	return before, after
}

func (fixture *moveFixture) store() *mapping.Store {
	return mapping.NewStoreForFiles("A.java", "A.java", fixture.beforeA, fixture.afterA)
}

func (fixture *moveFixture) run(ctx *optimization.Context, store *mapping.Store) {
	matcher := NewClassDiffMatcher(ctx, fixture.model, refactoring.ClassPair{Original: classA, Next: classA})
	matcher.Match(first(fixture.beforeA, "class_declaration"), first(fixture.afterA, "class_declaration"), store)
}

func TestClassDiffMatcherMoveOperationCrossFile(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	fixture.model.Hints = []*refactoring.Hint{fixture.moveHint()}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	assert.Equal(t, 0, store.Len())
	require.Equal(t, []diff.FilePair{{Src: "A.java", Dst: "B.java"}}, ctx.CrossFilePairs())

	cross, ok := ctx.CrossFileStore(diff.FilePair{Src: "A.java", Dst: "B.java"})
	require.True(t, ok)

	srcMethod := first(fixture.beforeA, "method_declaration")
	dstMethod := first(fixture.afterB, "method_declaration")
	assert.True(t, cross.Contains(srcMethod, dstMethod))
	assert.True(t, cross.Contains(tree.ChildOfType(srcMethod, "identifier"), tree.ChildOfType(dstMethod, "identifier")))

	by, claimed := ctx.ClaimedBy(srcMethod)
	require.True(t, claimed)
	assert.Equal(t, ClaimBodyMapper, by)

	srcStatements := tree.ChildrenOfType(tree.ChildOfType(srcMethod, "block"), "expression_statement")
	dstStatements := tree.ChildrenOfType(tree.ChildOfType(dstMethod, "block"), "expression_statement")

	for n := range srcStatements[0].PreOrder() {
		assert.True(t, cross.IsSrcMapped(n), n.String())
	}

	srcCall := srcStatements[1].Children[0]
	dstCall := dstStatements[1].Children[0]
	assert.True(t, cross.Contains(srcStatements[1], dstStatements[1]))
	assert.True(t, cross.Contains(srcCall, dstCall))
	assert.True(t, cross.Contains(srcCall.Children[0], dstCall.Children[0]))
	assert.False(t, cross.IsSrcMapped(srcCall.Children[1]))
	assert.True(t, cross.Contains(srcCall.Children[2], dstCall.Children[2]))
}

func TestClassDiffMatcherSkipsExtractedTarget(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	move := fixture.moveHint()
	fixture.model.Hints = []*refactoring.Hint{
		move,
		{Kind: refactoring.ExtractOperation, ClassesBefore: []string{classB}, ClassesAfter: []string{classB}, After: move.After},
	}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	assert.Empty(t, ctx.CrossFilePairs())
}

func TestClassDiffMatcherIgnoresUninvolvedHints(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	move := fixture.moveHint()
	move.ClassesBefore = []string{"com.example.C"}
	fixture.model.Hints = []*refactoring.Hint{move}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	assert.Empty(t, ctx.CrossFilePairs())
	assert.Equal(t, 0, store.Len())
}

func TestClassDiffMatcherDefersExpressions(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	move := fixture.moveHint()
	move.BodyMapper.Mappings[1].Expression = true
	fixture.model.Hints = []*refactoring.Hint{move}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	require.Len(t, ctx.LastStep(), 1)

	cross, ok := ctx.CrossFileStore(diff.FilePair{Src: "A.java", Dst: "B.java"})
	require.True(t, ok)
	assert.False(t, cross.IsSrcMapped(ctx.LastStep()[0].Src))
}

func TestClassDiffMatcherUnresolvedFile(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	move := fixture.moveHint()
	move.BodyMapper.After.Location.FilePath = "Missing.java"
	move.Kind = refactoring.ExtractAndMoveOperation
	fixture.model.Hints = []*refactoring.Hint{move}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	assert.Empty(t, ctx.CrossFilePairs())
}

func TestClassDiffMatcherMoveAttributeSameFile(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	before, after := fixture.fieldDeclarations()
	fixture.model.Hints = []*refactoring.Hint{{
		Kind:          refactoring.MoveAttribute,
		ClassesBefore: []string{classA},
		ClassesAfter:  []string{classA},
		Before:        before,
		After:         after,
	}}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	assert.Empty(t, ctx.CrossFilePairs())

	srcField := first(fixture.beforeA, "field_declaration")
	dstField := first(fixture.afterA, "field_declaration")

	assert.True(t, store.Contains(srcField, dstField))
	assert.True(t, store.Contains(first(srcField, "variable_declarator"), first(dstField, "variable_declarator")))
	assert.True(t, store.Contains(first(srcField, "identifier"), first(dstField, "identifier")))
	assert.True(t, store.Contains(first(srcField, "private"), first(dstField, "private")))
	assert.True(t, store.Contains(first(srcField, "type_identifier"), first(dstField, "type_identifier")))
	assert.Equal(t, 5, store.Len())

	by, claimed := ctx.ClaimedBy(srcField)
	require.True(t, claimed)
	assert.Equal(t, ClaimFieldDeclaration, by)
}

func TestClassDiffMatcherMovedAttributes(t *testing.T) {
	t.Parallel()

	fixture := newMoveFixture()
	before, after := fixture.fieldDeclarations()
	fixture.model.MovedAttributes = []*refactoring.MovedAttribute{
		{SourceClass: classA, TargetClass: classA, Before: before, After: after},
		{SourceClass: classA, TargetClass: classB, Before: before, After: after},
	}

	store := fixture.store()
	ctx := optimization.New(store)
	fixture.run(ctx, store)

	assert.Equal(t, 5, store.Len())

	// Running the pass twice adds nothing.
	fixture.run(ctx, store)
	assert.Equal(t, 5, store.Len())
}

func TestFieldDeclarationMatcherIsomorphic(t *testing.T) {
	t.Parallel()

	src := build(s("program", "", classShape("A", nil, fieldShape("int", "count"))))
	dst := build(s("program", "", classShape("A", nil, fieldShape("int", "count"))))
	store := mapping.NewStoreForFiles("A.java", "A.java", src, dst)
	ctx := optimization.New(store)

	before := refactoring.Declaration{Location: locate("A.java", first(src, "variable_declarator"))}
	after := refactoring.Declaration{Location: locate("A.java", first(dst, "variable_declarator"))}

	NewFieldDeclarationMatcher(ctx, before, after).Match(src, dst, store)

	assert.Equal(t, first(src, "field_declaration").Size(), store.Len())
}
