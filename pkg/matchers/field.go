package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/lang"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// FieldDeclarationMatcher maps one attribute declaration of the source file
// to its counterpart in the destination file.
type FieldDeclarationMatcher struct {
	OptimizationAware

	before refactoring.Declaration
	after  refactoring.Declaration
}

// NewFieldDeclarationMatcher creates a matcher for one attribute pair.
func NewFieldDeclarationMatcher(
	ctx *optimization.Context, before, after refactoring.Declaration, opts ...Option,
) *FieldDeclarationMatcher {
	return &FieldDeclarationMatcher{OptimizationAware: newOptimizationAware(ctx, opts), before: before, after: after}
}

// Match locates both attributes and their enclosing field declarations or
// enum constants. Isomorphic declarations are mapped whole. Otherwise the
// attribute, the declaration pair, shared modifiers and an iso-structural
// declared type are mapped.
func (matcher *FieldDeclarationMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	srcAttr := matcher.before.Location.Find(src)
	dstAttr := matcher.after.Location.Find(dst)

	if srcAttr == nil || dstAttr == nil {
		matcher.rec.miss("attribute", "before", matcher.before.Location, "after", matcher.after.Location)

		return
	}

	srcField := tree.SelfOrParentOfType(srcAttr, store.SrcLang().FieldDeclarations()...)
	dstField := tree.SelfOrParentOfType(dstAttr, store.DstLang().FieldDeclarations()...)

	if srcField == nil || dstField == nil {
		matcher.rec.miss("field declaration", "before", matcher.before.Name, "after", matcher.after.Name)

		return
	}

	if matcher.isClaimed(srcField) && store.Contains(srcField, dstField) {
		return
	}

	if srcField.IsIsomorphicTo(dstField) {
		if matcher.rec.addRecursively(store, srcField, dstField) {
			matcher.optimization.Claim(srcField, ClaimFieldDeclaration)
		}

		return
	}

	if srcAttr != srcField {
		matcher.rec.addIsomorphicOrRoot(store, srcAttr, dstAttr)
	}

	if !matcher.rec.add(store, srcField, dstField) {
		return
	}

	matcher.optimization.Claim(srcField, ClaimFieldDeclaration)
	matcher.matchModifiers(store, srcField, dstField)

	srcType := matcher.before.TypeLocation.Find(src)
	dstType := matcher.after.TypeLocation.Find(dst)
	matcher.rec.addStructurally(store, srcType, dstType)
}

func (matcher *FieldDeclarationMatcher) matchModifiers(store *mapping.Store, srcField, dstField *tree.Node) {
	for _, keyword := range modifierKeywords(srcField, store.SrcLang()) {
		srcModifier := FindModifier(srcField, store.SrcLang(), keyword)
		dstModifier := FindModifier(dstField, store.DstLang(), keyword)

		if dstModifier != nil {
			matcher.rec.add(store, srcModifier, dstModifier)
		}
	}
}

// modifierKeywords lists the labels of the leaves inside decl's modifier
// containers.
func modifierKeywords(decl *tree.Node, desc *lang.Descriptor) []string {
	var keywords []string

	for _, child := range decl.Children {
		if !child.HasAnyType(desc.Modifiers, desc.Modifier) {
			continue
		}

		for _, leaf := range tree.Leaves(child) {
			keywords = append(keywords, leaf.Label)
		}
	}

	return keywords
}
