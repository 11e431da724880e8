package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// MethodMatcher maps one operation of a class pair: its documentation, the
// declaration pair, the body block pair and the statements of its body
// mapper.
type MethodMatcher struct {
	OptimizationAware

	mapper *refactoring.BodyMapper
	opts   []Option
}

// NewMethodMatcher creates a matcher for one operation body mapper.
func NewMethodMatcher(ctx *optimization.Context, mapper *refactoring.BodyMapper, opts ...Option) *MethodMatcher {
	return &MethodMatcher{OptimizationAware: newOptimizationAware(ctx, opts), mapper: mapper, opts: opts}
}

// Match locates both operations in the whole-file trees src and dst. Nothing
// is mapped when either side is not a method or constructor declaration.
func (matcher *MethodMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	if matcher.mapper == nil {
		return
	}

	srcDecl := matcher.mapper.Before.Location.Find(src, store.SrcLang().MethodDeclarations()...)
	dstDecl := matcher.mapper.After.Location.Find(dst, store.DstLang().MethodDeclarations()...)

	if srcDecl == nil || dstDecl == nil {
		matcher.rec.miss("operation", "before", matcher.mapper.Before.Location, "after", matcher.mapper.After.Location)

		return
	}

	NewDocMatcher(matcher.mapper.Before.Doc, matcher.mapper.After.Doc, matcher.opts...).Match(src, dst, store)

	if !matcher.rec.add(store, srcDecl, dstDecl) {
		return
	}

	matcher.rec.add(store,
		tree.ChildOfType(srcDecl, store.SrcLang().Block),
		tree.ChildOfType(dstDecl, store.DstLang().Block))

	NewBodyMapperMatcher(matcher.optimization, matcher.mapper, matcher.opts...).Match(src, dst, store)
}
