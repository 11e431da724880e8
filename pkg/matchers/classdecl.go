package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// ClassDeclarationMatcher maps two type declarations and the parts that
// identify them: the enclosing declaration statement, the name, the kind
// keyword, the modifier container and each configured modifier keyword.
type ClassDeclarationMatcher struct {
	modifiers []string
	rec       recorder
	opts      []Option
}

// NewClassDeclarationMatcher creates a matcher that also pairs the given
// modifier keywords.
func NewClassDeclarationMatcher(modifiers []string, opts ...Option) *ClassDeclarationMatcher {
	s := newSettings(opts)

	return &ClassDeclarationMatcher{modifiers: modifiers, rec: recorder{logger: s.logger}, opts: opts}
}

// Match maps src and dst, which must be the two type declarations.
func (matcher *ClassDeclarationMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	if src == nil || dst == nil {
		return
	}

	srcLang := store.SrcLang()
	dstLang := store.DstLang()

	srcParent, dstParent := src.Parent(), dst.Parent()
	if srcParent != nil && dstParent != nil &&
		srcParent.HasAnyType(srcLang.DeclarationStatement) && dstParent.HasAnyType(dstLang.DeclarationStatement) {
		matcher.rec.add(store, srcParent, dstParent)
	}

	if !matcher.rec.add(store, src, dst) {
		return
	}

	matcher.rec.add(store, tree.ChildOfType(src, srcLang.SimpleName), tree.ChildOfType(dst, dstLang.SimpleName))
	matcher.rec.add(store, srcLang.TypeKeyword(src), dstLang.TypeKeyword(dst))
	matcher.rec.add(store, tree.ChildOfType(src, srcLang.Modifiers), tree.ChildOfType(dst, dstLang.Modifiers))

	for _, keyword := range matcher.modifiers {
		NewSameModifierMatcher(keyword, matcher.opts...).Match(src, dst, store)
	}
}
