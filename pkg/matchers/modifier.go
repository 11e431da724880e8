package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/lang"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// SameModifierMatcher maps the modifier keyword of two declarations. It keeps
// no state between calls.
type SameModifierMatcher struct {
	keyword string
	rec     recorder
}

// NewSameModifierMatcher creates a matcher for one modifier keyword such as
// "public" or "static".
func NewSameModifierMatcher(keyword string, opts ...Option) *SameModifierMatcher {
	s := newSettings(opts)

	return &SameModifierMatcher{keyword: keyword, rec: recorder{logger: s.logger}}
}

// Keyword returns the modifier the matcher looks for.
func (matcher *SameModifierMatcher) Keyword() string {
	return matcher.keyword
}

// Match maps the keyword's modifier node under the src declaration to the one
// under the dst declaration when both carry it.
func (matcher *SameModifierMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	srcModifier := FindModifier(src, store.SrcLang(), matcher.keyword)
	dstModifier := FindModifier(dst, store.DstLang(), matcher.keyword)

	if srcModifier == nil || dstModifier == nil {
		return
	}

	matcher.rec.add(store, srcModifier, dstModifier)
}

// FindModifier returns the modifier leaf labeled keyword that belongs to
// decl: a direct keyword child, or a leaf inside the declaration's modifier
// containers. Nested declarations are not searched.
func FindModifier(decl *tree.Node, desc *lang.Descriptor, keyword string) *tree.Node {
	if decl == nil || keyword == "" {
		return nil
	}

	for _, child := range decl.Children {
		if child.IsLeaf() {
			if child.Label == keyword && child.Type != desc.SimpleName {
				return child
			}

			continue
		}

		if !child.HasAnyType(desc.Modifiers, desc.Modifier) {
			continue
		}

		for n := range child.PreOrder() {
			if n.IsLeaf() && n.Label == keyword {
				return n
			}
		}
	}

	return nil
}
