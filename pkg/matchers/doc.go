package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Doc is a documentation comment extracted by the semantic engine.
type Doc = refactoring.Doc

// DocMatcher maps a documentation comment of the source tree to its
// counterpart in the destination tree.
type DocMatcher struct {
	src *Doc
	dst *Doc
	rec recorder
}

// NewDocMatcher creates a matcher for one pair of documentation comments.
func NewDocMatcher(src, dst *Doc, opts ...Option) *DocMatcher {
	s := newSettings(opts)

	return &DocMatcher{src: src, dst: dst, rec: recorder{logger: s.logger}}
}

// Match locates both comments by position. Equal text over isomorphic
// subtrees maps the whole comment. Otherwise equal runs of leaves are
// mapped and the two comment roots are paired regardless.
func (matcher *DocMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	if matcher.src == nil || matcher.dst == nil {
		return
	}

	srcDoc := findDoc(src, matcher.src.Location, store.SrcLang().DocComment)
	dstDoc := findDoc(dst, matcher.dst.Location, store.DstLang().DocComment)

	if srcDoc == nil || dstDoc == nil {
		matcher.rec.miss("documentation", "src", matcher.src.Location, "dst", matcher.dst.Location)

		return
	}

	if matcher.src.Text == matcher.dst.Text && srcDoc.IsIsomorphicTo(dstDoc) {
		matcher.rec.addRecursively(store, srcDoc, dstDoc)

		return
	}

	matcher.rec.matchLeafRuns(store, srcDoc, dstDoc)
	matcher.rec.add(store, srcDoc, dstDoc)
}

func findDoc(root *tree.Node, loc refactoring.Location, docType tree.Type) *tree.Node {
	if docType == "" {
		return loc.Find(root)
	}

	return loc.Find(root, docType)
}
