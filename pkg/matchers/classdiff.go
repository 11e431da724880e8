package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// ClassDiffMatcher seeds mappings of one class pair from the refactorings
// the semantic engine detected project-wide.
//
// Moves are resolved against whole-file trees because a moved member may
// leave the class pair being processed. Sub-matches over the store's own
// file pair write into that store; sub-matches over any other file pair
// write into the context's cross-file store for that pair.
type ClassDiffMatcher struct {
	OptimizationAware

	model *refactoring.ModelDiff
	pair  refactoring.ClassPair
	opts  []Option
}

// NewClassDiffMatcher creates the matcher for one class pair.
func NewClassDiffMatcher(
	ctx *optimization.Context, model *refactoring.ModelDiff, pair refactoring.ClassPair, opts ...Option,
) *ClassDiffMatcher {
	return &ClassDiffMatcher{
		OptimizationAware: newOptimizationAware(ctx, opts),
		model:             model,
		pair:              pair,
		opts:              opts,
	}
}

// Match delegates every hint involving the class pair, then every moved
// attribute between exactly the pair's classes. src and dst are only used
// for their roots.
func (matcher *ClassDiffMatcher) Match(_, _ *tree.Node, store *mapping.Store) {
	if matcher.model == nil {
		return
	}

	for _, hint := range matcher.model.Hints {
		if !hint.Involves(matcher.pair) {
			continue
		}

		matcher.matchHint(hint, store)
	}

	for _, attr := range matcher.model.MovedAttributes {
		if attr.SourceClass != matcher.pair.Original || attr.TargetClass != matcher.pair.Next {
			continue
		}

		pair := diff.FilePair{Src: attr.Before.Location.FilePath, Dst: attr.After.Location.FilePath}
		matcher.delegate(pair, NewFieldDeclarationMatcher(matcher.optimization, attr.Before, attr.After, matcher.opts...), store)

		if attr.Initializer != nil {
			matcher.delegate(pair, NewBodyMapperMatcher(matcher.optimization, attr.Initializer, matcher.opts...), store)
		}
	}
}

func (matcher *ClassDiffMatcher) matchHint(hint *refactoring.Hint, store *mapping.Store) {
	switch hint.Kind {
	case refactoring.MoveOperation:
		if hint.BodyMapper == nil || matcher.model.IsExtracted(hint.After) {
			return
		}

		matcher.delegate(hint.FilePair(), NewBodyMapperMatcher(matcher.optimization, hint.BodyMapper, matcher.opts...), store)
	case refactoring.MoveAttribute:
		matcher.delegate(hint.FilePair(), NewFieldDeclarationMatcher(matcher.optimization, hint.Before, hint.After, matcher.opts...), store)
	case refactoring.ExtractAndMoveOperation, refactoring.MoveAndInlineOperation:
		if hint.BodyMapper == nil {
			return
		}

		matcher.delegate(hint.BodyMapper.FilePair(), NewBodyMapperMatcher(matcher.optimization, hint.BodyMapper, matcher.opts...), store)
	default:
		// Other kinds carry no cross-file correspondence.
	}
}

// delegate runs m over the whole-file trees of pair.
func (matcher *ClassDiffMatcher) delegate(pair diff.FilePair, m Matcher, store *mapping.Store) {
	srcRoot, dstRoot, ok := matcher.model.Roots(pair)
	if !ok {
		matcher.rec.miss("file pair", "src", pair.Src, "dst", pair.Dst)

		return
	}

	target := store
	if srcRoot != store.SrcRoot() || dstRoot != store.DstRoot() {
		target = matcher.optimization.CrossFile(pair.Src, pair.Dst, srcRoot, dstRoot)
	}

	m.Match(srcRoot, dstRoot, target)
}
