package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// BodyMapperMatcher replays the statement-level correspondence of a body
// mapper against two whole-file trees.
type BodyMapperMatcher struct {
	OptimizationAware

	mapper *refactoring.BodyMapper
}

// NewBodyMapperMatcher creates a matcher for one body mapper.
func NewBodyMapperMatcher(ctx *optimization.Context, mapper *refactoring.BodyMapper, opts ...Option) *BodyMapperMatcher {
	return &BodyMapperMatcher{OptimizationAware: newOptimizationAware(ctx, opts), mapper: mapper}
}

// Match maps the two operation declarations and their signatures, then each
// statement pair of the mapper. Expression pairs are deferred to the last
// step of the pass. Identical statements over the pass's own trees go to the
// context's subtree store.
func (matcher *BodyMapperMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	if matcher.mapper == nil {
		return
	}

	matcher.matchDeclarations(src, dst, store)

	for _, stmt := range matcher.mapper.Mappings {
		srcStmt := stmt.Before.Find(src)
		dstStmt := stmt.After.Find(dst)

		if srcStmt == nil || dstStmt == nil {
			matcher.rec.miss("statement", "before", stmt.Before, "after", stmt.After)

			continue
		}

		if stmt.Expression {
			matcher.optimization.DeferLastStep(srcStmt, dstStmt)

			continue
		}

		matcher.matchStatement(store, srcStmt, dstStmt)
	}
}

func (matcher *BodyMapperMatcher) matchDeclarations(src, dst *tree.Node, store *mapping.Store) {
	srcDecl := matcher.mapper.Before.Location.Find(src, store.SrcLang().MethodDeclarations()...)
	dstDecl := matcher.mapper.After.Location.Find(dst, store.DstLang().MethodDeclarations()...)

	if srcDecl == nil || dstDecl == nil || matcher.isClaimed(srcDecl) {
		return
	}

	if !matcher.rec.add(store, srcDecl, dstDecl) {
		return
	}

	matcher.optimization.Claim(srcDecl, ClaimBodyMapper)
	matcher.matchSignature(store, srcDecl, dstDecl)
}

// matchSignature pairs the non-body children of two declarations by type in
// order, recursively when isomorphic.
func (matcher *BodyMapperMatcher) matchSignature(store *mapping.Store, srcDecl, dstDecl *tree.Node) {
	used := make(map[*tree.Node]bool, len(dstDecl.Children))

	for _, srcChild := range srcDecl.Children {
		if srcChild.HasAnyType(store.SrcLang().Block) {
			continue
		}

		for _, dstChild := range dstDecl.Children {
			if used[dstChild] || dstChild.Type != srcChild.Type {
				continue
			}

			used[dstChild] = true

			if matcher.rec.addIsomorphicOrRoot(store, srcChild, dstChild) && !srcChild.IsIsomorphicTo(dstChild) {
				matcher.rec.matchLeafRuns(store, srcChild, dstChild)
			}

			break
		}
	}
}

func (matcher *BodyMapperMatcher) matchStatement(store *mapping.Store, srcStmt, dstStmt *tree.Node) {
	if srcStmt.IsIsomorphicTo(dstStmt) {
		target := store
		if subtree := matcher.optimization.Subtree(); subtree.Owns(srcStmt, dstStmt) {
			target = subtree
		}

		matcher.rec.addRecursively(target, srcStmt, dstStmt)

		return
	}

	if srcStmt.Type == dstStmt.Type {
		matcher.rec.add(store, srcStmt, dstStmt)
	}

	matcher.rec.matchLeafRuns(store, srcStmt, dstStmt)
}
