package moved

import (
	"slices"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/lang"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// NameDeclarations identifies the declaration generator.
const NameDeclarations = "declarations"

// DeclarationKind is the kind of declaration a move is attributed to.
type DeclarationKind string

// Declaration kinds, in the order their groups are merged.
const (
	KindMethod DeclarationKind = "method"
	KindField  DeclarationKind = "field"
	KindType   DeclarationKind = "type"
)

// Attribution is the set of move edges attributed to one source declaration.
type Attribution struct {
	Kind        DeclarationKind
	Declaration *tree.Node
	Pair        diff.FilePair
	Edges       []Edge
}

// Declarations attributes moved nodes to their enclosing method or field
// declaration so that a whole member is reported as moved.
type Declarations struct {
	base
}

// NewDeclarations creates the generator over a finished project diff.
func NewDeclarations(project *diff.ProjectDiff, opts ...Option) *Declarations {
	return &Declarations{base: newBase(project, opts)}
}

// Name returns NameDeclarations.
func (gen *Declarations) Name() string { return NameDeclarations }

type rawMove struct {
	src  *tree.Node
	dst  *tree.Node
	pair diff.FilePair
	desc *lang.Descriptor
}

// Attributions returns the per-declaration edge groups of every kind, in
// discovery order within each kind.
//
// A moved type declaration is its own declaration and takes every mapping
// of the move's file pair whose source is that declaration. Any other node
// is attributed to its nearest enclosing method declaration and,
// separately, to its nearest enclosing field declaration; a node with
// neither contributes nothing. The declaration pair itself is added as an
// edge when the destination node has an enclosing declaration of the same
// kind.
func (gen *Declarations) Attributions() []Attribution {
	byKind := map[DeclarationKind]*attributionSet{
		KindMethod: newAttributionSet(KindMethod),
		KindField:  newAttributionSet(KindField),
		KindType:   newAttributionSet(KindType),
	}

	for _, move := range gen.rawMoves() {
		if move.desc.IsTypeDeclaration(move.src.Type) {
			gen.attributeType(byKind[KindType], move)

			continue
		}

		dstDesc := lang.ForPath(move.pair.Dst)
		gen.attribute(byKind[KindMethod], move, move.desc.MethodDeclarations(), dstDesc.MethodDeclarations())
		gen.attribute(byKind[KindField], move, move.desc.FieldDeclarations(), dstDesc.FieldDeclarations())
	}

	var result []Attribution

	for _, kind := range []DeclarationKind{KindMethod, KindField, KindType} {
		result = append(result, byKind[kind].list()...)
	}

	return result
}

func (gen *Declarations) attributeType(set *attributionSet, move rawMove) {
	for _, existing := range gen.project.Diffs {
		if existing.FilePair() != move.pair {
			continue
		}

		for _, dst := range existing.Store.Dsts(move.src) {
			set.addOnce(move.src, move.pair, Edge{Src: move.src, Dst: dst})
		}
	}

	set.addOnce(move.src, move.pair, Edge{Src: move.src, Dst: move.dst})
}

func (gen *Declarations) attribute(set *attributionSet, move rawMove, srcTypes, dstTypes []tree.Type) {
	srcDecl := tree.ParentOfType(move.src, srcTypes...)
	if srcDecl == nil {
		return
	}

	if !set.has(srcDecl, move.pair) {
		if dstDecl := tree.SelfOrParentOfType(move.dst, dstTypes...); dstDecl != nil {
			set.add(srcDecl, move.pair, Edge{Src: srcDecl, Dst: dstDecl})
		}
	}

	set.add(srcDecl, move.pair, Edge{Src: move.src, Dst: move.dst})
}

// rawMoves collects the moved-out and multi-move entries of every diff.
// Multi-move destinations are resolved through the after index; entries
// that do not resolve, or resolve to the diff's own file pair, are dropped.
func (gen *Declarations) rawMoves() []rawMove {
	var moves []rawMove

	for _, existing := range gen.project.Diffs {
		classification := existing.Classification
		desc := existing.Store.SrcLang()

		for _, src := range classification.MovedOutNodes() {
			action := classification.MovedOut[src]
			moves = append(moves, rawMove{
				src:  src,
				dst:  action.Parent,
				pair: diff.FilePair{Src: existing.SrcPath, Dst: action.File},
				desc: desc,
			})
		}

		for _, src := range classification.MultiMoveNodes() {
			action := classification.MultiMove[src]

			dstPath, ok := gen.project.After.PathOf(action.Parent)
			if !ok {
				gen.logger.Debug("multi-move edge dropped: destination not indexed", "src", existing.SrcPath, "node", src.String())

				continue
			}

			pair := diff.FilePair{Src: existing.SrcPath, Dst: dstPath}
			if pair == existing.FilePair() {
				continue
			}

			moves = append(moves, rawMove{src: src, dst: action.Parent, pair: pair, desc: desc})
		}
	}

	return moves
}

// MakeFilePairMappings merges the attributions of all kinds by file pair.
func (gen *Declarations) MakeFilePairMappings() map[diff.FilePair][]Edge {
	groups := make(map[diff.FilePair][]Edge)

	for _, attribution := range gen.Attributions() {
		groups[attribution.Pair] = append(groups[attribution.Pair], attribution.Edges...)
	}

	return groups
}

// Make synthesizes one diff per non-empty group.
func (gen *Declarations) Make() []*diff.ASTDiff {
	return gen.make(gen.MakeFilePairMappings())
}

type attributionKey struct {
	decl *tree.Node
	pair diff.FilePair
}

type attributionSet struct {
	kind    DeclarationKind
	index   map[attributionKey]int
	ordered []Attribution
}

func newAttributionSet(kind DeclarationKind) *attributionSet {
	return &attributionSet{kind: kind, index: make(map[attributionKey]int)}
}

func (set *attributionSet) has(decl *tree.Node, pair diff.FilePair) bool {
	_, ok := set.index[attributionKey{decl: decl, pair: pair}]

	return ok
}

func (set *attributionSet) add(decl *tree.Node, pair diff.FilePair, edge Edge) {
	key := attributionKey{decl: decl, pair: pair}

	idx, ok := set.index[key]
	if !ok {
		idx = len(set.ordered)
		set.index[key] = idx
		set.ordered = append(set.ordered, Attribution{Kind: set.kind, Declaration: decl, Pair: pair})
	}

	set.ordered[idx].Edges = append(set.ordered[idx].Edges, edge)
}

// addOnce adds edge unless the declaration already holds it.
func (set *attributionSet) addOnce(decl *tree.Node, pair diff.FilePair, edge Edge) {
	if idx, ok := set.index[attributionKey{decl: decl, pair: pair}]; ok && slices.Contains(set.ordered[idx].Edges, edge) {
		return
	}

	set.add(decl, pair, edge)
}

func (set *attributionSet) list() []Attribution {
	return set.ordered
}
