package project

import (
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
)

// Classifier derives the root edit classification of a class-level diff
// from the cross-file diffs produced in the same project pass.
type Classifier interface {
	Classify(home *diff.ASTDiff, crossFile []*diff.ASTDiff) *diff.Classification
}

// CrossFileClassifier classifies the roots of cross-file mapped subtrees.
//
// A subtree root mapped from the home diff's source file into another file
// is moved out, or multi-moved when the home diff also maps it or an earlier
// cross-file diff already moved it out. A subtree
// root mapped into the home diff's destination file from another file is
// moved in unless the home diff already maps it.
type CrossFileClassifier struct{}

// Classify implements Classifier.
func (CrossFileClassifier) Classify(home *diff.ASTDiff, crossFile []*diff.ASTDiff) *diff.Classification {
	classification := diff.NewClassification()

	for _, other := range crossFile {
		if other.FilePair() == home.FilePair() {
			continue
		}

		for _, root := range subtreeRoots(other.Store) {
			if other.SrcPath == home.SrcPath {
				classifyOut(classification, home, other, root)
			}

			if other.DstPath == home.DstPath && !home.Store.IsDstMapped(root.Dst) {
				classification.MovedIn[root.Dst] = diff.MoveAction{Node: root.Src, Parent: root.Dst, File: other.SrcPath}
			}
		}
	}

	return classification
}

// classifyOut records a root leaving the home source file. The first copy
// of an unmapped root is moved out; every other copy is a multi-move, of
// which the first is kept.
func classifyOut(classification *diff.Classification, home, other *diff.ASTDiff, root mapping.Mapping) {
	_, movedOut := classification.MovedOut[root.Src]

	if !movedOut && !home.Store.IsSrcMapped(root.Src) {
		classification.MovedOut[root.Src] = diff.MoveAction{Node: root.Src, Parent: root.Dst, File: other.DstPath}

		return
	}

	if _, ok := classification.MultiMove[root.Src]; ok {
		return
	}

	classification.MultiMove[root.Src] = diff.MultiMoveAction{
		Node:    root.Src,
		Parent:  root.Dst,
		Updated: !root.Src.IsIsomorphicTo(root.Dst),
	}
}

// subtreeRoots returns the mappings whose parent pair is not itself mapped.
func subtreeRoots(store *mapping.Store) []mapping.Mapping {
	var roots []mapping.Mapping

	for _, m := range store.Mappings() {
		srcParent := m.Src.Parent()
		dstParent := m.Dst.Parent()

		if srcParent == nil || dstParent == nil || !store.Contains(srcParent, dstParent) {
			roots = append(roots, m)
		}
	}

	return roots
}
