package matchers

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// matchLeafRuns diffs the leaf sequences of the two subtrees line by line,
// one leaf per line keyed by type and label, and maps every leaf pair in an
// equal run. Each mapped pair is then lifted: while both parents have the
// same type, lie strictly below src and dst and are still unmapped, the
// parents are mapped too. Returns the number of leaf pairs mapped.
func (rec recorder) matchLeafRuns(store *mapping.Store, src, dst *tree.Node) int {
	srcLeaves := tree.Leaves(src)
	dstLeaves := tree.Leaves(dst)

	if len(srcLeaves) == 0 || len(dstLeaves) == 0 {
		return 0
	}

	dmp := diffmatchpatch.New()
	srcRunes, dstRunes, _ := dmp.DiffLinesToRunes(leafLines(srcLeaves), leafLines(dstLeaves))
	diffs := dmp.DiffMainRunes(srcRunes, dstRunes, false)

	var srcIdx, dstIdx, matched int

	for _, edit := range diffs {
		size := utf8.RuneCountInString(edit.Text)

		switch edit.Type {
		case diffmatchpatch.DiffDelete:
			srcIdx += size
		case diffmatchpatch.DiffInsert:
			dstIdx += size
		case diffmatchpatch.DiffEqual:
			for offset := range size {
				srcLeaf := srcLeaves[srcIdx+offset]
				dstLeaf := dstLeaves[dstIdx+offset]

				if rec.add(store, srcLeaf, dstLeaf) {
					matched++

					rec.liftParents(store, srcLeaf, dstLeaf, src, dst)
				}
			}

			srcIdx += size
			dstIdx += size
		}
	}

	return matched
}

func (rec recorder) liftParents(store *mapping.Store, srcLeaf, dstLeaf, srcTop, dstTop *tree.Node) {
	srcParent := srcLeaf.Parent()
	dstParent := dstLeaf.Parent()

	for srcTop.IsAncestorOf(srcParent) && dstTop.IsAncestorOf(dstParent) &&
		srcParent.Type == dstParent.Type &&
		!store.IsSrcMapped(srcParent) && !store.IsDstMapped(dstParent) {
		if !rec.add(store, srcParent, dstParent) {
			return
		}

		srcParent = srcParent.Parent()
		dstParent = dstParent.Parent()
	}
}

func leafLines(leaves []*tree.Node) string {
	var buf strings.Builder

	for _, leaf := range leaves {
		buf.WriteString(string(leaf.Type))
		buf.WriteByte(0)
		buf.WriteString(strings.ReplaceAll(leaf.Label, "\n", " "))
		buf.WriteByte('\n')
	}

	return buf.String()
}

// addStructurally maps two iso-structural subtrees node by node in pre-order,
// ignoring labels. Nothing is recorded when the shapes differ.
func (rec recorder) addStructurally(store *mapping.Store, src, dst *tree.Node) bool {
	if src == nil || dst == nil || !src.IsIsoStructuralTo(dst) {
		return false
	}

	srcNodes := make([]*tree.Node, 0, src.Size())
	for n := range src.PreOrder() {
		srcNodes = append(srcNodes, n)
	}

	idx := 0
	added := true

	for n := range dst.PreOrder() {
		added = rec.add(store, srcNodes[idx], n) && added
		idx++
	}

	return added
}
