package moved

import (
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
)

// NameAllSubTrees identifies the all-subtrees generator.
const NameAllSubTrees = "all-subtrees"

// AllSubTrees turns every moved-out and moved-in entry of every diff into one
// edge.
type AllSubTrees struct {
	base
}

// NewAllSubTrees creates the generator over a finished project diff.
func NewAllSubTrees(project *diff.ProjectDiff, opts ...Option) *AllSubTrees {
	return &AllSubTrees{base: newBase(project, opts)}
}

// Name returns NameAllSubTrees.
func (gen *AllSubTrees) Name() string { return NameAllSubTrees }

// MakeFilePairMappings groups the edges by file pair. A moved-out entry
// belongs to (diff source, recorded destination file); a moved-in entry to
// (recorded source file, diff destination).
func (gen *AllSubTrees) MakeFilePairMappings() map[diff.FilePair][]Edge {
	groups := make(map[diff.FilePair][]Edge)

	for _, existing := range gen.project.Diffs {
		classification := existing.Classification

		for _, src := range classification.MovedOutNodes() {
			action := classification.MovedOut[src]
			pair := diff.FilePair{Src: existing.SrcPath, Dst: action.File}
			groups[pair] = append(groups[pair], Edge{Src: src, Dst: action.Parent})
		}

		for _, dst := range classification.MovedInNodes() {
			action := classification.MovedIn[dst]
			pair := diff.FilePair{Src: action.File, Dst: existing.DstPath}
			groups[pair] = append(groups[pair], Edge{Src: action.Node, Dst: dst})
		}
	}

	return groups
}

// Make synthesizes one diff per non-empty group.
func (gen *AllSubTrees) Make() []*diff.ASTDiff {
	return gen.make(gen.MakeFilePairMappings())
}
