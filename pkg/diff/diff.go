// Package diff holds the per-file-pair diff results the matchers populate
// and the move generators consume.
package diff

import (
	"cmp"
	"slices"

	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// FilePair identifies a (source file, destination file) pair by exact path.
type FilePair struct {
	Src string `json:"src" yaml:"src"`
	Dst string `json:"dst" yaml:"dst"`
}

// Compare orders file pairs by source path, then destination path.
func (pair FilePair) Compare(other FilePair) int {
	if c := cmp.Compare(pair.Src, other.Src); c != 0 {
		return c
	}

	return cmp.Compare(pair.Dst, other.Dst)
}

// ASTDiff is the diff of one file pair: both trees and their mapping store,
// plus the root edit classification once it has been derived.
type ASTDiff struct {
	SrcPath        string
	DstPath        string
	Src            *tree.Node
	Dst            *tree.Node
	Store          *mapping.Store
	Classification *Classification
}

// New creates a diff with a fresh store tagged from the file paths.
func New(srcPath, dstPath string, src, dst *tree.Node) *ASTDiff {
	return &ASTDiff{
		SrcPath: srcPath,
		DstPath: dstPath,
		Src:     src,
		Dst:     dst,
		Store:   mapping.NewStoreForFiles(srcPath, dstPath, src, dst),
	}
}

// FilePair returns the diff's file pair.
func (d *ASTDiff) FilePair() FilePair {
	return FilePair{Src: d.SrcPath, Dst: d.DstPath}
}

// ProjectDiff is the collection of per-file diffs of one analysis plus the
// diffs synthesized from moves.
type ProjectDiff struct {
	Before    *Index
	After     *Index
	Diffs     []*ASTDiff
	MoveDiffs []*ASTDiff
}

// NewProjectDiff creates an empty project diff over the two file indexes.
func NewProjectDiff(before, after *Index) *ProjectDiff {
	return &ProjectDiff{Before: before, After: after}
}

// Find returns the diff of exactly the given file pair.
func (project *ProjectDiff) Find(pair FilePair) *ASTDiff {
	for _, existing := range project.Diffs {
		if existing.FilePair() == pair {
			return existing
		}
	}

	return nil
}

// Add appends a diff.
func (project *ProjectDiff) Add(d *ASTDiff) {
	project.Diffs = append(project.Diffs, d)
}

// AddMoveDiffs appends synthesized diffs, sorted by file pair.
func (project *ProjectDiff) AddMoveDiffs(diffs ...*ASTDiff) {
	project.MoveDiffs = append(project.MoveDiffs, diffs...)
	slices.SortStableFunc(project.MoveDiffs, func(left, right *ASTDiff) int {
		return left.FilePair().Compare(right.FilePair())
	})
}
