package diff

import (
	"cmp"
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// MoveAction records a node that moved between files.
//
// For a moved-out entry Node is the source-side node, Parent the
// destination-side node it was attached to and File the destination file.
// For a moved-in entry Node is the source-side counterpart, Parent the
// destination-side node and File the source file.
type MoveAction struct {
	Node   *tree.Node
	Parent *tree.Node
	File   string
}

// MultiMoveAction records a node mapped to more than one counterpart.
// Parent is the destination-side node of this particular copy.
type MultiMoveAction struct {
	Node    *tree.Node
	Parent  *tree.Node
	Updated bool
}

// Classification is the root edit classification of one file-pair diff.
type Classification struct {
	// MovedOut is keyed by source-side nodes whose match lives in another
	// destination file.
	MovedOut map[*tree.Node]MoveAction
	// MovedIn is keyed by destination-side nodes whose match came from
	// another source file.
	MovedIn map[*tree.Node]MoveAction
	// MultiMove is keyed by source-side nodes with several counterparts.
	MultiMove map[*tree.Node]MultiMoveAction
}

// NewClassification returns an empty classification.
func NewClassification() *Classification {
	return &Classification{
		MovedOut:  make(map[*tree.Node]MoveAction),
		MovedIn:   make(map[*tree.Node]MoveAction),
		MultiMove: make(map[*tree.Node]MultiMoveAction),
	}
}

// MovedOutNodes returns the moved-out keys ordered by source position.
func (c *Classification) MovedOutNodes() []*tree.Node {
	if c == nil {
		return nil
	}

	return sortedNodes(c.MovedOut)
}

// MovedInNodes returns the moved-in keys ordered by source position.
func (c *Classification) MovedInNodes() []*tree.Node {
	if c == nil {
		return nil
	}

	return sortedNodes(c.MovedIn)
}

// MultiMoveNodes returns the multi-move keys ordered by source position.
func (c *Classification) MultiMoveNodes() []*tree.Node {
	if c == nil {
		return nil
	}

	return sortedNodes(c.MultiMove)
}

func sortedNodes[V any](m map[*tree.Node]V) []*tree.Node {
	return slices.SortedFunc(maps.Keys(m), func(left, right *tree.Node) int {
		if c := cmp.Compare(left.Pos.Start, right.Pos.Start); c != 0 {
			return c
		}

		if c := cmp.Compare(right.Pos.End, left.Pos.End); c != 0 {
			return c
		}

		return cmp.Compare(left.Depth(), right.Depth())
	})
}
