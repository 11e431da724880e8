package diff

import (
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Index maps file paths to whole-file tree roots for one side of the
// analysis. It is built once and read-only afterwards.
type Index struct {
	roots map[string]*tree.Node
	paths map[*tree.Node]string
}

// NewIndex builds an index from path -> root.
func NewIndex(roots map[string]*tree.Node) *Index {
	index := &Index{
		roots: make(map[string]*tree.Node, len(roots)),
		paths: make(map[*tree.Node]string, len(roots)),
	}

	for path, root := range roots {
		if root == nil {
			continue
		}

		index.roots[path] = root
		index.paths[root] = path
	}

	return index
}

// Root returns the whole-file tree for path.
func (index *Index) Root(path string) (*tree.Node, bool) {
	if index == nil {
		return nil, false
	}

	root, ok := index.roots[path]

	return root, ok
}

// PathOf returns the path of the file containing n.
func (index *Index) PathOf(n *tree.Node) (string, bool) {
	if index == nil || n == nil {
		return "", false
	}

	path, ok := index.paths[n.Root()]

	return path, ok
}

// Paths returns the indexed paths in sorted order.
func (index *Index) Paths() []string {
	if index == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(index.roots))
}

// Len returns the number of indexed files.
func (index *Index) Len() int {
	if index == nil {
		return 0
	}

	return len(index.roots)
}
