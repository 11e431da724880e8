// Package mapping provides the mapping store: the many-to-many set of node
// correspondences between a source tree and a destination tree.
package mapping

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/astmove/pkg/lang"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Sentinel errors for store operations.
var (
	// ErrForeignNode is returned when a node does not belong to the tree the
	// store was created for. It indicates a programming error in the caller.
	ErrForeignNode = errors.New("node does not belong to the store's tree")
	// ErrNotIsomorphic is returned by AddMappingRecursively when the two
	// subtrees differ in shape, types or labels.
	ErrNotIsomorphic = errors.New("subtrees are not isomorphic")
)

// Mapping is one (source, destination) correspondence.
type Mapping struct {
	Src *tree.Node
	Dst *tree.Node
}

// Store holds the mappings between one source tree and one destination tree.
// It is append-only: no operation removes a mapping. Not safe for concurrent
// writes.
type Store struct {
	srcRoot *tree.Node
	dstRoot *tree.Node
	srcLang *lang.Descriptor
	dstLang *lang.Descriptor

	srcToDst map[*tree.Node][]*tree.Node
	dstToSrc map[*tree.Node][]*tree.Node
	pairs    map[Mapping]struct{}
	ordered  []Mapping
}

// NewStore creates an empty store for the two roots tagged with the given
// language descriptors. Nil descriptors default to lang.Java.
func NewStore(srcRoot, dstRoot *tree.Node, srcLang, dstLang *lang.Descriptor) *Store {
	if srcLang == nil {
		srcLang = lang.Java
	}

	if dstLang == nil {
		dstLang = lang.Java
	}

	return &Store{
		srcRoot:  srcRoot,
		dstRoot:  dstRoot,
		srcLang:  srcLang,
		dstLang:  dstLang,
		srcToDst: make(map[*tree.Node][]*tree.Node),
		dstToSrc: make(map[*tree.Node][]*tree.Node),
		pairs:    make(map[Mapping]struct{}),
	}
}

// NewStoreForFiles creates an empty store whose descriptors are selected from
// the file paths.
func NewStoreForFiles(srcPath, dstPath string, srcRoot, dstRoot *tree.Node) *Store {
	return NewStore(srcRoot, dstRoot, lang.ForPath(srcPath), lang.ForPath(dstPath))
}

// SrcRoot returns the source tree root.
func (store *Store) SrcRoot() *tree.Node { return store.srcRoot }

// DstRoot returns the destination tree root.
func (store *Store) DstRoot() *tree.Node { return store.dstRoot }

// SrcLang returns the source side language descriptor.
func (store *Store) SrcLang() *lang.Descriptor { return store.srcLang }

// DstLang returns the destination side language descriptor.
func (store *Store) DstLang() *lang.Descriptor { return store.dstLang }

// Owns reports whether src and dst belong to the store's source and
// destination trees respectively.
func (store *Store) Owns(src, dst *tree.Node) bool {
	return src != nil && dst != nil && src.Root() == store.srcRoot && dst.Root() == store.dstRoot
}

// AddMapping records (src, dst). Adding an existing pair is a no-op.
func (store *Store) AddMapping(src, dst *tree.Node) error {
	if !store.Owns(src, dst) {
		return fmt.Errorf("add mapping %s -> %s: %w", src, dst, ErrForeignNode)
	}

	store.insert(src, dst)

	return nil
}

// AddMappingRecursively verifies that the subtrees rooted at src and dst are
// isomorphic and then records every structurally corresponding pair in
// pre-order, root pair included. On failure nothing is recorded.
func (store *Store) AddMappingRecursively(src, dst *tree.Node) error {
	if !store.Owns(src, dst) {
		return fmt.Errorf("add recursive mapping %s -> %s: %w", src, dst, ErrForeignNode)
	}

	if !src.IsIsomorphicTo(dst) {
		return fmt.Errorf("add recursive mapping %s -> %s: %w", src, dst, ErrNotIsomorphic)
	}

	type frame struct{ src, dst *tree.Node }

	stack := []frame{{src, dst}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		store.insert(top.src, top.dst)

		for idx := len(top.src.Children) - 1; idx >= 0; idx-- {
			stack = append(stack, frame{top.src.Children[idx], top.dst.Children[idx]})
		}
	}

	return nil
}

func (store *Store) insert(src, dst *tree.Node) {
	pair := Mapping{Src: src, Dst: dst}
	if _, exists := store.pairs[pair]; exists {
		return
	}

	store.pairs[pair] = struct{}{}
	store.ordered = append(store.ordered, pair)
	store.srcToDst[src] = append(store.srcToDst[src], dst)
	store.dstToSrc[dst] = append(store.dstToSrc[dst], src)
}

// Dsts returns the destination counterparts of src in insertion order.
func (store *Store) Dsts(src *tree.Node) []*tree.Node {
	return store.srcToDst[src]
}

// Srcs returns the source counterparts of dst in insertion order.
func (store *Store) Srcs(dst *tree.Node) []*tree.Node {
	return store.dstToSrc[dst]
}

// Dst returns the first destination counterpart of src, or nil.
func (store *Store) Dst(src *tree.Node) *tree.Node {
	if dsts := store.srcToDst[src]; len(dsts) > 0 {
		return dsts[0]
	}

	return nil
}

// Src returns the first source counterpart of dst, or nil.
func (store *Store) Src(dst *tree.Node) *tree.Node {
	if srcs := store.dstToSrc[dst]; len(srcs) > 0 {
		return srcs[0]
	}

	return nil
}

// Contains reports whether the exact pair (src, dst) is recorded.
func (store *Store) Contains(src, dst *tree.Node) bool {
	_, ok := store.pairs[Mapping{Src: src, Dst: dst}]

	return ok
}

// IsSrcMapped reports whether src has at least one counterpart.
func (store *Store) IsSrcMapped(src *tree.Node) bool {
	return len(store.srcToDst[src]) > 0
}

// IsDstMapped reports whether dst has at least one counterpart.
func (store *Store) IsDstMapped(dst *tree.Node) bool {
	return len(store.dstToSrc[dst]) > 0
}

// Len returns the number of distinct mappings.
func (store *Store) Len() int {
	return len(store.ordered)
}

// Mappings returns a copy of all mappings in insertion order.
func (store *Store) Mappings() []Mapping {
	result := make([]Mapping, len(store.ordered))
	copy(result, store.ordered)

	return result
}

// IsMultiMapped reports whether src or dst takes part in more than one mapping.
func (store *Store) IsMultiMapped(src, dst *tree.Node) bool {
	return len(store.srcToDst[src]) > 1 || len(store.dstToSrc[dst]) > 1
}

// Merge adds every mapping of other. Both stores must share their roots.
func (store *Store) Merge(other *Store) error {
	if other == nil {
		return nil
	}

	if other.srcRoot != store.srcRoot || other.dstRoot != store.dstRoot {
		return fmt.Errorf("merge stores: %w", ErrForeignNode)
	}

	for _, pair := range other.ordered {
		store.insert(pair.Src, pair.Dst)
	}

	return nil
}
