// Package optimization provides the side-channel shared by the matchers of
// one class-pair matching pass.
package optimization

import (
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Key identifies a fact.
type Key string

// Context is a mutable bag of facts discovered during one matching pass.
// Create one per class pair and invoke matchers sequentially against it; it
// has no internal locking.
type Context struct {
	facts     map[Key]any
	claims    map[*tree.Node]string
	lastStep  []mapping.Mapping
	subtree   *mapping.Store
	crossFile map[diff.FilePair]*mapping.Store
	order     []diff.FilePair
}

// New creates a context for a pass writing into store. The subtree store
// shares store's roots and language tags.
func New(store *mapping.Store) *Context {
	return &Context{
		facts:     make(map[Key]any),
		claims:    make(map[*tree.Node]string),
		subtree:   mapping.NewStore(store.SrcRoot(), store.DstRoot(), store.SrcLang(), store.DstLang()),
		crossFile: make(map[diff.FilePair]*mapping.Store),
	}
}

// Set records a fact, replacing any previous value.
func (ctx *Context) Set(key Key, fact any) {
	ctx.facts[key] = fact
}

// Get returns a fact.
func (ctx *Context) Get(key Key) (any, bool) {
	fact, ok := ctx.facts[key]

	return fact, ok
}

// Has reports whether a fact was recorded.
func (ctx *Context) Has(key Key) bool {
	_, ok := ctx.facts[key]

	return ok
}

// Claim marks a declaration node as fully attributed by the named matcher.
// The first claim wins.
func (ctx *Context) Claim(n *tree.Node, by string) {
	if n == nil {
		return
	}

	if _, exists := ctx.claims[n]; !exists {
		ctx.claims[n] = by
	}
}

// ClaimedBy returns the matcher that claimed n.
func (ctx *Context) ClaimedBy(n *tree.Node) (string, bool) {
	by, ok := ctx.claims[n]

	return by, ok
}

// DeferLastStep queues a pair to be resolved after every matcher of the pass
// has run.
func (ctx *Context) DeferLastStep(src, dst *tree.Node) {
	ctx.lastStep = append(ctx.lastStep, mapping.Mapping{Src: src, Dst: dst})
}

// LastStep returns the deferred pairs in the order they were queued.
func (ctx *Context) LastStep() []mapping.Mapping {
	return ctx.lastStep
}

// Subtree returns the store of subtree mappings merged at the end of the pass.
func (ctx *Context) Subtree() *mapping.Store {
	return ctx.subtree
}

// CrossFile returns the store for a file pair other than the pass's own,
// creating it on first use.
func (ctx *Context) CrossFile(srcPath, dstPath string, srcRoot, dstRoot *tree.Node) *mapping.Store {
	pair := diff.FilePair{Src: srcPath, Dst: dstPath}

	if store, ok := ctx.crossFile[pair]; ok {
		return store
	}

	store := mapping.NewStoreForFiles(srcPath, dstPath, srcRoot, dstRoot)
	ctx.crossFile[pair] = store
	ctx.order = append(ctx.order, pair)

	return store
}

// CrossFilePairs returns the file pairs with a cross-file store, in creation order.
func (ctx *Context) CrossFilePairs() []diff.FilePair {
	return ctx.order
}

// CrossFileStore returns the store of a file pair.
func (ctx *Context) CrossFileStore(pair diff.FilePair) (*mapping.Store, bool) {
	store, ok := ctx.crossFile[pair]

	return store, ok
}
