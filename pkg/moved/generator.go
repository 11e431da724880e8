// Package moved synthesizes diffs for code that moved between files.
//
// A generator collects raw move edges from the root edit classifications of
// a finished project diff, groups them by (source file, destination file)
// and turns every non-empty group into a diff of its own.
package moved

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Edge is one moved (source node, destination node) pair.
type Edge struct {
	Src *tree.Node
	Dst *tree.Node
}

// Generator groups move edges by file pair and synthesizes diffs from them.
// Every call to Make returns new diff values; callers must not call it twice
// expecting merged results.
type Generator interface {
	Name() string
	MakeFilePairMappings() map[diff.FilePair][]Edge
	Make() []*diff.ASTDiff
}

// Option configures a generator.
type Option func(*base)

// WithLogger sets the logger that receives dropped edges at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// base implements the shared make phase over a grouping function.
type base struct {
	project *diff.ProjectDiff
	logger  *slog.Logger
}

func newBase(project *diff.ProjectDiff, opts []Option) base {
	b := base{project: project, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	for _, opt := range opts {
		opt(&b)
	}

	return b
}

// make resolves the whole-file trees of every group and seeds a fresh store
// with its edges. Groups without edges, groups whose files do not resolve
// and groups left with an empty store are dropped.
func (b base) make(groups map[diff.FilePair][]Edge) []*diff.ASTDiff {
	pairs := slices.SortedFunc(maps.Keys(groups), diff.FilePair.Compare)
	result := make([]*diff.ASTDiff, 0, len(pairs))

	for _, pair := range pairs {
		edges := groups[pair]
		if len(edges) == 0 {
			continue
		}

		srcRoot, srcOK := b.project.Before.Root(pair.Src)
		dstRoot, dstOK := b.project.After.Root(pair.Dst)

		if !srcOK || !dstOK {
			b.logger.Debug("move group dropped: file not indexed", "src", pair.Src, "dst", pair.Dst)

			continue
		}

		synthesized := diff.New(pair.Src, pair.Dst, srcRoot, dstRoot)

		for _, edge := range edges {
			b.seed(synthesized, edge)
		}

		if synthesized.Store.Len() == 0 {
			continue
		}

		result = append(result, synthesized)
	}

	return result
}

func (b base) seed(synthesized *diff.ASTDiff, edge Edge) {
	if edge.Src == nil || edge.Dst == nil {
		return
	}

	var err error

	if edge.Src.IsIsomorphicTo(edge.Dst) {
		err = synthesized.Store.AddMappingRecursively(edge.Src, edge.Dst)
	} else {
		err = synthesized.Store.AddMapping(edge.Src, edge.Dst)
	}

	if err != nil {
		b.logger.Debug("move edge dropped", "src", synthesized.SrcPath, "dst", synthesized.DstPath, "error", err)
	}
}

// CountEdges returns the number of edges over all groups.
func CountEdges(groups map[diff.FilePair][]Edge) int {
	total := 0

	for _, edges := range groups {
		total += len(edges)
	}

	return total
}
