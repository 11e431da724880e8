package project

import (
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
)

// crossFileSet accumulates the cross-file stores of every pass by file pair.
type crossFileSet struct {
	stores map[diff.FilePair]*mapping.Store
	order  []diff.FilePair
	logger *slog.Logger
}

func newCrossFileSet(logger *slog.Logger) *crossFileSet {
	return &crossFileSet{stores: make(map[diff.FilePair]*mapping.Store), logger: logger}
}

// collect takes over the cross-file stores of a finished pass. Stores of a
// pair already collected are merged into the first one.
func (set *crossFileSet) collect(pass *optimization.Context) {
	for _, pair := range pass.CrossFilePairs() {
		store, _ := pass.CrossFileStore(pair)

		existing, ok := set.stores[pair]
		if !ok {
			set.stores[pair] = store
			set.order = append(set.order, pair)

			continue
		}

		err := existing.Merge(store)
		if err != nil {
			set.logger.Debug("cross-file mappings dropped", "src", pair.Src, "dst", pair.Dst, "error", err)
		}
	}
}

// resolve merges stores whose pair already has a class-level diff into that
// diff and returns a new diff for every other pair, in collection order.
func (set *crossFileSet) resolve(project *diff.ProjectDiff) ([]*diff.ASTDiff, error) {
	var result []*diff.ASTDiff

	for _, pair := range set.order {
		store := set.stores[pair]

		if home := project.Find(pair); home != nil {
			err := home.Store.Merge(store)
			if err != nil {
				return nil, fmt.Errorf("cross-file mappings %s -> %s: %w", pair.Src, pair.Dst, err)
			}

			continue
		}

		if store.Len() == 0 {
			continue
		}

		result = append(result, &diff.ASTDiff{
			SrcPath: pair.Src,
			DstPath: pair.Dst,
			Src:     store.SrcRoot(),
			Dst:     store.DstRoot(),
			Store:   store,
		})
	}

	return result, nil
}
