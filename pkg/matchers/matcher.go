// Package matchers provides the strategies that add mappings between two
// syntax trees, one syntactic concern each.
//
// A matcher locates the constructs it cares about and records mappings in the
// store it is given. A construct that cannot be located is not an error: the
// matcher simply adds nothing.
package matchers

import (
	"io"
	"log/slog"

	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Matcher adds mappings between src and dst to store.
type Matcher interface {
	Match(src, dst *tree.Node, store *mapping.Store)
}

// Func adapts a plain function to Matcher.
type Func func(src, dst *tree.Node, store *mapping.Store)

// Match calls fn.
func (fn Func) Match(src, dst *tree.Node, store *mapping.Store) {
	fn(src, dst, store)
}

// MatchNew runs m against a fresh store over the roots of src and dst and
// returns the store.
func MatchNew(m Matcher, src, dst *tree.Node) *mapping.Store {
	store := mapping.NewStore(src.Root(), dst.Root(), nil, nil)
	m.Match(src, dst, store)

	return store
}

// Option configures a matcher.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives lookup misses and rejected
// mappings at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// recorder writes into a store and reports rejected inserts to the logger
// instead of the caller.
type recorder struct {
	logger *slog.Logger
}

func (rec recorder) add(store *mapping.Store, src, dst *tree.Node) bool {
	if src == nil || dst == nil {
		return false
	}

	err := store.AddMapping(src, dst)
	if err != nil {
		rec.logger.Debug("mapping rejected", "src", src.String(), "dst", dst.String(), "error", err)

		return false
	}

	return true
}

func (rec recorder) addRecursively(store *mapping.Store, src, dst *tree.Node) bool {
	if src == nil || dst == nil {
		return false
	}

	err := store.AddMappingRecursively(src, dst)
	if err != nil {
		rec.logger.Debug("recursive mapping rejected", "src", src.String(), "dst", dst.String(), "error", err)

		return false
	}

	return true
}

// addIsomorphicOrRoot maps the whole subtrees when they are isomorphic and
// only the root pair otherwise.
func (rec recorder) addIsomorphicOrRoot(store *mapping.Store, src, dst *tree.Node) bool {
	if src == nil || dst == nil {
		return false
	}

	if src.IsIsomorphicTo(dst) {
		return rec.addRecursively(store, src, dst)
	}

	return rec.add(store, src, dst)
}

func (rec recorder) miss(what string, args ...any) {
	rec.logger.Debug(what+" not found", args...)
}
