// Package parse turns source files into the syntax trees the matchers work
// on, using the tree-sitter grammars of the supported languages.
package parse

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"unicode"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	golang "github.com/alexaandru/go-sitter-forest/go"
	"github.com/alexaandru/go-sitter-forest/java"
	"github.com/alexaandru/go-sitter-forest/kotlin"
	"github.com/alexaandru/go-sitter-forest/python"
	"github.com/src-d/enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/lang"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Sentinel errors.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoRootNode          = errors.New("no root node")
	errPoolType            = errors.New("unexpected parser pool type")
)

// grammars maps enry language names to their tree-sitter grammars.
//
//nolint:gochecknoglobals // Immutable grammar table.
var grammars = map[string]func() unsafe.Pointer{
	lang.NameJava:   java.GetLanguage,
	lang.NameKotlin: kotlin.GetLanguage,
	lang.NamePython: python.GetLanguage,
	lang.NameGo:     golang.GetLanguage,
}

// Parser parses files of every supported language. It keeps one pool of
// tree-sitter parsers per language and is safe for concurrent use.
type Parser struct {
	mu    sync.Mutex
	pools map[string]*sync.Pool
}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{pools: make(map[string]*sync.Pool)}
}

// Detect returns the enry language name of path when a grammar exists for it.
func Detect(path string) (string, bool) {
	name, _ := enry.GetLanguageByExtension(filepath.Base(path))
	_, ok := grammars[name]

	return name, ok
}

// Supported reports whether path has a grammar.
func Supported(path string) bool {
	_, ok := Detect(path)

	return ok
}

// Parse parses content as the language of path and converts the result.
// Named nodes are kept, anonymous tokens only when they are words, so that
// keywords such as modifiers survive as leaves. Leaves are labeled with their
// source text; offsets are byte offsets.
func (parser *Parser) Parse(ctx context.Context, path string, content []byte) (*tree.Node, error) {
	name, ok := Detect(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedLanguage)
	}

	pool := parser.pool(name)

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRootNode)
	}

	return convert(root, content), nil
}

// ParseFiles parses every file concurrently and indexes the roots by path.
// Files without a grammar are skipped.
func (parser *Parser) ParseFiles(ctx context.Context, files map[string][]byte) (*diff.Index, error) {
	var (
		mu    sync.Mutex
		roots = make(map[string]*tree.Node, len(files))
	)

	group, groupCtx := errgroup.WithContext(ctx)

	for path, content := range files {
		if !Supported(path) {
			continue
		}

		group.Go(func() error {
			root, err := parser.Parse(groupCtx, path, content)
			if err != nil {
				return err
			}

			mu.Lock()
			roots[path] = root
			mu.Unlock()

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	return diff.NewIndex(roots), nil
}

func (parser *Parser) pool(name string) *sync.Pool {
	parser.mu.Lock()
	defer parser.mu.Unlock()

	if pool, ok := parser.pools[name]; ok {
		return pool
	}

	language := sitter.NewLanguage(grammars[name]())
	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(language)

			return tsParser
		},
	}
	parser.pools[name] = pool

	return pool
}

func convert(tsNode sitter.Node, source []byte) *tree.Node {
	start := int(tsNode.StartByte()) //nolint:gosec // tree-sitter byte offsets fit in int
	end := int(tsNode.EndByte())     //nolint:gosec // tree-sitter byte offsets fit in int

	var children []*tree.Node

	for idx := range tsNode.ChildCount() {
		child := tsNode.Child(idx)
		if child.IsNull() || !keep(child, source) {
			continue
		}

		children = append(children, convert(child, source))
	}

	if len(children) == 0 {
		return tree.New(tree.Type(tsNode.Type()), tsNode.Content(source), start, end)
	}

	return tree.New(tree.Type(tsNode.Type()), "", start, end).Add(children...)
}

func keep(tsNode sitter.Node, source []byte) bool {
	if tsNode.IsNamed() {
		return true
	}

	return isWord(tsNode.Content(source))
}

func isWord(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range text {
		if !unicode.IsLetter(r) && r != '_' {
			return false
		}
	}

	return true
}
