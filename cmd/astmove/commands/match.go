// Package commands implements the astmove subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astmove/pkg/config"
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/lang"
	"github.com/Sumatoshi-tech/astmove/pkg/observability"
	"github.com/Sumatoshi-tech/astmove/pkg/parse"
	"github.com/Sumatoshi-tech/astmove/pkg/project"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Global flag names.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
)

const (
	matchCmdUse   = "match <before> <after>"
	matchCmdShort = "Map the syntax trees of two files or two directories"
	matchArgCount = 2
	flagFormat    = "format"
	flagHints     = "hints"
	levelDebug    = "debug"
)

// ErrMixedInputs is returned when one input is a file and the other a directory.
var ErrMixedInputs = errors.New("before and after must both be files or both be directories")

// ErrNoCommonFiles is returned when two directories share no supported file.
var ErrNoCommonFiles = errors.New("no supported file present on both sides")

// NewMatchCommand creates the match subcommand.
func NewMatchCommand() *cobra.Command {
	var format, hintsPath string

	cmd := &cobra.Command{
		Use:   matchCmdUse,
		Short: matchCmdShort,
		Long: `Parse both inputs, pair their top-level type declarations by name and
map package declarations, type declarations and their modifiers.

Two directories are compared file by file on their relative paths. Files
present on one side only stay available as move sources and targets.

--hints reads the refactorings of a semantic detector from a YAML or JSON
file: hints, moved attributes and per-class documentation, operations and
common attributes.`,
		Args: cobra.ExactArgs(matchArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if format != "" {
				cfg.Output.Format = format
			}

			logger := observability.NewLogger(cfg.Logging, cmd.ErrOrStderr(), "match")

			return runMatch(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args[0], args[1], hintsPath)
		},
	}

	cmd.Flags().StringVarP(&format, flagFormat, "f", "", "output format: table, yaml or json")
	cmd.Flags().StringVar(&hintsPath, flagHints, "", "YAML or JSON file of detected refactorings")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		configPath = ""
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	verbose, err := cmd.Flags().GetBool(FlagVerbose)
	if err == nil && verbose {
		cfg.Logging.Level = levelDebug
	}

	return cfg, nil
}

func runMatch(
	ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, before, after, hintsPath string,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	hints, err := loadHints(hintsPath)
	if err != nil {
		return err
	}

	beforeFiles, afterFiles, err := readInputs(before, after)
	if err != nil {
		return err
	}

	parser := parse.NewParser()

	beforeIndex, err := parser.ParseFiles(ctx, beforeFiles)
	if err != nil {
		return fmt.Errorf("parse %s: %w", before, err)
	}

	afterIndex, err := parser.ParseFiles(ctx, afterFiles)
	if err != nil {
		return fmt.Errorf("parse %s: %w", after, err)
	}

	model := &refactoring.ModelDiff{Before: beforeIndex, After: afterIndex}
	classDiffs := pairFiles(beforeIndex, afterIndex)
	hints.apply(model, classDiffs)

	logger.InfoContext(ctx, "matching", "before", before, "after", after,
		"class_pairs", len(classDiffs), "hints", len(model.Hints))

	result, err := project.New(model, classDiffs, project.WithConfig(cfg), project.WithLogger(logger)).Diff(ctx)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	return render(out, cfg.Output.Format, newReport(result))
}

// readInputs loads two files, or every supported file under two directories
// keyed by relative path. The directories must share at least one file.
func readInputs(before, after string) (map[string][]byte, map[string][]byte, error) {
	beforeInfo, err := os.Stat(before)
	if err != nil {
		return nil, nil, fmt.Errorf("stat before: %w", err)
	}

	afterInfo, err := os.Stat(after)
	if err != nil {
		return nil, nil, fmt.Errorf("stat after: %w", err)
	}

	if beforeInfo.IsDir() != afterInfo.IsDir() {
		return nil, nil, ErrMixedInputs
	}

	if !beforeInfo.IsDir() {
		beforeContent, readErr := os.ReadFile(before)
		if readErr != nil {
			return nil, nil, fmt.Errorf("read before: %w", readErr)
		}

		afterContent, readErr := os.ReadFile(after)
		if readErr != nil {
			return nil, nil, fmt.Errorf("read after: %w", readErr)
		}

		return map[string][]byte{before: beforeContent}, map[string][]byte{after: afterContent}, nil
	}

	beforeFiles, err := readTree(before)
	if err != nil {
		return nil, nil, err
	}

	afterFiles, err := readTree(after)
	if err != nil {
		return nil, nil, err
	}

	for path := range beforeFiles {
		if _, ok := afterFiles[path]; ok {
			return beforeFiles, afterFiles, nil
		}
	}

	return nil, nil, ErrNoCommonFiles
}

func readTree(root string) (map[string][]byte, error) {
	files := make(map[string][]byte)

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() || !parse.Supported(path) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relative path of %s: %w", path, relErr)
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}

		files[filepath.ToSlash(rel)] = content

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// pairFiles builds one class diff per top-level type declaration name found
// in a file pair. Two single-file inputs are paired whatever their names;
// otherwise files are paired on equal paths and one-sided files are skipped.
func pairFiles(before, after *diff.Index) []project.ClassDiff {
	var classDiffs []project.ClassDiff

	beforePaths := before.Paths()
	afterPaths := after.Paths()

	for _, srcPath := range beforePaths {
		dstPath := srcPath
		if len(beforePaths) == 1 && len(afterPaths) == 1 {
			dstPath = afterPaths[0]
		}

		srcRoot, srcOK := before.Root(srcPath)
		dstRoot, dstOK := after.Root(dstPath)

		if !srcOK || !dstOK {
			continue
		}

		paired := pairTypes(srcPath, dstPath, srcRoot, dstRoot)
		if len(paired) == 0 {
			// File-level pass: roots and package declaration only.
			paired = []project.ClassDiff{{SrcPath: srcPath, DstPath: dstPath}}
		}

		classDiffs = append(classDiffs, paired...)
	}

	return classDiffs
}

func pairTypes(srcPath, dstPath string, srcRoot, dstRoot *tree.Node) []project.ClassDiff {
	srcLang := lang.ForPath(srcPath)
	dstLang := lang.ForPath(dstPath)
	dstTypes := topLevelTypes(dstRoot, dstLang)

	var classDiffs []project.ClassDiff

	for name, srcType := range orderedTypes(srcRoot, srcLang) {
		dstType, ok := dstTypes[name]
		if !ok {
			continue
		}

		classDiffs = append(classDiffs, project.ClassDiff{
			Pair:         refactoring.ClassPair{Original: name, Next: name},
			SrcPath:      srcPath,
			DstPath:      dstPath,
			OriginalType: locationOf(srcPath, srcType),
			NextType:     locationOf(dstPath, dstType),
		})
	}

	return classDiffs
}

func topLevelTypes(root *tree.Node, desc *lang.Descriptor) map[string]*tree.Node {
	types := make(map[string]*tree.Node)

	for name, n := range orderedTypes(root, desc) {
		types[name] = n
	}

	return types
}

// orderedTypes yields the named type declarations directly under root in
// source order. The first declaration of a name wins.
func orderedTypes(root *tree.Node, desc *lang.Descriptor) iter.Seq2[string, *tree.Node] {
	return func(yield func(string, *tree.Node) bool) {
		seen := make(map[string]bool)

		for _, child := range root.Children {
			if !desc.IsTypeDeclaration(child.Type) {
				continue
			}

			name := tree.ChildOfType(child, desc.SimpleName)
			if name == nil || seen[name.Label] {
				continue
			}

			seen[name.Label] = true

			if !yield(name.Label, child) {
				return
			}
		}
	}
}

func locationOf(path string, n *tree.Node) refactoring.Location {
	return refactoring.Location{FilePath: path, Start: n.Pos.Start, End: n.Pos.End}
}
