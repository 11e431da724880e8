// Package project runs the matchers over every class diff of one analysis
// and synthesizes the diffs of moved code.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/astmove/pkg/config"
	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/matchers"
	"github.com/Sumatoshi-tech/astmove/pkg/moved"
	"github.com/Sumatoshi-tech/astmove/pkg/optimization"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

const tracerName = "github.com/Sumatoshi-tech/astmove/pkg/project"

// Sentinel errors.
var (
	ErrNoModel         = errors.New("no model diff")
	ErrFileNotIndexed  = errors.New("file not found in model index")
	ErrInvalidBaseline = errors.New("baseline store does not belong to the class diff files")
)

// ClassDiff is one pair of matched classes, as reported by the semantic
// engine, together with the output of the baseline tree matcher.
type ClassDiff struct {
	Pair         refactoring.ClassPair
	SrcPath      string
	DstPath      string
	OriginalType refactoring.Location
	NextType     refactoring.Location
	OriginalDoc  *matchers.Doc
	NextDoc      *matchers.Doc
	// BodyMappers are the operations matched within the class pair.
	BodyMappers []*refactoring.BodyMapper
	// CommonAttributes are the attributes present in both classes.
	CommonAttributes []AttributePair
	// Baseline is merged into the diff store when the file pair is first
	// seen. May be nil.
	Baseline *mapping.Store
}

// AttributePair is one attribute kept by a class pair.
type AttributePair struct {
	Before refactoring.Declaration `json:"before" yaml:"before"`
	After  refactoring.Declaration `json:"after"  yaml:"after"`
}

// FilePair returns the class diff's file pair.
func (classDiff *ClassDiff) FilePair() diff.FilePair {
	return diff.FilePair{Src: classDiff.SrcPath, Dst: classDiff.DstPath}
}

// Option configures a Differ.
type Option func(*Differ)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(differ *Differ) {
		if logger != nil {
			differ.logger = logger
		}
	}
}

// WithConfig sets the modifier keywords and move generators.
func WithConfig(cfg *config.Config) Option {
	return func(differ *Differ) {
		if cfg != nil {
			differ.modifiers = cfg.Matching.Modifiers
			differ.generators = cfg.Moves.Generators
		}
	}
}

// WithClassifier replaces the CrossFileClassifier.
func WithClassifier(classifier Classifier) Option {
	return func(differ *Differ) {
		if classifier != nil {
			differ.classifier = classifier
		}
	}
}

// Differ computes the project diff of one analysis.
type Differ struct {
	model      *refactoring.ModelDiff
	classDiffs []ClassDiff
	modifiers  []string
	generators []string
	classifier Classifier
	logger     *slog.Logger
}

// New creates a Differ over the semantic engine's results.
func New(model *refactoring.ModelDiff, classDiffs []ClassDiff, opts ...Option) *Differ {
	defaults := config.Default()

	differ := &Differ{
		model:      model,
		classDiffs: classDiffs,
		modifiers:  defaults.Matching.Modifiers,
		generators: defaults.Moves.Generators,
		classifier: CrossFileClassifier{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(differ)
	}

	return differ
}

// Diff matches every class diff in order, turns the cross-file mappings into
// diffs of their own, classifies the class-level diffs and runs the move
// generators.
func (differ *Differ) Diff(ctx context.Context) (*diff.ProjectDiff, error) {
	if differ.model == nil {
		return nil, ErrNoModel
	}

	gens, err := differ.buildGenerators()
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "astmove.project.diff",
		trace.WithAttributes(attribute.Int("project.class_diffs", len(differ.classDiffs))))
	defer span.End()

	project := diff.NewProjectDiff(differ.model.Before, differ.model.After)
	cross := newCrossFileSet(differ.logger)

	for idx := range differ.classDiffs {
		matchErr := differ.matchClass(project, cross, &differ.classDiffs[idx])
		if matchErr != nil {
			return nil, matchErr
		}
	}

	home := slices.Clone(project.Diffs)

	crossDiffs, err := cross.resolve(project)
	if err != nil {
		return nil, err
	}

	for _, classDiff := range home {
		classDiff.Classification = differ.classifier.Classify(classDiff, crossDiffs)
	}

	for _, crossDiff := range crossDiffs {
		crossDiff.Classification = diff.NewClassification()
		project.Add(crossDiff)
	}

	moves, err := moved.Run(ctx, bindGenerators(gens, project, differ.logger)...)
	if err != nil {
		return nil, fmt.Errorf("move generators: %w", err)
	}

	project.AddMoveDiffs(moves...)

	span.SetAttributes(
		attribute.Int("project.diffs", len(project.Diffs)),
		attribute.Int("project.move_diffs", len(project.MoveDiffs)),
	)

	differ.logger.DebugContext(ctx, "project diff done",
		"diffs", len(project.Diffs), "cross_file", len(crossDiffs), "moves", len(project.MoveDiffs))

	return project, nil
}

// matchClass runs one class-pair pass: type declaration, class
// documentation, common attributes, operations and refactorings, all sharing
// one optimization context. The root pair and the package declaration are
// only matched when the file pair is seen for the first time.
func (differ *Differ) matchClass(project *diff.ProjectDiff, cross *crossFileSet, classDiff *ClassDiff) error {
	pair := classDiff.FilePair()

	srcRoot, dstRoot, ok := differ.model.Roots(pair)
	if !ok {
		return fmt.Errorf("class diff %s -> %s: %w", pair.Src, pair.Dst, ErrFileNotIndexed)
	}

	target := project.Find(pair)
	appending := target != nil

	if !appending {
		target = diff.New(pair.Src, pair.Dst, srcRoot, dstRoot)

		if classDiff.Baseline != nil {
			mergeErr := target.Store.Merge(classDiff.Baseline)
			if mergeErr != nil {
				return fmt.Errorf("class diff %s -> %s: %w: %w", pair.Src, pair.Dst, ErrInvalidBaseline, mergeErr)
			}
		}

		project.Add(target)
	}

	store := target.Store
	opts := []matchers.Option{matchers.WithLogger(differ.logger)}
	pass := optimization.New(store)

	if !appending {
		differ.add(store, srcRoot, dstRoot)
		matchers.NewPackageDeclarationMatcher(opts...).Match(srcRoot, dstRoot, store)
	}

	srcType := classDiff.OriginalType.Find(srcRoot, store.SrcLang().TypeDeclarations()...)
	dstType := classDiff.NextType.Find(dstRoot, store.DstLang().TypeDeclarations()...)

	matchers.NewClassDeclarationMatcher(differ.modifiers, opts...).Match(srcType, dstType, store)
	matchers.NewDocMatcher(classDiff.OriginalDoc, classDiff.NextDoc, opts...).Match(srcRoot, dstRoot, store)

	for _, attr := range classDiff.CommonAttributes {
		if !differ.within(pair, attr.Before.Location, attr.After.Location) {
			continue
		}

		matchers.NewFieldDeclarationMatcher(pass, attr.Before, attr.After, opts...).Match(srcRoot, dstRoot, store)
	}

	for _, mapper := range classDiff.BodyMappers {
		if mapper == nil || !differ.within(pair, mapper.Before.Location, mapper.After.Location) {
			continue
		}

		matchers.NewMethodMatcher(pass, mapper, opts...).Match(srcRoot, dstRoot, store)
	}

	matchers.NewClassDiffMatcher(pass, differ.model, classDiff.Pair, opts...).Match(srcType, dstType, store)

	differ.replay(pass, store)
	cross.collect(pass)

	return nil
}

// within reports whether two declaration locations lie in the files of pair.
func (differ *Differ) within(pair diff.FilePair, before, after refactoring.Location) bool {
	if before.FilePath == pair.Src && after.FilePath == pair.Dst {
		return true
	}

	differ.logger.Debug("declaration outside class diff files skipped",
		"before", before.FilePath, "after", after.FilePath, "src", pair.Src, "dst", pair.Dst)

	return false
}

// replay resolves the deferred last-step pairs against whichever store owns
// them, then merges the subtree mappings.
func (differ *Differ) replay(pass *optimization.Context, store *mapping.Store) {
	for _, deferred := range pass.LastStep() {
		target := store

		if !store.Owns(deferred.Src, deferred.Dst) {
			target = nil

			for _, pair := range pass.CrossFilePairs() {
				candidate, _ := pass.CrossFileStore(pair)
				if candidate.Owns(deferred.Src, deferred.Dst) {
					target = candidate

					break
				}
			}
		}

		if target == nil {
			differ.logger.Debug("last step pair dropped: no owning store",
				"src", deferred.Src.String(), "dst", deferred.Dst.String())

			continue
		}

		if deferred.Src.IsIsomorphicTo(deferred.Dst) {
			differ.addRecursively(target, deferred.Src, deferred.Dst)
		} else {
			differ.add(target, deferred.Src, deferred.Dst)
		}
	}

	err := store.Merge(pass.Subtree())
	if err != nil {
		differ.logger.Debug("subtree mappings dropped", "error", err)
	}
}

func (differ *Differ) add(store *mapping.Store, src, dst *tree.Node) {
	if src == nil || dst == nil {
		return
	}

	err := store.AddMapping(src, dst)
	if err != nil {
		differ.logger.Debug("mapping rejected", "error", err)
	}
}

func (differ *Differ) addRecursively(store *mapping.Store, src, dst *tree.Node) {
	err := store.AddMappingRecursively(src, dst)
	if err != nil {
		differ.logger.Debug("recursive mapping rejected", "error", err)
	}
}

type generatorFactory func(project *diff.ProjectDiff, opts ...moved.Option) moved.Generator

func (differ *Differ) buildGenerators() ([]generatorFactory, error) {
	factories := make([]generatorFactory, 0, len(differ.generators))

	for _, name := range differ.generators {
		switch name {
		case config.GeneratorAllSubTrees:
			factories = append(factories, func(project *diff.ProjectDiff, opts ...moved.Option) moved.Generator {
				return moved.NewAllSubTrees(project, opts...)
			})
		case config.GeneratorDeclarations:
			factories = append(factories, func(project *diff.ProjectDiff, opts ...moved.Option) moved.Generator {
				return moved.NewDeclarations(project, opts...)
			})
		default:
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownGenerator, name)
		}
	}

	return factories, nil
}

func bindGenerators(factories []generatorFactory, project *diff.ProjectDiff, logger *slog.Logger) []moved.Generator {
	gens := make([]moved.Generator, 0, len(factories))

	for _, factory := range factories {
		gens = append(gens, factory(project, moved.WithLogger(logger)))
	}

	return gens
}
