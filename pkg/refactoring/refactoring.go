// Package refactoring models the read-only results of a semantic refactoring
// detector: refactoring hints with their statement-level correspondences,
// moved-attribute diffs, and the before/after file indexes.
package refactoring

import (
	"slices"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Location is a byte range in one file.
type Location struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Start    int    `json:"start"     yaml:"start"`
	End      int    `json:"end"       yaml:"end"`
}

// IsZero reports whether the location is unset.
func (loc Location) IsZero() bool {
	return loc.FilePath == "" && loc.Start == 0 && loc.End == 0
}

// Find returns the first node of root at the location, restricted to
// nodeTypes when given.
func (loc Location) Find(root *tree.Node, nodeTypes ...tree.Type) *tree.Node {
	if loc.IsZero() {
		return nil
	}

	return tree.FindByLocation(root, loc.Start, loc.End, nodeTypes...)
}

// Doc is a documentation comment.
type Doc struct {
	Location Location `json:"location" yaml:"location"`
	Text     string   `json:"text"     yaml:"text"`
}

// Declaration identifies an operation or attribute declaration.
type Declaration struct {
	Name      string   `json:"name"                    yaml:"name"`
	ClassName string   `json:"class_name"              yaml:"class_name"`
	Location  Location `json:"location"                yaml:"location"`
	// TypeLocation is the declared type of an attribute. Zero for operations.
	TypeLocation Location `json:"type_location,omitzero" yaml:"type_location,omitempty"`
	Doc          *Doc     `json:"doc,omitempty"          yaml:"doc,omitempty"`
}

// StatementMapping pairs a statement or expression before with its
// counterpart after.
type StatementMapping struct {
	Before Location `json:"before" yaml:"before"`
	After  Location `json:"after"  yaml:"after"`
	// Expression marks fragments that are expressions rather than whole
	// statements. They are resolved after every other matcher has run.
	Expression bool `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// BodyMapper is the statement-level correspondence between two operation
// bodies.
type BodyMapper struct {
	Before   Declaration        `json:"before"   yaml:"before"`
	After    Declaration        `json:"after"    yaml:"after"`
	Mappings []StatementMapping `json:"mappings" yaml:"mappings"`
}

// FilePair returns the file pair of the two operations, which may differ
// from the file pair of the hint that carries the mapper.
func (mapper *BodyMapper) FilePair() diff.FilePair {
	return diff.FilePair{Src: mapper.Before.Location.FilePath, Dst: mapper.After.Location.FilePath}
}

// Kind is the refactoring type of a hint.
type Kind string

// Hint kinds the matchers react to. Any other kind is ignored.
const (
	MoveOperation           Kind = "move-operation"
	MoveAttribute           Kind = "move-attribute"
	ExtractOperation        Kind = "extract-operation"
	ExtractAndMoveOperation Kind = "extract-and-move-operation"
	MoveAndInlineOperation  Kind = "move-and-inline-operation"
	RenameOperation         Kind = "rename-operation"
)

// ClassPair identifies the original and next class of one class diff by
// qualified name.
type ClassPair struct {
	Original string `json:"original" yaml:"original"`
	Next     string `json:"next"     yaml:"next"`
}

// Hint is one refactoring detected by the semantic engine.
type Hint struct {
	Kind          Kind        `json:"kind"                  yaml:"kind"`
	ClassesBefore []string    `json:"classes_before"        yaml:"classes_before"`
	ClassesAfter  []string    `json:"classes_after"         yaml:"classes_after"`
	Before        Declaration `json:"before"                yaml:"before"`
	After         Declaration `json:"after"                 yaml:"after"`
	BodyMapper    *BodyMapper `json:"body_mapper,omitempty" yaml:"body_mapper,omitempty"`
}

// Involves reports whether the class pair takes part in the hint: its
// original class is among the classes before or its next class among the
// classes after.
func (hint *Hint) Involves(pair ClassPair) bool {
	return slices.Contains(hint.ClassesBefore, pair.Original) || slices.Contains(hint.ClassesAfter, pair.Next)
}

// FilePair returns the file pair of the hint's declarations.
func (hint *Hint) FilePair() diff.FilePair {
	return diff.FilePair{Src: hint.Before.Location.FilePath, Dst: hint.After.Location.FilePath}
}

// MovedAttribute is an attribute removed from one class and added to another.
type MovedAttribute struct {
	SourceClass string      `json:"source_class" yaml:"source_class"`
	TargetClass string      `json:"target_class" yaml:"target_class"`
	Before      Declaration `json:"before"       yaml:"before"`
	After       Declaration `json:"after"        yaml:"after"`
	// Initializer holds the correspondence of the attribute initializers,
	// when both sides have one.
	Initializer *BodyMapper `json:"initializer,omitempty" yaml:"initializer,omitempty"`
}

// ModelDiff is the project-wide output of the semantic engine.
type ModelDiff struct {
	Before          *diff.Index
	After           *diff.Index
	Hints           []*Hint
	MovedAttributes []*MovedAttribute
}

// Roots resolves the whole-file trees of a file pair. Both sides must
// resolve.
func (model *ModelDiff) Roots(pair diff.FilePair) (*tree.Node, *tree.Node, bool) {
	if model == nil {
		return nil, nil, false
	}

	src, srcOK := model.Before.Root(pair.Src)
	dst, dstOK := model.After.Root(pair.Dst)

	return src, dst, srcOK && dstOK
}

// IsExtracted reports whether decl is the product of an extract refactoring.
func (model *ModelDiff) IsExtracted(decl Declaration) bool {
	if model == nil {
		return false
	}

	for _, hint := range model.Hints {
		if hint.Kind == ExtractOperation && hint.After.Location == decl.Location {
			return true
		}
	}

	return false
}
