package commands

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astmove/pkg/project"
	"github.com/Sumatoshi-tech/astmove/pkg/refactoring"
)

// ErrInvalidHints is returned when the hints file cannot be decoded.
var ErrInvalidHints = errors.New("invalid hints file")

// HintsFile is the output of a semantic refactoring detector. File paths in
// locations are the paths the match command indexes: the given file paths
// for two files, paths relative to each side for two directories. Classes
// are identified by their declared name.
type HintsFile struct {
	Hints           []*refactoring.Hint           `json:"hints,omitempty"            yaml:"hints,omitempty"`
	MovedAttributes []*refactoring.MovedAttribute `json:"moved_attributes,omitempty" yaml:"moved_attributes,omitempty"`
	Classes         []ClassHints                  `json:"classes,omitempty"          yaml:"classes,omitempty"`
}

// ClassHints carries the per-class details of one class pair.
type ClassHints struct {
	Original         string                    `json:"original"                    yaml:"original"`
	Next             string                    `json:"next"                        yaml:"next"`
	OriginalDoc      *refactoring.Doc          `json:"original_doc,omitempty"      yaml:"original_doc,omitempty"`
	NextDoc          *refactoring.Doc          `json:"next_doc,omitempty"          yaml:"next_doc,omitempty"`
	BodyMappers      []*refactoring.BodyMapper `json:"body_mappers,omitempty"      yaml:"body_mappers,omitempty"`
	CommonAttributes []project.AttributePair   `json:"common_attributes,omitempty" yaml:"common_attributes,omitempty"`
}

// loadHints decodes a YAML or JSON hints file. An empty path yields no hints.
func loadHints(path string) (*HintsFile, error) {
	hints := &HintsFile{}
	if path == "" {
		return hints, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hints: %w", err)
	}

	err = yaml.Unmarshal(content, hints)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidHints, path, err)
	}

	return hints, nil
}

// apply fills the model's refactorings and the per-class details of every
// class diff whose pair is listed.
func (hints *HintsFile) apply(model *refactoring.ModelDiff, classDiffs []project.ClassDiff) {
	model.Hints = hints.Hints
	model.MovedAttributes = hints.MovedAttributes

	for _, class := range hints.Classes {
		pair := refactoring.ClassPair{Original: class.Original, Next: class.Next}

		for idx := range classDiffs {
			classDiff := &classDiffs[idx]
			if classDiff.Pair != pair {
				continue
			}

			classDiff.OriginalDoc = class.OriginalDoc
			classDiff.NextDoc = class.NextDoc
			classDiff.BodyMappers = append(classDiff.BodyMappers, class.BodyMappers...)
			classDiff.CommonAttributes = append(classDiff.CommonAttributes, class.CommonAttributes...)
		}
	}
}
