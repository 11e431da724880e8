package matchers

import (
	"github.com/Sumatoshi-tech/astmove/pkg/mapping"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// PackageDeclarationMatcher maps the package declarations of two file trees.
type PackageDeclarationMatcher struct {
	rec recorder
}

// NewPackageDeclarationMatcher creates a package declaration matcher.
func NewPackageDeclarationMatcher(opts ...Option) *PackageDeclarationMatcher {
	s := newSettings(opts)

	return &PackageDeclarationMatcher{rec: recorder{logger: s.logger}}
}

// Match maps the package declaration children of the two roots and their
// subtrees when both exist and are isomorphic.
func (matcher *PackageDeclarationMatcher) Match(src, dst *tree.Node, store *mapping.Store) {
	srcPackage := tree.ChildOfType(src, store.SrcLang().PackageDeclaration)
	dstPackage := tree.ChildOfType(dst, store.DstLang().PackageDeclaration)

	if srcPackage == nil || dstPackage == nil {
		return
	}

	matcher.rec.addRecursively(store, srcPackage, dstPackage)
}
