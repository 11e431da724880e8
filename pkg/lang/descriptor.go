// Package lang translates abstract construct names ("package declaration",
// "method declaration", ...) into the node type labels of a concrete grammar.
package lang

import (
	"path/filepath"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

// Language names as reported by enry.
const (
	NameJava   = "Java"
	NameKotlin = "Kotlin"
	NamePython = "Python"
	NameGo     = "Go"
)

// Descriptor holds the node type labels of one grammar.
// An empty label means the construct does not exist in the language.
type Descriptor struct {
	Name                 string
	PackageDeclaration   tree.Type
	TypeDeclaration      tree.Type
	EnumDeclaration      tree.Type
	RecordDeclaration    tree.Type
	InterfaceDeclaration tree.Type
	MethodDeclaration    tree.Type
	ConstructorDecl      tree.Type
	FieldDeclaration     tree.Type
	EnumConstant         tree.Type
	VariableDeclarator   tree.Type
	Modifiers            tree.Type
	Modifier             tree.Type
	DocComment           tree.Type
	SimpleName           tree.Type
	Block                tree.Type
	// DeclarationStatement wraps a type declaration used as a statement.
	DeclarationStatement tree.Type
	// TypeKeywords are the keyword leaves naming the kind of a type
	// declaration.
	TypeKeywords []tree.Type
}

// Java is the default descriptor.
//
//nolint:gochecknoglobals // Immutable language tables.
var Java = &Descriptor{
	Name:                 NameJava,
	PackageDeclaration:   "package_declaration",
	TypeDeclaration:      "class_declaration",
	EnumDeclaration:      "enum_declaration",
	RecordDeclaration:    "record_declaration",
	InterfaceDeclaration: "interface_declaration",
	MethodDeclaration:    "method_declaration",
	ConstructorDecl:      "constructor_declaration",
	FieldDeclaration:     "field_declaration",
	EnumConstant:         "enum_constant",
	VariableDeclarator:   "variable_declarator",
	Modifiers:            "modifiers",
	DocComment:           "block_comment",
	SimpleName:           "identifier",
	Block:                "block",
	TypeKeywords:         []tree.Type{"class", "interface", "enum", "record"},
}

// Kotlin descriptor. Enums and records are class declarations in the grammar.
//
//nolint:gochecknoglobals // Immutable language tables.
var Kotlin = &Descriptor{
	Name:                 NameKotlin,
	PackageDeclaration:   "package_header",
	TypeDeclaration:      "class_declaration",
	EnumDeclaration:      "class_declaration",
	RecordDeclaration:    "class_declaration",
	InterfaceDeclaration: "class_declaration",
	MethodDeclaration:    "function_declaration",
	ConstructorDecl:      "secondary_constructor",
	FieldDeclaration:     "property_declaration",
	EnumConstant:         "enum_entry",
	VariableDeclarator:   "variable_declaration",
	Modifiers:            "modifiers",
	Modifier:             "visibility_modifier",
	DocComment:           "multiline_comment",
	SimpleName:           "simple_identifier",
	Block:                "function_body",
	TypeKeywords:         []tree.Type{"class", "interface"},
}

// Python descriptor. Python has no package declaration, field declaration
// or modifiers.
//
//nolint:gochecknoglobals // Immutable language tables.
var Python = &Descriptor{
	Name:                 NamePython,
	TypeDeclaration:      "class_definition",
	EnumDeclaration:      "class_definition",
	RecordDeclaration:    "class_definition",
	InterfaceDeclaration: "class_definition",
	MethodDeclaration:    "function_definition",
	DocComment:           "string",
	SimpleName:           "identifier",
	Block:                "block",
	DeclarationStatement: "decorated_definition",
	TypeKeywords:         []tree.Type{"class"},
}

// Golang descriptor.
//
//nolint:gochecknoglobals // Immutable language tables.
var Golang = &Descriptor{
	Name:                 NameGo,
	PackageDeclaration:   "package_clause",
	TypeDeclaration:      "type_declaration",
	InterfaceDeclaration: "interface_type",
	MethodDeclaration:    "method_declaration",
	ConstructorDecl:      "function_declaration",
	FieldDeclaration:     "field_declaration",
	VariableDeclarator:   "var_spec",
	DocComment:           "comment",
	SimpleName:           "identifier",
	Block:                "block",
	TypeKeywords:         []tree.Type{"type"},
}

//nolint:gochecknoglobals // Immutable language tables.
var byName = map[string]*Descriptor{
	NameJava:   Java,
	NameKotlin: Kotlin,
	NamePython: Python,
	NameGo:     Golang,
}

// ForPath selects the descriptor for a file path by extension.
// Unknown languages fall back to Java.
func ForPath(path string) *Descriptor {
	name, _ := enry.GetLanguageByExtension(filepath.Base(path))
	if desc, ok := byName[name]; ok {
		return desc
	}

	return Java
}

// ForName returns the descriptor registered under an enry language name.
func ForName(name string) (*Descriptor, bool) {
	desc, ok := byName[name]

	return desc, ok
}

// IsCrossLanguage reports whether two descriptors belong to different grammars.
func IsCrossLanguage(left, right *Descriptor) bool {
	return left.Name != right.Name
}

// TypeDeclarations returns the labels of every type-like declaration.
func (desc *Descriptor) TypeDeclarations() []tree.Type {
	return []tree.Type{desc.TypeDeclaration, desc.EnumDeclaration, desc.RecordDeclaration, desc.InterfaceDeclaration}
}

// IsTypeDeclaration reports whether nodeType is a type, enum, record or
// interface declaration.
func (desc *Descriptor) IsTypeDeclaration(nodeType tree.Type) bool {
	for _, candidate := range desc.TypeDeclarations() {
		if candidate != "" && candidate == nodeType {
			return true
		}
	}

	return false
}

// TypeKeyword returns the leaf of decl naming its declaration kind, such as
// "class" or "interface", or nil.
func (desc *Descriptor) TypeKeyword(decl *tree.Node) *tree.Node {
	if decl == nil {
		return nil
	}

	for _, child := range decl.Children {
		if child.IsLeaf() && child.HasAnyType(desc.TypeKeywords...) && string(child.Type) == child.Label {
			return child
		}
	}

	return nil
}

// MethodDeclarations returns the labels of method-like declarations.
func (desc *Descriptor) MethodDeclarations() []tree.Type {
	return []tree.Type{desc.MethodDeclaration, desc.ConstructorDecl}
}

// FieldDeclarations returns the labels of field-like declarations.
func (desc *Descriptor) FieldDeclarations() []tree.Type {
	return []tree.Type{desc.FieldDeclaration, desc.EnumConstant}
}
