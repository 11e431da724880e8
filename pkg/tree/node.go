// Package tree provides the syntax tree consumed by the matchers: typed and
// labeled nodes with ordered children, a parent back-reference and a byte
// offset range. Trees are immutable once built.
package tree

import (
	"hash"
	"hash/fnv"
	"iter"
	"strconv"
	"strings"
)

// Type is the grammar type label of a node (e.g. "method_declaration").
type Type string

// Range is a half-open byte offset range [Start, End) in the source file.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether other lies within r.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Node is a syntax tree node.
//
// Fields:
//
//	Type: grammar type label.
//	Label: literal value or name for leaves, empty otherwise.
//	Pos: source offset range.
//	Children: ordered child nodes.
//
// The parent reference is set when a node is attached with Add and is never
// changed afterwards.
type Node struct {
	Type     Type    `json:"type"`
	Label    string  `json:"label,omitempty"`
	Pos      Range   `json:"pos"`
	Children []*Node `json:"children,omitempty"`

	parent *Node
}

// New creates a detached node.
func New(nodeType Type, label string, start, end int) *Node {
	return &Node{
		Type:  nodeType,
		Label: label,
		Pos:   Range{Start: start, End: end},
	}
}

// Add attaches children to targetNode in order and returns targetNode.
// A child that already has a parent is left untouched and skipped.
func (targetNode *Node) Add(children ...*Node) *Node {
	for _, child := range children {
		if child == nil || child.parent != nil {
			continue
		}

		child.parent = targetNode
		targetNode.Children = append(targetNode.Children, child)
	}

	return targetNode
}

// Parent returns the parent node, or nil for a root.
func (targetNode *Node) Parent() *Node {
	if targetNode == nil {
		return nil
	}

	return targetNode.parent
}

// Root walks parent references up to the root of the tree.
func (targetNode *Node) Root() *Node {
	if targetNode == nil {
		return nil
	}

	curr := targetNode
	for curr.parent != nil {
		curr = curr.parent
	}

	return curr
}

// IsLeaf reports whether the node has no children.
func (targetNode *Node) IsLeaf() bool {
	return len(targetNode.Children) == 0
}

// IsAncestorOf reports whether targetNode is a strict ancestor of other.
func (targetNode *Node) IsAncestorOf(other *Node) bool {
	if targetNode == nil || other == nil {
		return false
	}

	for curr := other.parent; curr != nil; curr = curr.parent {
		if curr == targetNode {
			return true
		}
	}

	return false
}

// Depth returns the number of edges between targetNode and its root.
func (targetNode *Node) Depth() int {
	depth := 0

	for curr := targetNode.parent; curr != nil; curr = curr.parent {
		depth++
	}

	return depth
}

// PreOrder yields the subtree in pre-order (node, then children left-to-right).
func (targetNode *Node) PreOrder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if targetNode == nil {
			return
		}

		stack := []*Node{targetNode}

		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(curr) {
				return
			}

			for idx := len(curr.Children) - 1; idx >= 0; idx-- {
				stack = append(stack, curr.Children[idx])
			}
		}
	}
}

// Size returns the number of nodes in the subtree, root included.
func (targetNode *Node) Size() int {
	size := 0

	for range targetNode.PreOrder() {
		size++
	}

	return size
}

// Find returns all nodes in the subtree for which predicate holds, in pre-order.
func (targetNode *Node) Find(predicate func(*Node) bool) []*Node {
	var result []*Node

	for curr := range targetNode.PreOrder() {
		if predicate(curr) {
			result = append(result, curr)
		}
	}

	return result
}

// HasAnyType reports whether the node type is one of nodeTypes.
// Empty types never match.
func (targetNode *Node) HasAnyType(nodeTypes ...Type) bool {
	for _, nodeType := range nodeTypes {
		if nodeType != "" && targetNode.Type == nodeType {
			return true
		}
	}

	return false
}

// Hash returns a structural hash over type, label and children.
// Isomorphic subtrees hash equal.
func (targetNode *Node) Hash() uint64 {
	hasher := fnv.New64a()
	writeHash(targetNode, hasher)

	return hasher.Sum64()
}

func writeHash(targetNode *Node, hasher hash.Hash64) {
	_, _ = hasher.Write([]byte(targetNode.Type))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write([]byte(targetNode.Label))
	_, _ = hasher.Write([]byte("(" + strconv.Itoa(len(targetNode.Children))))

	for _, child := range targetNode.Children {
		writeHash(child, hasher)
	}

	_, _ = hasher.Write([]byte{')'})
}

// IsIsomorphicTo reports whether both subtrees have identical shape, types and labels.
func (targetNode *Node) IsIsomorphicTo(other *Node) bool {
	return compareShape(targetNode, other, true)
}

// IsIsoStructuralTo reports whether both subtrees have identical shape and
// types; labels are ignored.
func (targetNode *Node) IsIsoStructuralTo(other *Node) bool {
	return compareShape(targetNode, other, false)
}

func compareShape(left, right *Node, withLabels bool) bool {
	if left == nil || right == nil {
		return left == right
	}

	if left.Type != right.Type || len(left.Children) != len(right.Children) {
		return false
	}

	if withLabels && left.Label != right.Label {
		return false
	}

	for idx := range left.Children {
		if !compareShape(left.Children[idx], right.Children[idx], withLabels) {
			return false
		}
	}

	return true
}

// String returns a compact one-line representation of the node.
func (targetNode *Node) String() string {
	if targetNode == nil {
		return "nil"
	}

	var buf strings.Builder

	buf.WriteString(string(targetNode.Type))

	if targetNode.Label != "" {
		buf.WriteString(": ")
		buf.WriteString(targetNode.Label)
	}

	buf.WriteString(" [")
	buf.WriteString(strconv.Itoa(targetNode.Pos.Start))
	buf.WriteString(",")
	buf.WriteString(strconv.Itoa(targetNode.Pos.End))
	buf.WriteString(")")

	return buf.String()
}
