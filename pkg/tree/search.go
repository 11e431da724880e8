package tree

// FindByLocation returns the first node in pre-order whose range is exactly
// [start, end) and, when nodeTypes is non-empty, whose type is one of them.
// Subtrees whose range does not contain the location are not visited.
// Returns nil on a miss.
func FindByLocation(root *Node, start, end int, nodeTypes ...Type) *Node {
	if root == nil {
		return nil
	}

	want := Range{Start: start, End: end}
	stack := []*Node{root}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !curr.Pos.Contains(want) {
			continue
		}

		if curr.Pos == want && (len(nodeTypes) == 0 || curr.HasAnyType(nodeTypes...)) {
			return curr
		}

		for idx := len(curr.Children) - 1; idx >= 0; idx-- {
			stack = append(stack, curr.Children[idx])
		}
	}

	return nil
}

// ParentOfType walks strictly upward from n and returns the nearest ancestor
// whose type is one of nodeTypes, or nil.
func ParentOfType(n *Node, nodeTypes ...Type) *Node {
	if n == nil {
		return nil
	}

	for curr := n.parent; curr != nil; curr = curr.parent {
		if curr.HasAnyType(nodeTypes...) {
			return curr
		}
	}

	return nil
}

// SelfOrParentOfType returns n when its type is one of nodeTypes, otherwise
// the result of ParentOfType.
func SelfOrParentOfType(n *Node, nodeTypes ...Type) *Node {
	if n == nil {
		return nil
	}

	if n.HasAnyType(nodeTypes...) {
		return n
	}

	return ParentOfType(n, nodeTypes...)
}

// ChildOfType returns the first direct child of n with the given type.
func ChildOfType(n *Node, nodeType Type) *Node {
	if n == nil || nodeType == "" {
		return nil
	}

	for _, child := range n.Children {
		if child.Type == nodeType {
			return child
		}
	}

	return nil
}

// ChildrenOfType returns every direct child of n with the given type.
func ChildrenOfType(n *Node, nodeType Type) []*Node {
	if n == nil || nodeType == "" {
		return nil
	}

	var result []*Node

	for _, child := range n.Children {
		if child.Type == nodeType {
			result = append(result, child)
		}
	}

	return result
}

// Leaves returns the leaves of the subtree in pre-order.
func Leaves(n *Node) []*Node {
	if n == nil {
		return nil
	}

	return n.Find(func(curr *Node) bool { return curr.IsLeaf() })
}
