package analysis

// TreeNode is one function in a call tree rooted at a query root.
type TreeNode struct {
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children,omitempty"`
	// Recursive marks a call back into a function already on the current path.
	Recursive bool `json:"recursive,omitempty"`
	// Repeated marks a function expanded elsewhere in the tree.
	Repeated bool `json:"repeated,omitempty"`
	// Truncated marks a node whose callees were cut off by the depth limit.
	Truncated bool `json:"truncated,omitempty"`
}

// CallTree expands the callees of root depth-first up to maxDepth levels.
// Each function is expanded once; later occurrences are marked Repeated and
// back edges into the current path are marked Recursive.
func (r *Result) CallTree(root string, maxDepth int) *TreeNode {
	expanded := make(map[string]bool)
	onPath := make(map[string]bool)

	var walk func(name string, depth int) *TreeNode
	walk = func(name string, depth int) *TreeNode {
		node := &TreeNode{Name: name}
		switch {
		case onPath[name]:
			node.Recursive = true
			return node
		case expanded[name]:
			node.Repeated = len(r.Graph.CalleesOf(name)) > 0
			return node
		}

		callees := r.Graph.CalleesOf(name)
		if depth >= maxDepth {
			node.Truncated = len(callees) > 0
			return node
		}

		expanded[name] = true
		onPath[name] = true
		for _, callee := range callees {
			node.Children = append(node.Children, walk(callee, depth+1))
		}
		onPath[name] = false
		return node
	}

	return walk(root, 0)
}
