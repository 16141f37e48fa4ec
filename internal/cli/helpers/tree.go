package helpers

import (
	"fmt"
	"strings"

	"github.com/coral-mesh/callgraph/internal/analysis"
)

// RenderCallTree renders a call tree in ASCII art format.
func RenderCallTree(root *analysis.TreeNode) string {
	if root == nil {
		return "No call tree data available.\n"
	}

	var buf strings.Builder
	buf.WriteString(root.Name + marker(root) + "\n")
	for i, child := range root.Children {
		renderTreeNode(&buf, child, "", i == len(root.Children)-1)
	}
	return buf.String()
}

func renderTreeNode(buf *strings.Builder, node *analysis.TreeNode, prefix string, isLast bool) {
	connector := "├─"
	if isLast {
		connector = "└─"
	}
	fmt.Fprintf(buf, "%s%s %s%s\n", prefix, connector, node.Name, marker(node))

	childPrefix := prefix
	if isLast {
		childPrefix += "  "
	} else {
		childPrefix += "│ "
	}
	for i, child := range node.Children {
		renderTreeNode(buf, child, childPrefix, i == len(node.Children)-1)
	}
}

func marker(node *analysis.TreeNode) string {
	switch {
	case node.Recursive:
		return " ↺ recursive"
	case node.Repeated:
		return " (see above)"
	case node.Truncated:
		return " …"
	}
	return ""
}
