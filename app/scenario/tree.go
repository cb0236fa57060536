package scenario

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	routeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
)

// FragmentNode is one node of a rendered AppSites directory tree.
type FragmentNode struct {
	Name     string
	Path     string
	IsFile   bool
	Children map[string]*FragmentNode
}

func (n *FragmentNode) addChild(name string, isFile bool) *FragmentNode {
	if n.Children == nil {
		n.Children = make(map[string]*FragmentNode)
	}
	if child, ok := n.Children[name]; ok {
		return child
	}
	child := &FragmentNode{Name: name, IsFile: isFile}
	n.Children[name] = child
	return child
}

// BuildFragmentTree builds a directory tree from a flat list of
// fragment file paths, for inspecting a site's layout before running
// a comparison pass.
func BuildFragmentTree(paths []string) *FragmentNode {
	root := &FragmentNode{Children: make(map[string]*FragmentNode)}
	for _, fullPath := range paths {
		parts := strings.Split(filepath.ToSlash(fullPath), "/")
		current := root
		for i, part := range parts {
			isFile := i == len(parts)-1
			child := current.addChild(part, isFile)
			if isFile {
				child.Path = fullPath
			}
			current = child
		}
	}
	return root
}

// RenderFragmentTree renders the tree using branch characters, the
// same style the original scaffolding tool used for its file trees.
func RenderFragmentTree(node *FragmentNode, prefix string, isLast, skipSelf bool) string {
	var line string
	if !skipSelf && node.Name != "" {
		branch := routeStyle.Render("+-")
		if isLast {
			branch = routeStyle.Render("`-")
		}
		icon := "html"
		if len(node.Children) > 0 {
			icon = "dir"
		}
		line = fmt.Sprintf("%s%s %s\n", prefix, branch, textStyle.Render(fmt.Sprintf("[%s] %s", icon, node.Name)))
	}

	newPrefix := prefix
	if node.Name != "" {
		if isLast {
			newPrefix += "   "
		} else {
			newPrefix += routeStyle.Render("|") + "  "
		}
	}

	var names []string
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	result := line
	for i, name := range names {
		child := node.Children[name]
		result += RenderFragmentTree(child, newPrefix, i == len(names)-1, false)
	}
	return result
}
