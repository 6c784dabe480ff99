package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"testsearch/internal/domain"
	"testsearch/internal/storage"
)

// Output formats accepted by Formatter.Encode
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// Encode writes v as JSON or YAML
func (f *Formatter) Encode(v any, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(f.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}

// PrintHistory prints the selections remembered for one directory, most recent last
func (f *Formatter) PrintHistory(dir string, history []string) {
	if len(history) == 0 {
		fmt.Fprintln(f.out, color.YellowString("No test history for %s", dir))
		return
	}

	fmt.Fprintln(f.out, color.CyanString(dir))
	for i, id := range history {
		connector := "├── "
		if i == len(history)-1 {
			connector = "└── "
		}
		fmt.Fprintf(f.out, "%s%s\n", connector, color.YellowString(id))
	}
}

// PrintDocument prints every directory of the cache, sorted by path
func (f *Formatter) PrintDocument(doc storage.Document) {
	if len(doc.TestHistory) == 0 {
		fmt.Fprintln(f.out, color.YellowString("Cache is empty"))
		return
	}

	dirs := make([]string, 0, len(doc.TestHistory))
	for dir := range doc.TestHistory {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for i, dir := range dirs {
		f.PrintHistory(dir, doc.TestHistory[dir])
		if i < len(dirs)-1 {
			fmt.Fprintln(f.out)
		}
	}
}

// TreeNode groups identifiers under their file and class
type TreeNode struct {
	Name     string
	Children []*TreeNode
	index    map[string]*TreeNode
}

func (n *TreeNode) child(name string) *TreeNode {
	if n.index == nil {
		n.index = make(map[string]*TreeNode)
	}
	if c, ok := n.index[name]; ok {
		return c
	}
	c := &TreeNode{Name: name}
	n.index[name] = c
	n.Children = append(n.Children, c)
	return c
}

// BuildTree nests node identifiers as file -> class -> test, keeping
// first-seen order
func BuildTree(ids []string) *TreeNode {
	root := &TreeNode{}
	for _, id := range ids {
		current := root
		for _, part := range strings.Split(id, domain.NodeIDSeparator) {
			current = current.child(part)
		}
	}
	return root
}

// PrintTestTree prints identifiers grouped by file and class
func (f *Formatter) PrintTestTree(ids []string) {
	root := BuildTree(ids)
	fmt.Fprintln(f.out, color.GreenString("Found %d test(s) in %d file(s):", len(ids), len(root.Children)))
	for i, file := range root.Children {
		isLastFile := i == len(root.Children)-1
		connector := "├── "
		if isLastFile {
			connector = "└── "
		}
		fmt.Fprintf(f.out, "%s%s\n", connector, color.CyanString(file.Name))

		prefix := "│   "
		if isLastFile {
			prefix = "    "
		}
		f.printTreeNode(file, prefix)
	}
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	for i, child := range node.Children {
		isLast := i == len(node.Children)-1
		connector := "├── "
		next := prefix + "│   "
		if isLast {
			connector = "└── "
			next = prefix + "    "
		}

		name := color.YellowString(child.Name)
		if len(child.Children) > 0 {
			name = color.MagentaString(child.Name)
		}
		fmt.Fprintf(f.out, "%s%s%s\n", prefix, connector, name)
		f.printTreeNode(child, next)
	}
}
