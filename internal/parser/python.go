package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrEmptyTree is returned when tree-sitter produces no root node
var ErrEmptyTree = errors.New("tree-sitter returned an empty tree")

// PythonParser parses Python sources with the tree-sitter grammar.
//
// A PythonParser wraps a single tree-sitter parser and is NOT safe for
// concurrent use; every worker owns its own instance.
type PythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a parser configured for the Python grammar
func NewPythonParser() *PythonParser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonParser{parser: p}
}

// Parse builds a syntax tree for content. The caller closes the returned tree.
func (p *PythonParser) Parse(ctx context.Context, content []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, ErrEmptyTree
	}
	return tree, nil
}

// Close releases the underlying tree-sitter parser
func (p *PythonParser) Close() {
	p.parser.Close()
}
