package parser

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser turns source bytes into a syntax tree
type Parser interface {
	Parse(ctx context.Context, content []byte) (*sitter.Tree, error)
	Close()
}
