package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"testsearch/internal/domain"
)

// Syntax node kinds the visitor dispatches on
const (
	kindFunction  = "function_definition"
	kindClass     = "class_definition"
	kindDecorated = "decorated_definition"
	kindBlock     = "block"
	kindDecorator = "decorator"
	kindComment   = "comment"
	kindIdent     = "identifier"
)

// ErrMalformedDefinition is returned for definitions missing their name node
var ErrMalformedDefinition = errors.New("malformed definition")

// moduleInertKinds are module-level statements that cannot define tests
var moduleInertKinds = map[string]bool{
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"expression_statement":    true,
	"comment":                 true,
	"if_statement":            true,
	"try_statement":           true,
	"assert_statement":        true,
}

// classHeaderInertKinds follow the class name and precede the body
var classHeaderInertKinds = map[string]bool{
	":":             true,
	"argument_list": true,
	"comment":       true,
}

// classBodyInertKinds are statements in a class body that cannot define tests
var classBodyInertKinds = map[string]bool{
	"expression_statement": true,
	"comment":              true,
	"pass_statement":       true,
}

// Visitor walks one syntax tree and collects test records in source order.
//
// Only module -> class -> function nesting is followed. Unknown module-level
// statements abort the visit; unknown statements inside definitions are
// skipped and logged at debug level.
type Visitor struct {
	file    string
	src     []byte
	logger  *slog.Logger
	records []domain.TestRecord
}

// Visit returns the test records defined under root, in depth-first pre-order
func Visit(file string, src []byte, root *sitter.Node, logger *slog.Logger) ([]domain.TestRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Visitor{
		file:    file,
		src:     src,
		logger:  logger,
		records: make([]domain.TestRecord, 0),
	}
	if err := v.visitModule(root); err != nil {
		return nil, err
	}
	return v.records, nil
}

func (v *Visitor) visitModule(root *sitter.Node) error {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		var err error
		switch kind := child.Type(); kind {
		case kindDecorated:
			err = v.visitDecorated(child, "")
		case kindClass:
			err = v.visitClass(child)
		case kindFunction:
			err = v.visitFunction(child, "")
		default:
			if moduleInertKinds[kind] {
				continue
			}
			return v.unsupported(child)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// visitDecorated unwraps a decorated definition. Functions keep the current
// class context; a decorated class starts a fresh context of its own.
func (v *Visitor) visitDecorated(node *sitter.Node, className string) error {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		var err error
		switch child.Type() {
		case kindFunction:
			err = v.visitFunction(child, className)
		case kindClass:
			err = v.visitClass(child)
		case kindDecorator, kindComment:
			continue
		default:
			v.skip(child, "decorated definition")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) visitClass(node *sitter.Node) error {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return v.malformed(node, "no class name found")
	}
	if nameNode.Type() != kindIdent {
		return v.malformed(node, fmt.Sprintf("invalid class name node type, expected %q, got %q", kindIdent, nameNode.Type()))
	}

	className := nameNode.Content(v.src)
	if !domain.IsTestClassName(className) {
		return nil
	}

	// children 0 and 1 are the "class" keyword and the name
	for i := 2; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch kind := child.Type(); {
		case kind == kindBlock:
			if err := v.visitClassBody(child, className); err != nil {
				return err
			}
		case classHeaderInertKinds[kind]:
			continue
		default:
			v.skip(child, "class definition")
		}
	}
	return nil
}

func (v *Visitor) visitClassBody(block *sitter.Node, className string) error {
	for i := 0; i < int(block.ChildCount()); i++ {
		child := block.Child(i)
		var err error
		switch kind := child.Type(); {
		case kind == kindDecorated:
			err = v.visitDecorated(child, className)
		case kind == kindFunction:
			err = v.visitFunction(child, className)
		case classBodyInertKinds[kind]:
			continue
		default:
			v.skip(child, "class body")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) visitFunction(node *sitter.Node, className string) error {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return v.malformed(node, "no identifier node found")
	}

	name := nameNode.Content(v.src)
	if !domain.IsTestFunctionName(name) {
		return nil
	}

	v.records = append(v.records, domain.TestRecord{
		Name:      name,
		File:      v.file,
		ClassName: className,
	})
	return nil
}

func (v *Visitor) skip(node *sitter.Node, context string) {
	v.logger.Debug("skipping unhandled node",
		"file", v.file,
		"context", context,
		"kind", node.Type(),
		"line", int(node.StartPoint().Row)+1)
}

func (v *Visitor) unsupported(node *sitter.Node) error {
	return &domain.UnsupportedConstructError{
		File:    v.file,
		Kind:    node.Type(),
		Line:    int(node.StartPoint().Row) + 1,
		Snippet: snippet(node.Content(v.src)),
	}
}

func (v *Visitor) malformed(node *sitter.Node, reason string) error {
	return fmt.Errorf("%s:%d: %w: %s", v.file, int(node.StartPoint().Row)+1, ErrMalformedDefinition, reason)
}

// snippet returns the first line of a node's text, shortened for diagnostics
func snippet(text string) string {
	const maxLen = 60
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if len(text) > maxLen {
		text = text[:maxLen] + "..."
	}
	return text
}
