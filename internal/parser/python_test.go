package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonParser_Parse(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	src := []byte("import os\n\ndef test_one():\n    pass\n\nclass TestGroup:\n    def test_two(self):\n        pass\n")
	tree, err := p.Parse(context.Background(), src)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "module", root.Type())
	require.Equal(t, 3, int(root.ChildCount()))

	kinds := []string{root.Child(0).Type(), root.Child(1).Type(), root.Child(2).Type()}
	assert.Equal(t, []string{"import_statement", "function_definition", "class_definition"}, kinds)

	name := root.Child(1).ChildByFieldName("name")
	require.NotNil(t, name)
	assert.Equal(t, "test_one", name.Content(src))
}

func TestPythonParser_Reuse(t *testing.T) {
	p := NewPythonParser()
	defer p.Close()

	for _, src := range []string{"x = 1\n", "def f():\n    return 2\n", ""} {
		tree, err := p.Parse(context.Background(), []byte(src))
		require.NoError(t, err)
		assert.Equal(t, "module", tree.RootNode().Type())
		tree.Close()
	}
}
