package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testsearch/internal/domain"
	"testsearch/internal/logging"
)

func extractIDs(t *testing.T, file, src string) []string {
	t.Helper()
	extractor := NewPythonExtractor(logging.Discard())
	defer extractor.Close()

	records, err := extractor.ExtractSource(context.Background(), file, []byte(src))
	require.NoError(t, err)
	return domain.NodeIDs(records)
}

func TestVisitor_NamingRules(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name: "module test, test class and non matching class",
			src: `def test_one():
    pass


class TestGroup:
    def test_two(self):
        pass


class Other:
    def test_three(self):
        pass
`,
			expected: []string{"test_a.py::test_one", "test_a.py::TestGroup::test_two"},
		},
		{
			name: "function without test prefix is excluded",
			src: `def helper_test():
    pass

def test_real():
    pass
`,
			expected: []string{"test_a.py::test_real"},
		},
		{
			name: "test inside non matching class is excluded",
			src: `class Helpers:
    def test_foo(self):
        pass
`,
			expected: []string{},
		},
		{
			name: "decorated test class is included",
			src: `import pytest

@pytest.mark.usefixtures("db")
class TestThing:
    def test_foo(self):
        pass
`,
			expected: []string{"test_a.py::TestThing::test_foo"},
		},
		{
			name: "decorated method keeps class context",
			src: `class TestA:
    @pytest.mark.slow
    @pytest.mark.parametrize("x", [1, 2])
    def test_slow(self, x):
        pass

    def helper(self):
        pass
`,
			expected: []string{"test_a.py::TestA::test_slow"},
		},
		{
			name: "decorated module function has no class",
			src: `@pytest.fixture
def test_fixture_like():
    pass
`,
			expected: []string{"test_a.py::test_fixture_like"},
		},
		{
			name: "decorated nested class replaces the outer context",
			src: `class TestOuter:
    @dataclass
    class TestInner:
        def test_inner(self):
            pass

    def test_outer(self):
        pass
`,
			expected: []string{"test_a.py::TestInner::test_inner", "test_a.py::TestOuter::test_outer"},
		},
		{
			name: "plain nested class is not visited",
			src: `class TestOuter:
    class TestNested:
        def test_hidden(self):
            pass

    def test_visible(self):
        pass
`,
			expected: []string{"test_a.py::TestOuter::test_visible"},
		},
		{
			name: "functions nested in functions are not visited",
			src: `def test_outer():
    def test_inner():
        pass
    test_inner()
`,
			expected: []string{"test_a.py::test_outer"},
		},
		{
			name: "async tests are found",
			src: `async def test_async():
    pass

class TestAsync:
    async def test_method(self):
        pass
`,
			expected: []string{"test_a.py::test_async", "test_a.py::TestAsync::test_method"},
		},
		{
			name: "matching class without tests yields nothing",
			src: `class TestEmpty:
    """Nothing here."""
    value = 1
    pass
`,
			expected: []string{},
		},
		{
			name: "same named classes are independent",
			src: `class TestDup:
    def test_first(self):
        pass

def test_between():
    pass

class TestDup:
    def test_second(self):
        pass
`,
			expected: []string{
				"test_a.py::TestDup::test_first",
				"test_a.py::test_between",
				"test_a.py::TestDup::test_second",
			},
		},
		{
			name: "class with bases and comments",
			src: `class TestBase(unittest.TestCase):  # base
    # leading comment
    def test_inherits(self):
        pass
`,
			expected: []string{"test_a.py::TestBase::test_inherits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractIDs(t, "test_a.py", tt.src))
		})
	}
}

func TestVisitor_InertModuleStatements(t *testing.T) {
	src := `"""Module docstring."""
from __future__ import annotations

import os
from typing import Any

# a comment
CONSTANT = 1

if os.environ.get("CI"):
    def test_conditional():
        pass

try:
    import numpy
except ImportError:
    numpy = None

assert CONSTANT == 1


def test_after_everything():
    pass
`
	assert.Equal(t, []string{"test_b.py::test_after_everything"}, extractIDs(t, "test_b.py", src))
}

func TestVisitor_SourceOrder(t *testing.T) {
	src := `def test_1():
    pass

class TestA:
    def test_2(self):
        pass

    @decorator
    def test_3(self):
        pass

def test_4():
    pass

@decorator
class TestB:
    def test_5(self):
        pass
`
	expected := []string{
		"t.py::test_1",
		"t.py::TestA::test_2",
		"t.py::TestA::test_3",
		"t.py::test_4",
		"t.py::TestB::test_5",
	}
	assert.Equal(t, expected, extractIDs(t, "t.py", src))
}

func TestVisitor_UnsupportedModuleConstruct(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind string
	}{
		{
			name: "with statement",
			src:  "def test_ok():\n    pass\n\nwith open('x') as f:\n    pass\n",
			kind: "with_statement",
		},
		{
			name: "for loop",
			src:  "for i in range(3):\n    pass\n",
			kind: "for_statement",
		},
	}

	extractor := NewPythonExtractor(logging.Discard())
	defer extractor.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := extractor.ExtractSource(context.Background(), "test_bad.py", []byte(tt.src))
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, domain.ErrUnsupportedConstruct))

			var construct *domain.UnsupportedConstructError
			require.True(t, errors.As(err, &construct))
			assert.Equal(t, tt.kind, construct.Kind)
			assert.Equal(t, "test_bad.py", construct.File)
		})
	}
}

func TestExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_file.py")
	require.NoError(t, os.WriteFile(path, []byte("def test_disk():\n    pass\n"), 0644))

	extractor := NewPythonExtractor(logging.Discard())
	defer extractor.Close()

	t.Run("reads file from disk", func(t *testing.T) {
		records, err := extractor.Extract(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, path+"::test_disk", records[0].NodeID())
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := extractor.Extract(context.Background(), filepath.Join(dir, "missing.py"))
		assert.Error(t, err)
	})
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "with open('x') as f:", snippet("with open('x') as f:\n    pass"))
	long := "x = '" + strings.Repeat("a", 80) + "'"
	assert.Len(t, snippet(long), 63)
}
