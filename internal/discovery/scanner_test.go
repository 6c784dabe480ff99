package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testsearch/internal/logging"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, file := range files {
		fullPath := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte("def test_x():\n    pass\n"), 0644))
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"tests/unit/test_user.py",
		"tests/unit/test_payment.py",
		"tests/integration/test_order.py",
		"tests/integration/conftest.py",
		"tests/helpers.py",
		"tests/user_test.py",
		".venv/lib/test_vendored.py",
		"node_modules/pkg/test_js.py",
		"__pycache__/test_cached.py",
	})

	scanner := NewScanner("test_*.py", []string{"node_modules", "__pycache__"})

	t.Run("scans test files correctly", func(t *testing.T) {
		results, err := scanner.Scan(context.Background(), tmpDir)
		require.NoError(t, err)

		expected := []string{
			filepath.Join(tmpDir, "tests/integration/test_order.py"),
			filepath.Join(tmpDir, "tests/unit/test_payment.py"),
			filepath.Join(tmpDir, "tests/unit/test_user.py"),
		}
		sort.Strings(results)
		assert.Equal(t, expected, results)
	})

	t.Run("returns error for non-existent directory", func(t *testing.T) {
		_, err := scanner.Scan(context.Background(), "/non/existent/path")
		assert.Error(t, err)
	})

	t.Run("returns a file root as-is", func(t *testing.T) {
		file := filepath.Join(tmpDir, "tests/unit/test_user.py")
		results, err := scanner.Scan(context.Background(), file)
		require.NoError(t, err)
		assert.Equal(t, []string{file}, results)
	})
}

func TestScanner_FindDedupesRoots(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a/test_one.py", "b/test_two.py"})

	scanner := NewScanner("test_*.py", nil)
	results, err := scanner.Find(context.Background(), []string{
		filepath.Join(tmpDir, "a"),
		tmpDir,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "a/test_one.py"), results[0])
	assert.Len(t, results, 2)
}

func TestScanner_Matches(t *testing.T) {
	scanner := NewScanner("test_*.py", nil)
	assert.True(t, scanner.Matches("test_api.py"))
	assert.False(t, scanner.Matches("api_test.py"))
	assert.False(t, scanner.Matches("test_api.pyc"))
}

func TestFdFinder_Unavailable(t *testing.T) {
	finder := NewFdFinder("definitely-not-a-real-fd-binary", "test_*.py")
	_, err := finder.Find(context.Background(), []string{"."})
	assert.ErrorIs(t, err, ErrFinderUnavailable)
}

func TestFdFinder_Args(t *testing.T) {
	finder := NewFdFinder("fd", "test_*.py")
	assert.Equal(t, []string{"-0", "--type", "f", "--glob", "test_*.py", "tests"}, finder.Args("tests"))
}

func TestSplitNul(t *testing.T) {
	out := []byte("./tests/test_a.py\x00tests/b/test_b.py\x00\x00")
	assert.Equal(t, []string{"tests/test_a.py", "tests/b/test_b.py"}, splitNul(out))
}

func TestFallbackFinder(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"test_only.py"})

	finder := NewFallbackFinder(
		NewFdFinder("definitely-not-a-real-fd-binary", "test_*.py"),
		NewScanner("test_*.py", nil),
		logging.Discard(),
	)
	results, err := finder.Find(context.Background(), []string{tmpDir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "test_only.py")}, results)
}
