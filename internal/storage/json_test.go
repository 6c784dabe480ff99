package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testsearch/internal/logging"
)

func newTestCache(t *testing.T, limit int) *JSONCache {
	t.Helper()
	return NewJSONCache(filepath.Join(t.TempDir(), "testsearch", "cache.json"), limit, logging.Discard())
}

func TestJSONCache_StoreThenLookup(t *testing.T) {
	cache := newTestCache(t, 0)

	require.NoError(t, cache.Store("/work/project", "tests/test_a.py::test_one"))

	id, ok, err := cache.Lookup("/work/project")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tests/test_a.py::test_one", id)

	// a second instance sees the persisted value
	reopened := NewJSONCache(cache.Path(), 0, logging.Discard())
	id, ok, err = reopened.Lookup("/work/project")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tests/test_a.py::test_one", id)
}

func TestJSONCache_LookupMiss(t *testing.T) {
	cache := newTestCache(t, 0)

	id, ok, err := cache.Lookup("/nowhere")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)

	_, err = os.Stat(cache.Path())
	assert.True(t, os.IsNotExist(err), "lookup must not create the file")
}

func TestJSONCache_StoreMovesExistingEntryToEnd(t *testing.T) {
	cache := newTestCache(t, 0)
	dir := "/work/project"

	for _, id := range []string{"a::test_1", "b::test_2", "a::test_1"} {
		require.NoError(t, cache.Store(dir, id))
	}

	history, err := cache.History(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"b::test_2", "a::test_1"}, history)
}

func TestJSONCache_HistoryLimit(t *testing.T) {
	cache := newTestCache(t, 2)
	dir := "/work/project"

	for _, id := range []string{"x::test_1", "x::test_2", "x::test_3"} {
		require.NoError(t, cache.Store(dir, id))
	}

	history, err := cache.History(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"x::test_2", "x::test_3"}, history)
}

func TestJSONCache_Clear(t *testing.T) {
	cache := newTestCache(t, 0)
	require.NoError(t, cache.Store("/a", "a::test_a"))
	require.NoError(t, cache.Store("/b", "b::test_b"))

	require.NoError(t, cache.Clear("/a"))
	require.NoError(t, cache.Clear("/missing"))

	_, ok, err := cache.Lookup("/a")
	require.NoError(t, err)
	assert.False(t, ok)

	snapshot, err := cache.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"/b": {"b::test_b"}}, snapshot.TestHistory)

	require.NoError(t, cache.ClearAll())
	snapshot, err = cache.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snapshot.TestHistory)
}

func TestJSONCache_MalformedFileIsReinitialised(t *testing.T) {
	cache := newTestCache(t, 0)
	require.NoError(t, os.MkdirAll(filepath.Dir(cache.Path()), 0755))
	require.NoError(t, os.WriteFile(cache.Path(), []byte("{not json"), 0644))

	_, ok, err := cache.Lookup("/work")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Store("/work", "w::test_w"))
	id, ok, err := cache.Lookup("/work")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "w::test_w", id)
}

func TestJSONCache_MigratesLegacyLastTest(t *testing.T) {
	cache := newTestCache(t, 0)
	legacy := map[string]any{
		"last_test": map[string]string{
			"/old":  "old.py::test_old",
			"/both": "legacy.py::test_legacy",
		},
		"test_history": map[string][]string{
			"/both": {"new.py::test_new"},
		},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(cache.Path()), 0755))
	require.NoError(t, os.WriteFile(cache.Path(), data, 0644))

	id, ok, err := cache.Lookup("/old")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old.py::test_old", id)

	id, _, err = cache.Lookup("/both")
	require.NoError(t, err)
	assert.Equal(t, "new.py::test_new", id)

	// the next write drops the legacy key
	require.NoError(t, cache.Store("/other", "o::test_o"))
	raw, err := os.ReadFile(cache.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "last_test")
}

func TestAppendHistory(t *testing.T) {
	assert.Equal(t, []string{"a"}, appendHistory(nil, "a", 3))
	assert.Equal(t, []string{"b", "c", "a"}, appendHistory([]string{"a", "b", "c"}, "a", 3))
	assert.Equal(t, []string{"c", "d"}, appendHistory([]string{"a", "b", "c"}, "d", 2))
}
