package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// JSONCache stores the selection history in a JSON file.
// Every mutation rewrites the whole file.
type JSONCache struct {
	path   string
	limit  int
	logger *slog.Logger
	mu     sync.Mutex
}

// NewJSONCache returns a Cache reading/writing the JSON file at path
func NewJSONCache(path string, limit int, logger *slog.Logger) *JSONCache {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &JSONCache{path: path, limit: limit, logger: logger}
}

// DefaultCachePath returns <user cache dir>/testsearch/cache.json
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(dir, "testsearch", "cache.json"), nil
}

// Path returns the cache file location
func (c *JSONCache) Path() string {
	return c.path
}

// Lookup implements Cache
func (c *JSONCache) Lookup(dir string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load()
	if err != nil {
		return "", false, err
	}
	history := doc.TestHistory[dir]
	if len(history) == 0 {
		return "", false, nil
	}
	return history[len(history)-1], true, nil
}

// Store implements Cache
func (c *JSONCache) Store(dir, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load()
	if err != nil {
		return err
	}
	doc.TestHistory[dir] = appendHistory(doc.TestHistory[dir], id, c.limit)
	c.logger.Debug("storing selection", "dir", dir, "id", id, "cache", c.path)
	return c.save(doc)
}

// History implements Cache
func (c *JSONCache) History(dir string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), doc.TestHistory[dir]...), nil
}

// Clear implements Cache
func (c *JSONCache) Clear(dir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load()
	if err != nil {
		return err
	}
	if _, ok := doc.TestHistory[dir]; !ok {
		return nil
	}
	delete(doc.TestHistory, dir)
	return c.save(doc)
}

// ClearAll implements Cache
func (c *JSONCache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(newDocument())
}

// Snapshot implements Cache
func (c *JSONCache) Snapshot() (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.load()
	if err != nil {
		return Document{}, err
	}
	return doc.clone(), nil
}

// load reads the cache file. A missing file is an empty cache; malformed
// content is reported and replaced by an empty cache.
func (c *JSONCache) load() (Document, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newDocument(), nil
		}
		return Document{}, fmt.Errorf("read cache file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("cache file is malformed, starting empty", "path", c.path, "error", err)
		return newDocument(), nil
	}
	if doc.migrate() {
		c.logger.Info("migrated legacy cache entries", "path", c.path)
	}
	return doc, nil
}

func (c *JSONCache) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
