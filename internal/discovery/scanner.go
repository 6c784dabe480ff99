package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Finder locates candidate test files under a set of roots
type Finder interface {
	Find(ctx context.Context, roots []string) ([]string, error)
}

// Scanner walks directories in-process looking for test files
type Scanner struct {
	pattern  string
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner matching file names against pattern
// and skipping the given directory names
func NewScanner(pattern string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{pattern: pattern, skipDirs: skipMap}
}

// Matches reports whether a file name matches the scanner pattern
func (s *Scanner) Matches(name string) bool {
	matched, err := doublestar.Match(s.pattern, name)
	return err == nil && matched
}

// Find scans every root in order, dropping duplicates
func (s *Scanner) Find(ctx context.Context, roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		found, err := s.Scan(ctx, root)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return dedupe(files), nil
}

// Scan finds all test files below root. A root that is itself a file is
// returned as-is.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() && s.Matches(d.Name()) {
			testfiles = append(testfiles, path)
		}
		return nil
	})

	return testfiles, err
}

// ErrFinderUnavailable is returned when the external finder binary is missing
var ErrFinderUnavailable = errors.New("file finder unavailable")

// FallbackFinder tries the primary finder and falls back to the secondary
// one when the primary is unavailable
type FallbackFinder struct {
	primary   Finder
	secondary Finder
	logger    *slog.Logger
}

// NewFallbackFinder creates a new FallbackFinder
func NewFallbackFinder(primary, secondary Finder, logger *slog.Logger) *FallbackFinder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackFinder{primary: primary, secondary: secondary, logger: logger}
}

// Find implements Finder
func (f *FallbackFinder) Find(ctx context.Context, roots []string) ([]string, error) {
	files, err := f.primary.Find(ctx, roots)
	if errors.Is(err, ErrFinderUnavailable) {
		f.logger.Info("external finder unavailable, walking directories", "error", err)
		return f.secondary.Find(ctx, roots)
	}
	return files, err
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
