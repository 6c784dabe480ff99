package discovery

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter filters test files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the files matching pattern.
// Patterns containing a path separator are matched against the whole path,
// other glob patterns against the base name; patterns without wildcards
// are substring matches on the base name.
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	filtered := make([]string, 0, len(files))
	for _, file := range files {
		if f.match(pattern, file) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

func (f *Filter) match(pattern, file string) bool {
	name := filepath.Base(file)
	if !strings.ContainsAny(pattern, "*?[{") {
		return strings.Contains(name, pattern)
	}

	target := name
	if strings.Contains(pattern, "/") {
		target = filepath.ToSlash(file)
	}
	matched, err := doublestar.Match(pattern, target)
	return err == nil && matched
}
