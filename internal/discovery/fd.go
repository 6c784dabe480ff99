package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// FdFinder delegates file discovery to the fd utility, which honours
// .gitignore files and walks in parallel
type FdFinder struct {
	command string
	pattern string
}

// NewFdFinder creates a finder running command (usually "fd") with a glob pattern
func NewFdFinder(command, pattern string) *FdFinder {
	return &FdFinder{command: command, pattern: pattern}
}

// Args builds the fd command line for one root
func (f *FdFinder) Args(root string) []string {
	return []string{"-0", "--type", "f", "--glob", f.pattern, root}
}

// Find implements Finder
func (f *FdFinder) Find(ctx context.Context, roots []string) ([]string, error) {
	bin, err := exec.LookPath(f.command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFinderUnavailable, f.command, err)
	}

	var files []string
	for _, root := range roots {
		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, bin, f.Args(root)...)
		cmd.Stderr = &stderr

		out, err := cmd.Output()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return nil, fmt.Errorf("%s %s: %s", f.command, root, strings.TrimSpace(stderr.String()))
			}
			return nil, fmt.Errorf("running %s: %w", f.command, err)
		}
		files = append(files, splitNul(out)...)
	}
	return dedupe(files), nil
}

// splitNul splits NUL-separated finder output into cleaned paths
func splitNul(out []byte) []string {
	var paths []string
	for _, p := range strings.Split(string(out), "\x00") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paths = append(paths, filepath.Clean(p))
	}
	return paths
}
