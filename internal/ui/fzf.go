package ui

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// DefaultFzfCommand is the selector command used when none is configured
var DefaultFzfCommand = []string{"fzf", "--no-multi", "--prompt", "test> "}

// FzfSelector runs an fzf-compatible command, feeding candidates on its
// stdin as they arrive and reading the choice from its stdout
type FzfSelector struct {
	command    []string
	isTerminal func() bool
}

// NewFzfSelector creates a selector running command (e.g. fzf or sk)
func NewFzfSelector(command []string) *FzfSelector {
	if len(command) == 0 {
		command = DefaultFzfCommand
	}
	return &FzfSelector{
		command:    command,
		isTerminal: func() bool { return IsTerminal(os.Stderr) },
	}
}

// Available implements Selector
func (s *FzfSelector) Available() error {
	if _, err := exec.LookPath(s.command[0]); err != nil {
		return fmt.Errorf("%w: %s not found", ErrSelectorUnavailable, s.command[0])
	}
	if !s.isTerminal() {
		return fmt.Errorf("%w: not a terminal", ErrSelectorUnavailable)
	}
	return nil
}

// Select implements Selector
func (s *FzfSelector) Select(ctx context.Context, candidates <-chan string) (string, error) {
	cmd := exec.CommandContext(ctx, s.command[0], s.command[1:]...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("selector stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: starting %s: %v", ErrSelectorUnavailable, s.command[0], err)
	}

	go func() {
		defer stdin.Close()
		w := bufio.NewWriter(stdin)
		for id := range candidates {
			if _, err := w.WriteString(id + "\n"); err != nil {
				return
			}
			// flush per line so the selector shows results live
			if err := w.Flush(); err != nil {
				return
			}
		}
	}()

	err = cmd.Wait()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case 1, 130:
			// 1: no match, 130: interrupted
			return "", ErrNoSelection
		case 2:
			// usage or startup error, e.g. a bad selector_command
			return "", fmt.Errorf("%w: %s exited with status 2", ErrSelectorUnavailable, s.command[0])
		}
		return "", fmt.Errorf("%s failed: %w", s.command[0], err)
	}
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", s.command[0], err)
	}

	selected := strings.TrimSpace(stdout.String())
	if i := strings.IndexByte(selected, '\n'); i >= 0 {
		selected = selected[:i]
	}
	if selected == "" {
		return "", ErrNoSelection
	}
	return selected, nil
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
