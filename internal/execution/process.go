package execution

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"testsearch/internal/domain"
)

// ProcessOptions describes how to launch a worker process
type ProcessOptions struct {
	Command []string // executable and arguments, e.g. [testsearch worker]
	Env     []string // appended to the parent environment
}

// DefaultProcessOptions re-executes the running binary with the worker subcommand
func DefaultProcessOptions(env ...string) (ProcessOptions, error) {
	self, err := os.Executable()
	if err != nil {
		return ProcessOptions{}, fmt.Errorf("locating executable: %w", err)
	}
	return ProcessOptions{Command: []string{self, "worker"}, Env: env}, nil
}

// ProcessWorker is an isolated worker living in a child process.
// Paths go in and record lists come out as JSON lines over stdin/stdout;
// the child builds its own parser.
type ProcessWorker struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *json.Encoder
	dec   *json.Decoder
}

// StartProcessWorker launches a worker process
func StartProcessWorker(opts ProcessOptions) (*ProcessWorker, error) {
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("worker command is empty")
	}

	cmd := exec.Command(opts.Command[0], opts.Command[1:]...)
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting worker process: %w", err)
	}

	return &ProcessWorker{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		dec:   json.NewDecoder(bufio.NewReader(stdout)),
	}, nil
}

// Extract implements Worker
func (w *ProcessWorker) Extract(ctx context.Context, path string) ([]domain.TestRecord, error) {
	if err := w.enc.Encode(Request{Path: path}); err != nil {
		return nil, fmt.Errorf("sending %s to worker %d: %w", path, w.cmd.Process.Pid, err)
	}

	var resp Response
	if err := w.dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("reading worker %d response for %s: %w", w.cmd.Process.Pid, path, err)
	}
	return resp.Result()
}

// Close ends the worker's input and waits for it to exit
func (w *ProcessWorker) Close() error {
	if err := w.stdin.Close(); err != nil {
		return err
	}
	return w.cmd.Wait()
}

// NewProcessWorkerFactory returns a factory launching one child process per pool slot
func NewProcessWorkerFactory(opts ProcessOptions) WorkerFactory {
	return func(ctx context.Context) (Worker, error) {
		return StartProcessWorker(opts)
	}
}
