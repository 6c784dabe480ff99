package execution

import (
	"context"

	"testsearch/internal/domain"
)

// Worker extracts the test records of one file at a time.
// A Worker is owned by a single pool slot and is never used concurrently.
type Worker interface {
	Extract(ctx context.Context, path string) ([]domain.TestRecord, error)
	Close() error
}

// WorkerFactory builds one Worker per pool slot
type WorkerFactory func(ctx context.Context) (Worker, error)

// Progress observes extraction progress
type Progress interface {
	Update(filesDone, testsFound int)
	Finish()
}

// Task is one file submitted to the pool, tagged with its input position
type Task struct {
	Index int
	Path  string
}

type taskResult struct {
	task    Task
	records []domain.TestRecord
	err     error
}

// NewTasks tags each path with its input position
func NewTasks(paths []string) []Task {
	tasks := make([]Task, len(paths))
	for i, p := range paths {
		tasks[i] = Task{Index: i, Path: p}
	}
	return tasks
}
