package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"testsearch/internal/domain"
)

// Driver fans extraction out over a worker pool and merges the results
// into one identifier stream according to the plan's strategy.
//
// Runs are fail-fast but not cancellable: once files are submitted every
// task runs to completion, and the first failure is returned after the
// pool drains. Nothing is emitted after a failure has been observed.
type Driver struct {
	plan     domain.ExecutionPlan
	factory  WorkerFactory
	progress Progress
	logger   *slog.Logger
}

// NewDriver creates a new Driver
func NewDriver(plan domain.ExecutionPlan, factory WorkerFactory, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		plan:    plan,
		factory: factory,
		logger:  logger,
	}
}

// SetProgress sets the progress observer for the driver
func (d *Driver) SetProgress(progress Progress) {
	d.progress = progress
}

// Plan returns the execution plan of the driver
func (d *Driver) Plan() domain.ExecutionPlan {
	return d.plan
}

// Stream extracts identifiers from files and sends them on out, closing
// out when the run is over.
func (d *Driver) Stream(ctx context.Context, files []string, out chan<- string) error {
	defer close(out)
	if len(files) == 0 {
		return nil
	}

	start := time.Now()
	em := &emitter{ctx: ctx, out: out, progress: d.progress}

	var err error
	switch d.plan.Strategy {
	case domain.StrategySerial:
		err = d.streamSerial(ctx, files, em)
	case domain.StrategyOrdered:
		err = d.streamOrdered(ctx, files, em)
	case domain.StrategyCompletion:
		err = d.streamCompletion(ctx, files, em)
	default:
		err = fmt.Errorf("unknown strategy %q", d.plan.Strategy)
	}

	if d.progress != nil {
		d.progress.Finish()
	}
	d.logger.Info("extraction finished",
		"plan", d.plan.String(),
		"files", len(files),
		"tests", em.tests,
		"duration", time.Since(start).Round(time.Millisecond))
	return err
}

// Collect runs Stream and gathers the whole identifier sequence
func (d *Driver) Collect(ctx context.Context, files []string) ([]string, error) {
	out := make(chan string, 256)
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Stream(ctx, files, out)
	}()

	ids := make([]string, 0)
	for id := range out {
		ids = append(ids, id)
	}
	return ids, <-errCh
}

func (d *Driver) streamSerial(ctx context.Context, files []string, em *emitter) error {
	workers, err := d.startWorkers(ctx, 1)
	if err != nil {
		return err
	}
	defer d.closeWorkers(workers)

	w := workers[0]
	for _, path := range files {
		records, err := w.Extract(ctx, path)
		if err != nil {
			return err
		}
		if err := em.emit(records); err != nil {
			return err
		}
	}
	return nil
}

// streamOrdered runs a fixed pool pulling tasks from a shared queue; each
// file's result lands in its own slot and slots are drained in input order.
func (d *Driver) streamOrdered(ctx context.Context, files []string, em *emitter) error {
	workers, err := d.startWorkers(ctx, d.poolSize(len(files)))
	if err != nil {
		return err
	}
	defer d.closeWorkers(workers)

	slots := make([]chan taskResult, len(files))
	for i := range slots {
		slots[i] = make(chan taskResult, 1)
	}

	// workers always drain the queue, so the feeder never blocks for good
	queue := make(chan Task)
	go func() {
		defer close(queue)
		for _, task := range NewTasks(files) {
			queue <- task
		}
	}()

	g := new(errgroup.Group)
	for _, w := range workers {
		w := w
		g.Go(func() error {
			var firstErr error
			for task := range queue {
				records, err := w.Extract(ctx, task.Path)
				if err != nil && firstErr == nil {
					firstErr = err
				}
				slots[task.Index] <- taskResult{task: task, records: records, err: err}
			}
			return firstErr
		})
	}

	var streamErr error
	for i := range slots {
		res := <-slots[i]
		if res.err != nil {
			streamErr = res.err
			break
		}
		if err := em.emit(res.records); err != nil {
			streamErr = err
			break
		}
	}

	// slots are buffered, so workers finish even when nobody reads them
	if err := g.Wait(); streamErr == nil {
		streamErr = err
	}
	return streamErr
}

// streamCompletion submits one task per file as pool slots free up and
// emits results as tasks finish. Submission runs on its own goroutine so
// merging starts with the first finished task.
func (d *Driver) streamCompletion(ctx context.Context, files []string, em *emitter) error {
	workers, err := d.startWorkers(ctx, d.poolSize(len(files)))
	if err != nil {
		return err
	}
	defer d.closeWorkers(workers)

	idle := make(chan Worker, len(workers))
	for _, w := range workers {
		idle <- w
	}

	results := make(chan taskResult, len(files))
	submitted := make(chan error, 1)
	g := new(errgroup.Group)

	go func() {
		var submitErr error
	submit:
		for _, task := range NewTasks(files) {
			var w Worker
			select {
			case w = <-idle:
			case <-ctx.Done():
				submitErr = ctx.Err()
				break submit
			}
			task := task
			g.Go(func() error {
				defer func() { idle <- w }()
				records, err := w.Extract(ctx, task.Path)
				results <- taskResult{task: task, records: records, err: err}
				return err
			})
		}
		_ = g.Wait()
		submitted <- submitErr
		close(results)
	}()

	var streamErr error
	for res := range results {
		if streamErr != nil {
			continue
		}
		if res.err != nil {
			streamErr = res.err
			continue
		}
		if err := em.emit(res.records); err != nil {
			streamErr = err
		}
	}
	if err := <-submitted; streamErr == nil {
		streamErr = err
	}
	return streamErr
}

func (d *Driver) poolSize(files int) int {
	n := d.plan.WorkerCount()
	if n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (d *Driver) startWorkers(ctx context.Context, n int) ([]Worker, error) {
	workers := make([]Worker, 0, n)
	for i := 0; i < n; i++ {
		w, err := d.factory(ctx)
		if err != nil {
			d.closeWorkers(workers)
			return nil, fmt.Errorf("starting worker %d: %w", i+1, err)
		}
		workers = append(workers, w)
	}
	d.logger.Debug("worker pool started", "pool", string(d.plan.Pool), "workers", n)
	return workers, nil
}

func (d *Driver) closeWorkers(workers []Worker) {
	var errs []error
	for _, w := range workers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		d.logger.Warn("closing workers", "error", err)
	}
}

// emitter forwards formatted identifiers and keeps progress counters.
// It is only used from the merging goroutine.
type emitter struct {
	ctx      context.Context
	out      chan<- string
	progress Progress
	files    int
	tests    int
}

func (e *emitter) emit(records []domain.TestRecord) error {
	for _, r := range records {
		select {
		case e.out <- r.NodeID():
		case <-e.ctx.Done():
			return e.ctx.Err()
		}
	}
	e.files++
	e.tests += len(records)
	if e.progress != nil {
		e.progress.Update(e.files, e.tests)
	}
	return nil
}
