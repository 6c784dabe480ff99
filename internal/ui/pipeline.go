package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"testsearch/internal/storage"
)

// Producer emits identifiers on out and closes it when done
type Producer func(ctx context.Context, out chan<- string) error

// SliceProducer emits a fixed list of identifiers
func SliceProducer(ids []string) Producer {
	return func(ctx context.Context, out chan<- string) error {
		defer close(out)
		for _, id := range ids {
			select {
			case out <- id:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
}

// Pipeline routes produced identifiers to standard output or to a selector
type Pipeline struct {
	out        io.Writer
	selector   Selector
	cache      storage.Cache
	dir        string
	logger     *slog.Logger
	beforeDump func()
}

// NewPipeline creates a new Pipeline. selector may be nil, in which case
// Interactive behaves like Dump. Selections are stored in cache under dir.
func NewPipeline(out io.Writer, selector Selector, cache storage.Cache, dir string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		out:      out,
		selector: selector,
		cache:    cache,
		dir:      dir,
		logger:   logger,
	}
}

// SetBeforeDump registers fn to run before a dump starts producing
func (p *Pipeline) SetBeforeDump(fn func()) {
	p.beforeDump = fn
}

// Dump consumes the whole sequence and, only if it completed, prints one
// identifier per line
func (p *Pipeline) Dump(ctx context.Context, produce Producer) error {
	if p.beforeDump != nil {
		p.beforeDump()
	}
	ch := make(chan string, 256)
	errCh := make(chan error, 1)
	go func() {
		errCh <- produce(ctx, ch)
	}()

	var ids []string
	for id := range ch {
		ids = append(ids, id)
	}
	if err := <-errCh; err != nil {
		return err
	}
	return p.print(ids)
}

func (p *Pipeline) print(ids []string) error {
	w := bufio.NewWriter(p.out)
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return w.Flush()
}

// Interactive streams identifiers into the selector and prints and stores
// the chosen one. It falls back to Dump when no selector can run, including
// a selector that fails to start, and returns ErrNoSelection when the user
// aborts.
func (p *Pipeline) Interactive(ctx context.Context, produce Producer) (string, error) {
	if p.selector == nil {
		return "", p.Dump(ctx, produce)
	}
	if err := p.selector.Available(); err != nil {
		if !errors.Is(err, ErrSelectorUnavailable) {
			return "", err
		}
		p.logger.Info("selector unavailable, printing all tests", "reason", err)
		return "", p.Dump(ctx, produce)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan string, 256)
	errCh := make(chan error, 1)
	go func() {
		err := produce(runCtx, ch)
		if err != nil {
			// a failed run closes the selector too
			cancel()
		}
		errCh <- err
	}()

	// forward through a tee that keeps every identifier, so a selector
	// that dies before choosing can still be replaced by a dump
	var received []string
	feed := make(chan string)
	selectDone := make(chan struct{})
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		defer close(feed)
		for id := range ch {
			received = append(received, id)
			select {
			case feed <- id:
			case <-selectDone:
			}
		}
	}()

	selected, selectErr := p.selector.Select(runCtx, feed)
	close(selectDone)

	if errors.Is(selectErr, ErrSelectorUnavailable) {
		p.logger.Info("selector failed to start, printing all tests", "reason", selectErr)
		<-forwarded
		if err := <-errCh; err != nil {
			return "", err
		}
		return "", p.print(received)
	}

	// the selector may return early; stop the producer and let it drain
	cancel()
	<-forwarded
	produceErr := <-errCh
	if produceErr != nil && !errors.Is(produceErr, context.Canceled) {
		return "", produceErr
	}

	if selectErr != nil {
		if errors.Is(selectErr, ErrNoSelection) {
			p.logger.Warn("no test selected")
		}
		return "", selectErr
	}

	if p.cache != nil {
		if err := p.cache.Store(p.dir, selected); err != nil {
			return "", fmt.Errorf("store selection: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.out, selected); err != nil {
		return "", err
	}
	return selected, nil
}
