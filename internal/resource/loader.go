package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gunship/engine/internal/core/ecs"
	"go.uber.org/zap"
)

// LoadFunc performs the actual load. It runs on a loader goroutine and must
// not touch the scene.
type LoadFunc[T any] func(ctx context.Context, path string) (T, error)

// Future is a one-shot handle for a pending load requested on behalf of an
// entity.
type Future[T any] struct {
	Entity ecs.EntityID
	Path   string

	done  chan struct{}
	value T
	err   error
}

// Done reports whether the load has finished, without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the loaded value and error. It must only be called once
// Done reports true or the future has been delivered by Poll.
func (f *Future[T]) Result() (T, error) { return f.value, f.err }

func (f *Future[T]) Err() error { return f.err }

// Loader runs loads on background goroutines, at most workers at a time.
// Completed futures are queued and handed back on the frame goroutine by
// Poll, never from inside the load goroutine, so completions are only ever
// observed at a frame boundary.
type Loader[T any] struct {
	ctx  context.Context
	load LoadFunc[T]
	sem  chan struct{}
	log  *zap.Logger

	mu        sync.Mutex
	completed []*Future[T]
	inflight  atomic.Int64
	wg        sync.WaitGroup
}

func NewLoader[T any](ctx context.Context, load LoadFunc[T], workers int, log *zap.Logger) *Loader[T] {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader[T]{
		ctx:  ctx,
		load: load,
		sem:  make(chan struct{}, workers),
		log:  log,
	}
}

// Request starts loading path for entity and returns immediately.
func (l *Loader[T]) Request(entity ecs.EntityID, path string) *Future[T] {
	f := &Future[T]{Entity: entity, Path: path, done: make(chan struct{})}
	l.inflight.Add(1)
	l.wg.Add(1)
	go l.run(f)
	return f
}

func (l *Loader[T]) run(f *Future[T]) {
	defer l.wg.Done()
	select {
	case l.sem <- struct{}{}:
		f.value, f.err = l.load(l.ctx, f.Path)
		<-l.sem
	case <-l.ctx.Done():
		f.err = l.ctx.Err()
	}
	if f.err != nil {
		l.log.Debug("resource load failed", zap.String("path", f.Path), zap.Error(f.err))
	}
	close(f.done)

	l.mu.Lock()
	l.completed = append(l.completed, f)
	l.mu.Unlock()
	l.inflight.Add(-1)
}

// Poll hands every future completed since the previous Poll to fn, in
// completion order, and returns how many were delivered. Each future is
// delivered exactly once.
func (l *Loader[T]) Poll(fn func(*Future[T])) int {
	l.mu.Lock()
	ready := l.completed
	l.completed = nil
	l.mu.Unlock()

	for _, f := range ready {
		fn(f)
	}
	return len(ready)
}

// Pending is the number of loads not yet finished.
func (l *Loader[T]) Pending() int { return int(l.inflight.Load()) }

// Wait blocks until every requested load has finished. Completed futures
// still need a Poll to be delivered.
func (l *Loader[T]) Wait() { l.wg.Wait() }

// FileLoader reads resources as raw bytes under root. Decoding mesh formats
// is left to the caller.
func FileLoader(root string) LoadFunc[any] {
	return func(ctx context.Context, path string) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := filepath.Join(root, path)
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read resource %s: %w", full, err)
		}
		return data, nil
	}
}
