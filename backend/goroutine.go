package backend

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/deploymenttheory/go-requests-engine/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// backendKey marks a context as having already passed through a particular
// Goroutine backend's Run, so reentrant calls can be detected and rejected
// rather than risking deadlock against an exhausted pool.
type backendKey struct{}

// Goroutine is the default, only shipped Backend. It bounds the number of
// concurrently in-flight Run calls with a semaphore, the same pattern used
// to bound concurrent HTTP sends, generalized here to bound any blocking
// work hopped onto the pool.
type Goroutine struct {
	sem    chan struct{}
	log    logger.Logger
	mu     sync.Mutex
	permit time.Duration // cumulative time spent waiting for a free slot
}

// NewGoroutine builds a Goroutine backend allowing at most limit concurrent
// Run calls in flight. limit <= 0 means unbounded.
func NewGoroutine(limit int, log logger.Logger) *Goroutine {
	if log == nil {
		log = logger.NewNop()
	}
	var sem chan struct{}
	if limit > 0 {
		sem = make(chan struct{}, limit)
	}
	return &Goroutine{sem: sem, log: log}
}

// syncOnly is an unexported marker method: syncengine rejects any Backend
// that is not *Goroutine, since per-chunk channel hops across an arbitrary
// Backend would be too costly to do generically.
func (g *Goroutine) syncOnly() {}

func (g *Goroutine) acquire(ctx context.Context) (uuid.UUID, error) {
	requestID := uuid.New()
	if g.sem == nil {
		return requestID, nil
	}

	start := time.Now()
	select {
	case g.sem <- struct{}{}:
		g.mu.Lock()
		g.permit += time.Since(start)
		g.mu.Unlock()
		g.log.Debug("backend: permit acquired",
			zap.String("request_id", requestID.String()),
			zap.Int("in_flight", len(g.sem)),
			zap.Int("capacity", cap(g.sem)),
		)
		return requestID, nil
	case <-ctx.Done():
		return requestID, ctx.Err()
	}
}

func (g *Goroutine) release(requestID uuid.UUID) {
	if g.sem == nil {
		return
	}
	select {
	case <-g.sem:
	default:
	}
	g.log.Debug("backend: permit released",
		zap.String("request_id", requestID.String()),
		zap.Int("in_flight", len(g.sem)),
	)
}

// Run executes fn on a pool goroutine, blocking the caller until it
// completes or ctx is done. Calling Run from within a function already
// executing under this same backend's Run returns ErrReentrantRun.
func (g *Goroutine) Run(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if ctx.Value(backendKey{}) == g {
		return nil, ErrReentrantRun
	}

	requestID, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer g.release(requestID)

	type result struct {
		val any
		err error
	}
	resultCh := make(chan result, 1)
	runCtx := context.WithValue(ctx, backendKey{}, g)

	go func() {
		val, err := fn(runCtx)
		resultCh <- result{val, err}
	}()

	select {
	case r := <-resultCh:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IterateInThreadPool hops each call to it.Next onto a pool goroutine via
// Run, presenting the blocking iterator as an AsyncIter.
func (g *Goroutine) IterateInThreadPool(ctx context.Context, it BlockingIter) AsyncIter {
	return NewAsyncIter(func(ctx context.Context) ([]byte, error) {
		val, err := g.Run(ctx, func(context.Context) (any, error) {
			return it.Next()
		})
		if val == nil {
			return nil, err
		}
		return val.([]byte), err
	})
}

// Iterate adapts an AsyncIter for synchronous callers: each Next call blocks
// on Run until the AsyncIter produces a value or exhausts with io.EOF.
func (g *Goroutine) Iterate(ctx context.Context, it AsyncIter) BlockingIter {
	return NewBlockingIter(func() ([]byte, error) {
		val, err := g.Run(ctx, func(runCtx context.Context) (any, error) {
			return it.Next(runCtx)
		})
		if err != nil && err != io.EOF {
			return nil, err
		}
		if val == nil {
			return nil, err
		}
		return val.([]byte), err
	})
}
