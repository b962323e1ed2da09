// Package syncengine wraps an engine.Client so every call — dispatch and
// body drain alike — runs through a single backend.Goroutine pool, giving a
// caller that only ever calls from synchronous code a uniform blocking
// surface instead of having to reason about goroutine hops itself.
package syncengine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/deploymenttheory/go-requests-engine/backend"
	"github.com/deploymenttheory/go-requests-engine/engine"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
)

// Client is the synchronous-only verb surface over an engine.Client, every
// call of which is run on backend's pool.
type Client struct {
	inner   *engine.Client
	backend *backend.Goroutine

	closeOnce sync.Once
	closeErr  error
}

// NewClient builds a Client. cfg.Backend, if set, must be a
// *backend.Goroutine — the per-chunk channel hop Stream performs is too
// costly to express against an arbitrary Backend implementation, so
// syncengine narrows the contract down to the one concrete type it ships.
// A nil cfg.Backend gets an unbounded Goroutine backend of its own.
func NewClient(cfg engine.Config) (*Client, error) {
	g, ok := cfg.Backend.(*backend.Goroutine)
	if cfg.Backend != nil && !ok {
		return nil, fmt.Errorf("syncengine: backend must be *backend.Goroutine, got %T", cfg.Backend)
	}
	if g == nil {
		g = backend.NewGoroutine(0, cfg.Logger)
	}
	// Every call already runs on g via run; also wrapping the dispatcher in
	// Threaded on g would make that inner Run reentrant.
	cfg.Backend = nil

	inner, err := engine.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{inner: inner, backend: g}, nil
}

// run hops fn onto the Goroutine pool and blocks until it returns.
func (c *Client) run(ctx context.Context, fn func(context.Context) (*httpresp.Response, error)) (*httpresp.Response, error) {
	val, err := c.backend.Run(ctx, func(runCtx context.Context) (any, error) {
		return fn(runCtx)
	})
	if val == nil {
		return nil, err
	}
	return val.(*httpresp.Response), err
}

// Request issues method against rawurl, blocking on the pool.
func (c *Client) Request(ctx context.Context, method, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.run(ctx, func(runCtx context.Context) (*httpresp.Response, error) {
		return c.inner.Request(runCtx, method, rawurl, opts...)
	})
}

// Get issues a blocking GET request.
func (c *Client) Get(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "GET", rawurl, opts...)
}

// Post issues a blocking POST request.
func (c *Client) Post(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "POST", rawurl, opts...)
}

// Put issues a blocking PUT request.
func (c *Client) Put(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "PUT", rawurl, opts...)
}

// Patch issues a blocking PATCH request.
func (c *Client) Patch(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "PATCH", rawurl, opts...)
}

// Delete issues a blocking DELETE request.
func (c *Client) Delete(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "DELETE", rawurl, opts...)
}

// Head issues a blocking HEAD request. Unlike the other verbs it does not
// follow redirects unless opts include engine.WithAllowRedirects(true).
func (c *Client) Head(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "HEAD", rawurl, append([]engine.RequestOption{engine.WithAllowRedirects(false)}, opts...)...)
}

// Options issues a blocking OPTIONS request.
func (c *Client) Options(ctx context.Context, rawurl string, opts ...engine.RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, "OPTIONS", rawurl, opts...)
}

// Stream returns a backend.BlockingIter draining resp's body chunk by
// chunk, each Next call itself hopped onto the pool via backend.Iterate —
// the synchronous counterpart of reading a streaming response in an async
// engine.Client caller.
func (c *Client) Stream(ctx context.Context, resp *httpresp.Response, chunkSize int) backend.BlockingIter {
	stream, buffered := resp.StreamState()
	if buffered || stream == nil {
		content, _ := resp.Read(ctx)
		return &bufferedIter{content: content}
	}
	reader := backend.NewReaderBlockingIter(stream, chunkSize)
	asyncReader := backend.NewAsyncIter(func(context.Context) ([]byte, error) { return reader.Next() })
	return c.backend.Iterate(ctx, asyncReader)
}

// bufferedIter replays an already-buffered response body as a single chunk,
// then io.EOF on every call after.
type bufferedIter struct {
	content []byte
}

func (b *bufferedIter) Next() ([]byte, error) {
	if b.content == nil {
		return nil, io.EOF
	}
	content := b.content
	b.content = nil
	return content, nil
}

// Scope returns c alongside a deferrable close func, the Go shape of
// entering a scope that returns the client and exits by closing it.
func (c *Client) Scope() (*Client, func()) {
	return c, func() { c.Close() }
}

// Close releases the underlying engine.Client exactly once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		_, c.closeErr = c.backend.Run(context.Background(), func(context.Context) (any, error) {
			return nil, c.inner.Close()
		})
	})
	return c.closeErr
}
