// Package httpresp defines the response value returned by the send and
// redirect pipelines: status line, headers, the chain of prior hops, and a
// lazily-read body that can be materialized once and cached, or streamed
// and released exactly once.
package httpresp

import (
	"context"
	"io"
	"sync"

	"github.com/deploymenttheory/go-requests-engine/httpheader"
)

// NextFunc produces the next response in a deferred redirect chain. It is
// set by the redirect engine only when a terminal response is itself a
// redirect that the caller asked not to follow.
type NextFunc func(ctx context.Context) (*Response, error)

// Response is a single HTTP response, plus the chain of prior hops that led
// to it.
type Response struct {
	StatusCode int
	Proto      string
	Headers    httpheader.Headers
	History    []*Response

	rawStream io.ReadCloser
	rawContent []byte
	buffered   bool

	closeOnce sync.Once
	closeErr  error

	readOnce sync.Once
	readErr  error

	next NextFunc

	stopWatch func() bool
}

// New builds a Response backed by a live stream. buffered is false until Read
// materializes it.
func New(statusCode int, proto string, headers httpheader.Headers, body io.ReadCloser) *Response {
	return &Response{
		StatusCode: statusCode,
		Proto:      proto,
		Headers:    headers,
		rawStream:  body,
	}
}

// NewBuffered builds a Response whose body is already fully read into memory.
func NewBuffered(statusCode int, proto string, headers httpheader.Headers, content []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Proto:      proto,
		Headers:    headers,
		rawContent: content,
		buffered:   true,
	}
}

// SetNext attaches the deferred continuation. Called by the redirect engine
// when it stops at a redirecting response instead of following it.
func (r *Response) SetNext(fn NextFunc) {
	r.next = fn
}

// Next advances to the response this one redirects to, or returns nil, nil
// if this response is not a deferred redirect.
func (r *Response) Next(ctx context.Context) (*Response, error) {
	if r.next == nil {
		return nil, nil
	}
	return r.next(ctx)
}

// Read materializes the body, caching the result so repeated calls are free.
// Once read, the underlying stream (if any) is closed.
func (r *Response) Read(ctx context.Context) ([]byte, error) {
	r.readOnce.Do(func() {
		if r.buffered {
			return
		}
		if r.rawStream == nil {
			r.buffered = true
			return
		}
		defer r.Close()

		type result struct {
			data []byte
			err  error
		}
		done := make(chan result, 1)
		go func() {
			data, err := io.ReadAll(r.rawStream)
			done <- result{data, err}
		}()

		select {
		case res := <-done:
			r.rawContent, r.readErr = res.data, res.err
		case <-ctx.Done():
			r.readErr = ctx.Err()
		}
		r.buffered = true
	})
	return r.rawContent, r.readErr
}

// StreamState exposes the body's two discriminant attributes to syncengine,
// the Go re-expression of the sync/async body bridge: a live stream for
// lazy consumption, or the buffered flag indicating Read already ran and
// the cached content is authoritative. Not intended for use outside the
// syncengine bridge.
func (r *Response) StreamState() (stream io.ReadCloser, buffered bool) {
	return r.rawStream, r.buffered
}

// WatchContext arranges for Close to run automatically if ctx is canceled
// or times out before the caller releases a streaming body itself —
// otherwise a caller that never reads or closes a stream leaks the
// underlying connection for as long as it holds the Response.
func (r *Response) WatchContext(ctx context.Context) {
	r.stopWatch = context.AfterFunc(ctx, func() { r.Close() })
}

// Close releases the body exactly once, safe to call redundantly or
// concurrently.
func (r *Response) Close() error {
	r.closeOnce.Do(func() {
		if r.stopWatch != nil {
			r.stopWatch()
		}
		if r.rawStream != nil {
			r.closeErr = r.rawStream.Close()
		}
	})
	return r.closeErr
}
