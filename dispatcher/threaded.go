package dispatcher

import (
	"context"

	"github.com/deploymenttheory/go-requests-engine/backend"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
)

// Threaded wraps a BlockingSender whose Send blocks a goroutine on
// synchronous I/O, offloading each call onto a backend.Backend's pool so it
// still satisfies the Dispatcher contract of yielding a lazily-read body
// without tying up the caller's own goroutine for the duration of the call.
type Threaded struct {
	inner   BlockingSender
	backend backend.Backend
}

// NewThreaded adapts inner to Dispatcher, running each Send through b.
func NewThreaded(inner BlockingSender, b backend.Backend) *Threaded {
	return &Threaded{inner: inner, backend: b}
}

func (t *Threaded) Send(ctx context.Context, req *httpreq.Request, opts SendOptions) (*httpresp.Response, error) {
	val, err := t.backend.Run(ctx, func(runCtx context.Context) (any, error) {
		return t.inner.Send(runCtx, req, opts)
	})
	if val == nil {
		return nil, err
	}
	return val.(*httpresp.Response), err
}

func (t *Threaded) Close() error {
	if closer, ok := t.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
