// Package dispatcher defines the Send boundary between the engine's
// request-processing core and whatever actually puts bytes on a wire: a
// pooled net/http.Transport, a blocking sender hopped onto a worker pool,
// or an in-process http.Handler.
package dispatcher

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
)

// TLSVerify is either a plain bool (verify using the system roots) or a
// path to a CA bundle file to verify against instead.
type TLSVerify struct {
	Enabled  bool
	CABundle string
}

// SendOptions carries the per-call knobs a Dispatcher needs beyond the
// request itself.
type SendOptions struct {
	Verify  TLSVerify
	Cert    *tls.Certificate
	Timeout time.Duration
}

// Dispatcher sends a single prepared request and returns a response. Send
// may itself suspend internally (on a channel, on a goroutine boundary) —
// Go has no separate cooperative-vs-OS-thread distinction, so "async
// dispatcher" and "blocking dispatcher" are unified behind this one
// interface.
type Dispatcher interface {
	Send(ctx context.Context, req *httpreq.Request, opts SendOptions) (*httpresp.Response, error)
	Close() error
}

// BlockingSender is the narrower, synchronous-only shape a caller may
// supply instead of a full Dispatcher; Threaded adapts it to Dispatcher.
type BlockingSender interface {
	Send(ctx context.Context, req *httpreq.Request, opts SendOptions) (*httpresp.Response, error)
}
