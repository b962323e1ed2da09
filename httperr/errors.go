// Package httperr defines the typed error taxonomy the send and redirect
// pipelines raise, plus an opt-in content-sniffing decoder for turning a
// non-2xx response body into a structured APIError.
package httperr

import (
	"fmt"

	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
)

// InvalidURLError reports a request URL that is not absolute with an
// http/https scheme by the time it reaches a dispatcher.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("httperr: invalid request URL %q: must be absolute with scheme http or https", e.URL)
}

// TooManyRedirectsError reports that a redirect chain exceeded the
// configured maximum. Count is the number of responses seen so far, one
// more than MaxRedirects by construction (see the off-by-one note in the
// redirect package). Response is the last response received before the
// chain was cut off, so a caller can recover the offending URL.
type TooManyRedirectsError struct {
	MaxRedirects int
	Count        int
	Response     *httpresp.Response
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("httperr: exceeded max redirects (%d), saw %d responses", e.MaxRedirects, e.Count)
}

// RedirectLoopError reports that a redirect chain revisited a URL already
// seen earlier in the same chain. Response is the last response received
// before the loop was detected.
type RedirectLoopError struct {
	URL      string
	Response *httpresp.Response
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("httperr: redirect loop detected at %q", e.URL)
}

// RedirectBodyUnavailableError reports that a redirect hop needed to resend
// a request body that cannot be re-read (a non-rewindable stream already
// consumed).
type RedirectBodyUnavailableError struct {
	Method string
}

func (e *RedirectBodyUnavailableError) Error() string {
	return fmt.Sprintf("httperr: cannot replay %s request body across redirect: body stream already consumed", e.Method)
}

// HTTPError marks transport-level failures of a send attempt (connection
// refused, TLS failure, timeout, and so on), distinguishing them from the
// pipeline's own typed errors above. TransportError implements it; the
// shipped dispatchers return the underlying net/http errors without
// wrapping them in it.
type HTTPError interface {
	error
	isHTTPError()
}

// TransportError wraps a lower-level transport failure (a *net.OpError, a
// context.DeadlineExceeded, a TLS handshake error) as an HTTPError.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("httperr: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) isHTTPError() {}

var _ HTTPError = (*TransportError)(nil)

// RequestError wraps any error surfaced while sending Request, attaching
// the original caller-supplied request so the caller can inspect what was
// being attempted.
type RequestError struct {
	Request *httpreq.Request
	Err     error
}

func (e *RequestError) Error() string {
	method, url := "", ""
	if e.Request != nil {
		method = e.Request.Method
		if e.Request.URL.URL != nil {
			url = e.Request.URL.String()
		}
	}
	return fmt.Sprintf("httperr: %s %s: %v", method, url, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
