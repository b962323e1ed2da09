package engine

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/deploymenttheory/go-requests-engine/auth"
	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
)

// requestConfig accumulates the per-call overrides a RequestOption applies,
// starting from the Context's defaults.
type requestConfig struct {
	body           any
	params         url.Values
	headers        httpheader.Headers
	cookies        []*http.Cookie
	streaming      bool
	auth           auth.Auth
	allowRedirects *bool
	cert           *tls.Certificate
	verify         *dispatcher.TLSVerify
	timeout        time.Duration
	trustEnv       *bool
}

// RequestOption customizes a single Request call.
type RequestOption func(*requestConfig)

// WithData sets the request body to raw bytes, a string, or url.Values
// (form-encoded) — anything httpreq.Request.Body accepts directly.
func WithData(body any) RequestOption {
	return func(rc *requestConfig) { rc.body = body }
}

// WithJSON marshals v to JSON and sets it as the request body with a
// Content-Type of application/json.
func WithJSON(v any) RequestOption {
	return func(rc *requestConfig) {
		rc.body = jsonBody{value: v}
	}
}

// WithMultipart sets the request body to a multipart/form-data encoding of
// fields and files, with a Content-Type carrying the generated boundary.
func WithMultipart(fields map[string]string, files map[string]httpreq.FileField) RequestOption {
	return func(rc *requestConfig) { rc.body = httpreq.NewMultipart(fields, files) }
}

// WithParams merges params into the request URL's query string.
func WithParams(params url.Values) RequestOption {
	return func(rc *requestConfig) { rc.params = params }
}

// WithHeaders overlays headers on top of the Context's defaults for this
// call only.
func WithHeaders(headers httpheader.Headers) RequestOption {
	return func(rc *requestConfig) { rc.headers = headers }
}

// WithCookies adds cookies to this call only, on top of whatever the jar
// already holds for the target URL.
func WithCookies(cookies []*http.Cookie) RequestOption {
	return func(rc *requestConfig) { rc.cookies = cookies }
}

// WithStream requests a lazily-read response body instead of one
// materialized eagerly by Send.
func WithStream(streaming bool) RequestOption {
	return func(rc *requestConfig) { rc.streaming = streaming }
}

// WithAuth overrides the Context's configured auth strategy for this call.
func WithAuth(a auth.Auth) RequestOption {
	return func(rc *requestConfig) { rc.auth = a }
}

// WithAllowRedirects overrides whether this call follows redirects to
// completion or returns the first redirecting response with a deferred
// Next continuation.
func WithAllowRedirects(allow bool) RequestOption {
	return func(rc *requestConfig) { rc.allowRedirects = &allow }
}

// WithCert supplies a client certificate for this call's TLS handshake.
func WithCert(cert *tls.Certificate) RequestOption {
	return func(rc *requestConfig) { rc.cert = cert }
}

// WithVerify overrides TLS verification behavior for this call.
func WithVerify(verify dispatcher.TLSVerify) RequestOption {
	return func(rc *requestConfig) { rc.verify = &verify }
}

// WithTimeout overrides the dispatcher's deadline for this call.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(rc *requestConfig) { rc.timeout = timeout }
}

// WithTrustEnv overrides whether this call falls back to a netrc lookup
// when no other auth strategy applies.
func WithTrustEnv(trust bool) RequestOption {
	return func(rc *requestConfig) { rc.trustEnv = &trust }
}

// jsonBody marks a value for JSON encoding by Send, distinguishing it from
// a plain httpreq.Request.Body value that should pass through untouched.
type jsonBody struct {
	value any
}
