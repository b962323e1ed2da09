// Package engine implements the client context and send pipeline: merged
// configuration, auth resolution, redirect-aware dispatch, and the verb
// methods callers use to issue requests.
package engine

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-requests-engine/auth"
	"github.com/deploymenttheory/go-requests-engine/backend"
	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/deploymenttheory/go-requests-engine/logger"
	"github.com/deploymenttheory/go-requests-engine/proxy"
)

// Config holds the merged defaults a Context is built from.
type Config struct {
	Auth           auth.Auth
	DefaultHeaders httpheader.Headers
	DefaultCookies map[string]string
	Verify         dispatcher.TLSVerify
	Cert           *tls.Certificate
	HTTPVersions   []string
	Timeout        time.Duration
	PoolLimits     dispatcher.PoolLimits
	MaxRedirects   int
	BaseURL        string
	Dispatcher     dispatcher.Dispatcher
	App            http.Handler
	Backend        backend.Backend
	TrustEnv       *bool
	Proxy          proxy.Config

	// RequestHooks and ResponseHooks are supplemental: run just before
	// dispatch and just after post-receive cookie extraction respectively,
	// the Go re-expression of httpx's event_hooks.
	RequestHooks  []func(*httpreq.Request)
	ResponseHooks []func(*httpresp.Response)

	Logger logger.Logger
}

// defaultTrue resolves a *bool config knob that defaults to true when
// unset — Go's zero value for bool is false, so a plain bool field cannot
// distinguish "unset" from "explicitly false".
func defaultTrue(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
