// Package redirect implements the redirect state machine: follow a chain of
// 3xx responses to completion, or stop early and hand back a response whose
// Next method resumes the chain later. Grounded on the teacher's
// CheckRedirect-callback redirect handler, restructured into an explicit
// loop over Dispatcher.Send calls because a CheckRedirect callback cannot
// express a lazy continuation or attach History to the response it
// produces.
package redirect

import (
	"context"
	"net/http"
	"sync"

	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httpcookie"
	"github.com/deploymenttheory/go-requests-engine/httperr"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
	"github.com/deploymenttheory/go-requests-engine/logger"
	"go.uber.org/zap"
)

// sensitiveHeaders are stripped from a redirect request whenever the
// destination is a different origin than the request that produced the
// redirect.
var sensitiveHeaders = []string{"Authorization", "Cookie", "Proxy-Authorization"}

// Engine drives one request through as many redirect hops as its policy
// and MaxRedirects allow.
type Engine struct {
	Dispatcher   dispatcher.Dispatcher
	Jar          *httpcookie.Jar
	MaxRedirects int
	Log          logger.Logger

	permMu    sync.RWMutex
	permanent map[string]string
}

// New builds a redirect Engine.
func New(d dispatcher.Dispatcher, jar *httpcookie.Jar, maxRedirects int, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		Dispatcher:   d,
		Jar:          jar,
		MaxRedirects: maxRedirects,
		Log:          log,
		permanent:    make(map[string]string),
	}
}

// hopState threads redirect bookkeeping across a Next continuation: both
// the accumulated History and the visited-URL loop guard must survive the
// deferred resumption, not just the current call stack.
type hopState struct {
	history []*httpresp.Response
	visited map[string]bool
}

// Run dispatches req and follows any redirect responses it receives. When
// allowRedirects is false, the first redirecting response is returned
// immediately with its Next method set to resume the chain.
func (e *Engine) Run(ctx context.Context, req *httpreq.Request, allowRedirects bool, opts dispatcher.SendOptions) (*httpresp.Response, error) {
	state := &hopState{visited: map[string]bool{req.URL.String(): true}}
	return e.hop(ctx, req, allowRedirects, opts, state)
}

func (e *Engine) hop(ctx context.Context, req *httpreq.Request, allowRedirects bool, opts dispatcher.SendOptions, state *hopState) (*httpresp.Response, error) {
	for {
		// precheck: spec.md's off-by-one is intentional — len(history) >
		// MaxRedirects (not >=) is checked before the next dispatch, so
		// MaxRedirects=N permits N+1 total responses.
		if len(state.history) > e.MaxRedirects {
			var last *httpresp.Response
			if len(state.history) > 0 {
				last = state.history[len(state.history)-1]
			}
			return nil, &httperr.TooManyRedirectsError{MaxRedirects: e.MaxRedirects, Count: len(state.history), Response: last}
		}

		e.applyPermanentRedirectCache(req)

		resp, err := e.Dispatcher.Send(ctx, req, opts)
		if err != nil {
			return nil, err
		}

		// post-receive: extract cookies under the jar's own lock before
		// anything else observes them.
		if e.Jar != nil {
			e.Jar.ExtractCookies(req.URL.URL, resp.Headers.Header)
		}

		if !isRedirectStatus(resp.StatusCode) {
			resp.History = snapshot(state.history)
			return resp, nil
		}

		location := resp.Headers.Get("Location")
		if location == "" {
			resp.History = snapshot(state.history)
			return resp, nil
		}

		nextURL, err := resolveLocation(req.URL, location)
		if err != nil {
			resp.Close()
			return nil, err
		}

		key := nextURL.String()
		if state.visited[key] {
			resp.Close()
			return nil, &httperr.RedirectLoopError{URL: key, Response: resp}
		}
		state.visited[key] = true

		nextReq, err := buildRedirectRequest(req, resp.StatusCode, nextURL)
		if err != nil {
			resp.Close()
			return nil, err
		}

		if isPermanentRedirect(resp.StatusCode) && (req.Method == http.MethodGet || req.Method == http.MethodHead) {
			e.cachePermanentRedirect(req.URL.String(), nextURL.String())
		}

		state.history = append(state.history, resp)
		resp.History = snapshot(state.history[:len(state.history)-1])

		e.Log.Debug("redirect: following hop",
			zap.Int("status", resp.StatusCode),
			zap.String("from", req.URL.String()),
			zap.String("to", nextURL.String()),
		)

		// decision: continue-and-discard-body, or stop-and-keep-body via a
		// deferred continuation.
		if !allowRedirects {
			capturedReq := nextReq
			resp.SetNext(func(ctx context.Context) (*httpresp.Response, error) {
				return e.hop(ctx, capturedReq, allowRedirects, opts, state)
			})
			return resp, nil
		}

		resp.Close()
		req = nextReq
	}
}

func snapshot(history []*httpresp.Response) []*httpresp.Response {
	return append([]*httpresp.Response(nil), history...)
}

func (e *Engine) applyPermanentRedirectCache(req *httpreq.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return
	}
	e.permMu.RLock()
	target, ok := e.permanent[req.URL.String()]
	e.permMu.RUnlock()
	if !ok {
		return
	}
	u, err := httpurl.Parse(target)
	if err != nil {
		return
	}
	req.URL = u
}

func (e *Engine) cachePermanentRedirect(from, to string) {
	e.permMu.Lock()
	e.permanent[from] = to
	e.permMu.Unlock()
}

func resolveLocation(base httpurl.URL, location string) (httpurl.URL, error) {
	loc, err := httpurl.Parse(location)
	if err != nil {
		return httpurl.URL{}, &httperr.InvalidURLError{URL: location}
	}
	resolved := base.Join(loc)
	if resolved.Fragment == "" && base.Fragment != "" {
		resolved = resolved.WithField("fragment", base.Fragment)
	}
	return resolved, nil
}

// buildRedirectRequest constructs the outgoing request for the next hop,
// applying the method-rewrite and header/body carry-over rules for the
// response status that triggered the redirect.
func buildRedirectRequest(req *httpreq.Request, statusCode int, nextURL httpurl.URL) (*httpreq.Request, error) {
	next := req.Clone()
	next.URL = nextURL

	switch statusCode {
	case http.StatusSeeOther:
		if next.Method != http.MethodHead {
			next.Method = http.MethodGet
		}
		next.Body = nil
	case http.StatusFound:
		// Browser-compatibility override of RFC 7231: any non-HEAD method
		// becomes GET on a 302, not just POST.
		if next.Method != http.MethodHead {
			next.Method = http.MethodGet
			next.Body = nil
		}
	case http.StatusMovedPermanently:
		if next.Method == http.MethodPost {
			next.Method = http.MethodGet
			next.Body = nil
		}
	case http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		if next.Body != nil && !req.Rewindable() {
			return nil, &httperr.RedirectBodyUnavailableError{Method: next.Method}
		}
	}

	if next.Body == nil {
		next.Headers.Del("Content-Type")
		next.Headers.Del("Content-Length")
	}

	// Cross-origin hops drop credentials. net/http.Header.Del is a
	// case-insensitive, idempotent no-op on a missing key, which resolves
	// header deletion for free. Host is not a header entry in Go's request
	// model: the dispatcher derives the outgoing Host from the URL, so only a
	// stray "Host" header entry needs deleting here.
	if !req.URL.SameOrigin(nextURL) {
		for _, h := range sensitiveHeaders {
			next.Headers.Del(h)
		}
		next.Headers.Del("Host")
		next.Cookies = nil
	}

	return next, nil
}

func isRedirectStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func isPermanentRedirect(statusCode int) bool {
	return statusCode == http.StatusMovedPermanently || statusCode == http.StatusPermanentRedirect
}
