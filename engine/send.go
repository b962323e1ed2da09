package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/deploymenttheory/go-requests-engine/auth"
	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httperr"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
)

// resolveBody converts a requestConfig's body value into the form
// httpreq.Request.Body accepts, JSON-encoding a jsonBody wrapper and
// reporting the Content-Type that goes with it.
func resolveBody(body any) (any, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case jsonBody:
		encoded, err := json.Marshal(b.value)
		if err != nil {
			return nil, "", fmt.Errorf("engine: encoding JSON body: %w", err)
		}
		return encoded, "application/json", nil
	case url.Values:
		return b, "application/x-www-form-urlencoded", nil
	case httpreq.Multipart:
		encoded, contentType, err := b.Encode()
		if err != nil {
			return nil, "", fmt.Errorf("engine: encoding multipart body: %w", err)
		}
		return encoded, contentType, nil
	default:
		return body, "", nil
	}
}

// Send runs the full pipeline for one request: resolve the URL against
// BaseURL, merge headers and cookies, resolve auth, dispatch through the
// redirect engine, and run the configured hooks at their respective points.
func (c *Context) Send(ctx context.Context, method, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	rc := &requestConfig{}
	for _, opt := range opts {
		opt(rc)
	}

	// Step 1: resolve the URL, rejecting anything that is not absolute
	// http(s) once merged against BaseURL, and unconditionally upgrading to
	// https when the host is HSTS-preloaded.
	u, err := c.MergeURL(rawurl)
	if err != nil {
		return nil, err
	}
	if len(rc.params) > 0 {
		u = u.WithQuery(rc.params)
	}

	// Step 2: merge headers, seeding a default Accept if neither the
	// Context nor the call supplied one.
	headers := c.MergeHeaders(rc.headers)
	if headers.Get("Accept") == "" {
		headers.Set("Accept", "*/*")
	}

	// Step 3: merge cookies from the jar and any per-call overrides.
	cookies := c.MergeCookies(&u, rc.cookies)

	req := httpreq.New(method, u)
	req.Headers = headers
	req.Cookies = cookies
	req.Streaming = rc.streaming

	if body, contentType, bodyErr := resolveBody(rc.body); bodyErr != nil {
		return nil, bodyErr
	} else if body != nil {
		req.Body = body
		if contentType != "" && req.Headers.Get("Content-Type") == "" {
			req.Headers.Set("Content-Type", contentType)
		}
	}

	// Step 4: resolve auth in priority order — explicit per-call auth,
	// then URL userinfo, then the Context's explicitly configured auth,
	// then an opportunistic netrc lookup when the caller trusts the
	// environment, and finally no credentials at all.
	resolved := c.resolveAuth(rc, &u)
	if err := resolved.Apply(ctx, req); err != nil {
		return nil, &httperr.RequestError{Request: req, Err: err}
	}

	for _, hook := range c.requestHooks {
		hook(req)
	}

	sendOpts := dispatcher.SendOptions{Verify: c.defaultVerify, Cert: c.defaultCert, Timeout: c.defaultTimeout}
	if rc.verify != nil {
		sendOpts.Verify = *rc.verify
	}
	if rc.cert != nil {
		sendOpts.Cert = rc.cert
	}
	if rc.timeout > 0 {
		sendOpts.Timeout = rc.timeout
	}

	allowRedirects := true
	if rc.allowRedirects != nil {
		allowRedirects = *rc.allowRedirects
	}

	// Step 5: dispatch through the redirect engine, which owns hop-by-hop
	// cookie extraction and permanent-redirect caching.
	resp, err := c.redirector.Run(ctx, req, allowRedirects, sendOpts)
	if err != nil {
		return nil, &httperr.RequestError{Request: req, Err: err}
	}

	// Step 6: run response hooks, and guarantee the body is released if a
	// non-streaming caller never reads it.
	for _, hook := range c.responseHooks {
		hook(resp)
	}
	if req.Streaming {
		resp.WatchContext(ctx)
	} else {
		if _, readErr := resp.Read(ctx); readErr != nil {
			resp.Close()
			return nil, &httperr.RequestError{Request: req, Err: readErr}
		}
	}

	return resp, nil
}

// resolveAuth picks the credential strategy for one call, in priority
// order: an explicit per-call override, credentials embedded in the URL
// itself, the Context's explicitly configured strategy, an opportunistic
// netrc lookup when the caller trusts the environment, and finally none.
func (c *Context) resolveAuth(rc *requestConfig, u *httpurl.URL) auth.Auth {
	if rc.auth != nil {
		return rc.auth
	}
	if u.User != nil {
		password, _ := u.User.Password()
		return auth.Basic(u.User.Username(), password)
	}
	if c.hasAuth {
		return c.Auth
	}
	trustEnv := c.TrustEnv
	if rc.trustEnv != nil {
		trustEnv = *rc.trustEnv
	}
	if trustEnv {
		return auth.NetrcLookup("")
	}
	return auth.None()
}
