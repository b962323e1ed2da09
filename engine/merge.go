package engine

import (
	"net/http"

	"github.com/deploymenttheory/go-requests-engine/hsts"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httperr"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
)

// MergeURL resolves rawurl against the Context's BaseURL, the same
// relative-to-base resolution a browser performs for a fetch() call against
// a page origin. An already-absolute rawurl is returned unchanged by Join.
func (c *Context) MergeURL(rawurl string) (httpurl.URL, error) {
	u, err := httpurl.Parse(rawurl)
	if err != nil {
		return httpurl.URL{}, &httperr.InvalidURLError{URL: rawurl}
	}
	merged := c.BaseURL.Join(u)
	if !merged.IsHTTP() {
		return httpurl.URL{}, &httperr.InvalidURLError{URL: merged.String()}
	}
	if merged.Scheme == "http" && hsts.Contains(merged.Hostname()) {
		merged = merged.WithField("scheme", "https")
	}
	return merged, nil
}

// MergeHeaders overlays per-request headers on top of the Context's
// defaults, override winning key for key.
func (c *Context) MergeHeaders(override httpheader.Headers) httpheader.Headers {
	return httpheader.Merge(c.DefaultHeaders, override)
}

// MergeCookies returns the cookies the jar already holds for u, plus any
// per-request cookies layered on top — a snapshot, not a live view, so a
// redirect hop can mutate its own copy freely.
func (c *Context) MergeCookies(u *httpurl.URL, override []*http.Cookie) []*http.Cookie {
	cookies := append([]*http.Cookie(nil), c.DefaultCookies.Cookies(u.URL)...)
	return append(cookies, override...)
}
