// Package httpurl wraps net/url.URL with the join, override, and merge
// operations the client context and send pipeline need to resolve a
// request URL against a base URL and per-call query parameters.
package httpurl

import "net/url"

// URL wraps *net/url.URL, adding the operations the engine needs beyond
// what net/url already provides.
type URL struct {
	*url.URL
}

// Parse parses rawurl into a URL, mirroring net/url.Parse.
func Parse(rawurl string) (URL, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return URL{}, err
	}
	return URL{URL: u}, nil
}

// Empty returns the identity URL under Join: a URL with no scheme or host,
// used as the base when no BaseURL is configured.
func Empty() URL {
	return URL{URL: &url.URL{}}
}

// IsRelative reports whether u has no scheme and no host, i.e. it cannot be
// dispatched on its own and must be resolved against a base.
func (u URL) IsRelative() bool {
	return u.URL == nil || (u.Scheme == "" && u.Host == "")
}

// Join resolves ref against u the way a browser resolves an anchor href
// against the page URL: an absolute ref is returned unchanged, a relative
// ref is resolved against u, fragments and queries follow net/url.ResolveReference.
func (u URL) Join(ref URL) URL {
	if ref.URL == nil {
		return u
	}
	if u.URL == nil {
		return ref
	}
	return URL{URL: u.URL.ResolveReference(ref.URL)}
}

// WithField returns a copy of u with a single component replaced, leaving u
// itself unmodified. field is one of "scheme", "host", "path", "rawquery",
// "fragment".
func (u URL) WithField(field, value string) URL {
	cp := *u.URL
	switch field {
	case "scheme":
		cp.Scheme = value
	case "host":
		cp.Host = value
	case "path":
		cp.Path = value
	case "rawquery":
		cp.RawQuery = value
	case "fragment":
		cp.Fragment = value
	}
	return URL{URL: &cp}
}

// WithQuery merges params into u's existing query string, params taking
// precedence over any existing value for the same key. This mirrors the
// httpx `params=` merge-not-replace behavior.
func (u URL) WithQuery(params url.Values) URL {
	if len(params) == 0 {
		return u
	}
	cp := *u.URL
	existing := cp.Query()
	for key, values := range params {
		existing[key] = values
	}
	cp.RawQuery = existing.Encode()
	return URL{URL: &cp}
}

// IsHTTP reports whether u's scheme is http or https.
func (u URL) IsHTTP() bool {
	return u.URL != nil && (u.Scheme == "http" || u.Scheme == "https")
}

// SameOrigin reports whether u and other share scheme and host, the test
// used to decide whether Authorization and cookies survive a redirect hop.
func (u URL) SameOrigin(other URL) bool {
	if u.URL == nil || other.URL == nil {
		return false
	}
	return u.Scheme == other.Scheme && u.Host == other.Host
}
