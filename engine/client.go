package engine

import (
	"context"
	"net/http"

	"github.com/deploymenttheory/go-requests-engine/httpresp"
)

// Client is the caller-facing verb-method surface over a Context.
type Client struct {
	ctx *Context
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	ctx, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{ctx: ctx}, nil
}

// Request issues method against rawurl with opts applied.
func (c *Client) Request(ctx context.Context, method, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.ctx.Send(ctx, method, rawurl, opts...)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodGet, rawurl, opts...)
}

// Options issues an OPTIONS request.
func (c *Client) Options(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodOptions, rawurl, opts...)
}

// Head issues a HEAD request. Unlike the other verbs it does not follow
// redirects unless opts include WithAllowRedirects(true).
func (c *Client) Head(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodHead, rawurl, append([]RequestOption{WithAllowRedirects(false)}, opts...)...)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodPost, rawurl, opts...)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodPut, rawurl, opts...)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodPatch, rawurl, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, rawurl string, opts ...RequestOption) (*httpresp.Response, error) {
	return c.Request(ctx, http.MethodDelete, rawurl, opts...)
}

// Close releases the underlying dispatcher's resources.
func (c *Client) Close() error {
	return c.ctx.Close()
}

// Scope returns c alongside a deferrable close func, the Go shape of
// entering a scope that returns the client and exits by closing it.
func (c *Client) Scope() (*Client, func()) {
	return c, func() { c.Close() }
}

// WithBaseURL returns a new Client sharing this one's dispatcher, jar, and
// auth, but resolving relative URLs against baseURL instead — the Go shape
// of httpx's practice of building a sub-client scoped to one API's base
// path without paying for a second connection pool.
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	scoped, err := c.ctx.MergeURL(baseURL)
	if err != nil {
		return nil, err
	}
	clone := *c.ctx
	clone.BaseURL = scoped
	return &Client{ctx: &clone}, nil
}
