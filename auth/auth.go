// Package auth provides the request-authentication strategies the send
// pipeline resolves and applies: none, HTTP basic, a caller-supplied
// function, and a netrc-file lookup.
package auth

import (
	"context"
	"encoding/base64"

	"github.com/deploymenttheory/go-requests-engine/httpreq"
)

// Auth mutates a prepared request to carry credentials, applied as the
// last step before a request leaves the send pipeline.
type Auth interface {
	Apply(ctx context.Context, req *httpreq.Request) error
}

type noneAuth struct{}

func (noneAuth) Apply(context.Context, *httpreq.Request) error { return nil }

// None is the no-credentials strategy.
func None() Auth { return noneAuth{} }

type basicAuth struct {
	username, password string
}

func (b basicAuth) Apply(_ context.Context, req *httpreq.Request) error {
	token := base64.StdEncoding.EncodeToString([]byte(b.username + ":" + b.password))
	req.Headers.Set("Authorization", "Basic "+token)
	return nil
}

// Basic builds an HTTP Basic authentication strategy.
func Basic(username, password string) Auth {
	return basicAuth{username: username, password: password}
}

type customAuth struct {
	fn func(req *httpreq.Request) error
}

func (c customAuth) Apply(_ context.Context, req *httpreq.Request) error {
	return c.fn(req)
}

// Custom wraps an arbitrary function as an Auth strategy.
func Custom(fn func(req *httpreq.Request) error) Auth {
	return customAuth{fn: fn}
}

// FromPair promotes a 2-element [username, password] credential pair to
// Basic, for callers holding a plain credential pair instead of an explicit
// Auth value (for example to pass to engine.WithAuth).
func FromPair(pair [2]string) Auth {
	return Basic(pair[0], pair[1])
}
