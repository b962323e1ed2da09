// Package hsts provides a minimal, compiled-in HSTS preload set, consulted
// by the client context to decide whether an http:// BaseURL or request URL
// should be upgraded to https:// before dispatch.
package hsts

import "strings"

// preload holds a small set of well-known always-https hosts. This is not a
// complete mirror of the Chromium HSTS preload list — that list is
// regenerated continuously and is out of scope for a request-processing
// core — it covers the common hosts exercised by tests and the hosts most
// likely to appear in example configuration.
var preload = map[string]bool{
	"google.com":        true,
	"www.google.com":    true,
	"github.com":        true,
	"www.github.com":    true,
	"accounts.google.com": true,
}

// Contains reports whether host (or one of its parent domains) is in the
// preload set.
func Contains(host string) bool {
	host = strings.ToLower(host)
	if preload[host] {
		return true
	}
	for {
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
		if host == "" {
			return false
		}
		if preload[host] {
			return true
		}
	}
}
