// Package httpheader wraps net/http.Header with the merge and logging
// operations the client context and send pipeline need. Case-insensitive
// lookup, idempotent deletion of a missing key, and the order of values
// under one name are inherited for free from net/http.Header; the order of
// distinct names is not kept, since net/http.Header is a map.
package httpheader

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-requests-engine/logger"
	"go.uber.org/zap"
)

// sensitiveHeaderNames are redacted by Redact before a header value is ever
// written to a log line.
var sensitiveHeaderNames = map[string]bool{
	"Authorization": true,
	"Access-Token":  true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

// Headers is a thin wrapper over net/http.Header giving it value-level
// Merge semantics.
type Headers struct {
	http.Header
}

// New returns an empty Headers.
func New() Headers {
	return Headers{Header: http.Header{}}
}

// FromMap builds Headers from a plain string map, one value per key.
func FromMap(m map[string]string) Headers {
	h := New()
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// Clone returns a deep copy.
func (h Headers) Clone() Headers {
	return Headers{Header: h.Header.Clone()}
}

// Merge returns a new Headers containing h's entries overridden by override's
// entries: keys present in override replace h's value for that key entirely,
// keys only in h are carried through unchanged. This is the header-merge
// rule the client context and per-request overrides both use.
func Merge(base, override Headers) Headers {
	merged := base.Clone()
	if merged.Header == nil {
		merged = New()
	}
	for name, values := range override.Header {
		merged.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	return merged
}

// SetBearerToken sets the Authorization header to "Bearer <token>", adding
// the prefix only if not already present.
func (h Headers) SetBearerToken(token string) {
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	h.Set("Authorization", token)
}

// String renders headers one per line, for logging.
func (h Headers) String() string {
	lines := make([]string, 0, len(h.Header))
	for name, values := range h.Header {
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(values, ", ")))
	}
	return strings.Join(lines, "\n")
}

// Redact returns a copy of h with sensitive header values replaced, safe to
// pass to a logger.Logger field.
func (h Headers) Redact() Headers {
	redacted := New()
	for name, values := range h.Header {
		if len(values) == 0 {
			continue
		}
		if sensitiveHeaderNames[http.CanonicalHeaderKey(name)] {
			redacted.Set(name, "REDACTED")
			continue
		}
		redacted.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	return redacted
}

// Log writes a debug-level summary of h through log, redacting sensitive
// values first. No-op unless log's level is Debug or more verbose.
func Log(log logger.Logger, direction string, h Headers) {
	if log == nil || log.GetLogLevel() > logger.LogLevelDebug {
		return
	}
	log.Debug("httpheader: "+direction, zap.String("headers", h.Redact().String()))
}

// CheckDeprecation logs a warning if resp carries a Deprecation header.
func CheckDeprecation(log logger.Logger, resp *http.Response) {
	if log == nil || resp == nil {
		return
	}
	deprecation := resp.Header.Get("Deprecation")
	if deprecation == "" {
		return
	}
	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.String()
	}
	log.Warn("httpheader: endpoint is deprecated",
		zap.String("date", deprecation),
		zap.String("endpoint", endpoint),
	)
}
