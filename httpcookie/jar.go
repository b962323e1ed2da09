// Package httpcookie wraps net/http/cookiejar.Jar with the update and
// extraction operations the send and redirect pipelines need: merging a
// caller-supplied cookie map into a jar, and pulling Set-Cookie values out
// of a response into the jar under the jar's own lock.
package httpcookie

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/deploymenttheory/go-requests-engine/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// sensitiveCookieNames are redacted by RedactForLogging before a cookie
// value is ever written to a log line.
var sensitiveCookieNames = map[string]bool{
	"SessionID": true,
	"sessionid": true,
}

// Jar wraps a net/http/cookiejar.Jar, scoped by the public suffix list so
// cross-subdomain cookie scoping matches browser behavior.
type Jar struct {
	*cookiejar.Jar
}

// NewJar builds a Jar with PublicSuffixList wired in.
func NewJar() (*Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Jar{Jar: jar}, nil
}

// UpdateFromMap sets each name/value pair in m as a cookie scoped to u.
func (j *Jar) UpdateFromMap(u *url.URL, m map[string]string) {
	if len(m) == 0 {
		return
	}
	cookies := make([]*http.Cookie, 0, len(m))
	for name, value := range m {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	j.SetCookies(u, cookies)
}

// UpdateFromJar copies every cookie other holds for u into j.
func (j *Jar) UpdateFromJar(u *url.URL, other *Jar) {
	if other == nil {
		return
	}
	j.SetCookies(u, other.Cookies(u))
}

// ExtractCookies reads Set-Cookie headers from a response's header and
// stores them against reqURL, the URL of the request that produced it. No
// extra locking is needed: Jar embeds the stdlib cookiejar.Jar, already safe
// for concurrent use.
func (j *Jar) ExtractCookies(reqURL *url.URL, header http.Header) {
	resp := &http.Response{Header: header}
	cookies := resp.Cookies()
	if len(cookies) > 0 {
		j.SetCookies(reqURL, cookies)
	}
}

// SerializeCookies renders cookies as a single Cookie-header-style string.
func SerializeCookies(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		parts = append(parts, cookie.String())
	}
	return strings.Join(parts, "; ")
}

// RedactForLogging returns a copy of cookies with sensitive values replaced,
// safe to pass to a logger.Logger field.
func RedactForLogging(cookies []*http.Cookie) []*http.Cookie {
	redacted := make([]*http.Cookie, len(cookies))
	for i, cookie := range cookies {
		c := *cookie
		if sensitiveCookieNames[c.Name] {
			c.Value = "REDACTED"
		}
		redacted[i] = &c
	}
	return redacted
}

// LogCookies writes a debug-level summary of cookies through log, redacting
// sensitive values first.
func LogCookies(log logger.Logger, direction string, cookies []*http.Cookie) {
	if log == nil || len(cookies) == 0 {
		return
	}
	log.Debug("httpcookie: "+direction,
		zap.String("cookies", SerializeCookies(RedactForLogging(cookies))),
	)
}
