package httpcookie

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFromMapSetsCookies(t *testing.T) {
	jar, err := NewJar()
	require.NoError(t, err)

	u, _ := url.Parse("https://example.com/")
	jar.UpdateFromMap(u, map[string]string{"session": "abc"})

	cookies := jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
}

func TestExtractCookiesFromSetCookieHeader(t *testing.T) {
	jar, err := NewJar()
	require.NoError(t, err)

	u, _ := url.Parse("https://example.com/")
	header := http.Header{"Set-Cookie": []string{"token=xyz; Path=/"}}

	jar.ExtractCookies(u, header)

	cookies := jar.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "xyz", cookies[0].Value)
}

func TestRedactForLoggingRedactsSensitiveNames(t *testing.T) {
	cookies := []*http.Cookie{
		{Name: "SessionID", Value: "secret"},
		{Name: "theme", Value: "dark"},
	}

	redacted := RedactForLogging(cookies)

	assert.Equal(t, "REDACTED", redacted[0].Value)
	assert.Equal(t, "dark", redacted[1].Value)
	assert.Equal(t, "secret", cookies[0].Value, "original slice must not be mutated")
}
