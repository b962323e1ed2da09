package httpreq

import (
	"io"
	"net/url"
	"testing"

	"github.com/deploymenttheory/go-requests-engine/httpurl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) httpurl.URL {
	t.Helper()
	u, err := httpurl.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestGetBodyFromBytesIsRewindable(t *testing.T) {
	req := New("POST", mustURL(t, "https://example.com"))
	req.Body = []byte("hello")

	r1, err := req.GetBody()
	require.NoError(t, err)
	b1, _ := io.ReadAll(r1)

	r2, err := req.GetBody()
	require.NoError(t, err)
	b2, _ := io.ReadAll(r2)

	assert.Equal(t, "hello", string(b1))
	assert.Equal(t, string(b1), string(b2))
	assert.True(t, req.Rewindable())
}

func TestGetBodyFromFormValues(t *testing.T) {
	req := New("POST", mustURL(t, "https://example.com"))
	req.Body = url.Values{"a": []string{"1"}}

	r, err := req.GetBody()
	require.NoError(t, err)
	b, _ := io.ReadAll(r)

	assert.Equal(t, "a=1", string(b))
}

func TestCloneIsIndependent(t *testing.T) {
	req := New("GET", mustURL(t, "https://example.com"))
	req.Headers.Set("X-A", "1")

	clone := req.Clone()
	clone.Headers.Set("X-A", "2")

	assert.Equal(t, "1", req.Headers.Get("X-A"))
	assert.Equal(t, "2", clone.Headers.Get("X-A"))
}
