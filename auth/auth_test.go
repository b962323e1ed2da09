package auth

import (
	"context"
	"testing"

	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T) *httpreq.Request {
	t.Helper()
	u, err := httpurl.Parse("https://example.com")
	require.NoError(t, err)
	return httpreq.New("GET", u)
}

func TestNoneAppliesNothing(t *testing.T) {
	req := mustRequest(t)
	require.NoError(t, None().Apply(context.Background(), req))
	assert.Empty(t, req.Headers.Get("Authorization"))
}

func TestBasicSetsAuthorizationHeader(t *testing.T) {
	req := mustRequest(t)
	require.NoError(t, Basic("user", "pass").Apply(context.Background(), req))
	assert.Equal(t, "Basic dXNlcjpwYXNz", req.Headers.Get("Authorization"))
}

func TestCustomInvokesFunction(t *testing.T) {
	req := mustRequest(t)
	called := false
	a := Custom(func(r *httpreq.Request) error {
		called = true
		r.Headers.Set("X-Custom", "1")
		return nil
	})

	require.NoError(t, a.Apply(context.Background(), req))
	assert.True(t, called)
	assert.Equal(t, "1", req.Headers.Get("X-Custom"))
}

func TestFromPairPromotesToBasic(t *testing.T) {
	req := mustRequest(t)
	require.NoError(t, FromPair([2]string{"user", "pass"}).Apply(context.Background(), req))
	assert.Equal(t, "Basic dXNlcjpwYXNz", req.Headers.Get("Authorization"))
}
