package dispatcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deploymenttheory/go-requests-engine/backend"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
	"github.com/deploymenttheory/go-requests-engine/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPooledDisablesHTTP2WhenVersionsRestrictToHTTP1(t *testing.T) {
	d, err := NewPooled(PoolLimits{}, proxy.Config{}, []string{"http/1.1"}, nil)
	require.NoError(t, err)
	defer d.Close()

	transport := d.client.Transport.(*http.Transport)
	assert.False(t, transport.ForceAttemptHTTP2)
	assert.NotNil(t, transport.TLSNextProto)
}

func TestNewPooledLeavesDefaultNegotiationWhenVersionsAllowH2(t *testing.T) {
	d, err := NewPooled(PoolLimits{}, proxy.Config{}, []string{"http/1.1", "h2"}, nil)
	require.NoError(t, err)
	defer d.Close()

	transport := d.client.Transport.(*http.Transport)
	assert.Nil(t, transport.TLSNextProto)
}

func TestPooledSendReturnsBufferedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	d, err := NewPooled(PoolLimits{}, proxy.Config{}, nil, nil)
	require.NoError(t, err)
	defer d.Close()

	u, err := httpurl.Parse(server.URL)
	require.NoError(t, err)
	req := httpreq.New("GET", u)

	resp, err := d.Send(context.Background(), req, SendOptions{Verify: TLSVerify{Enabled: true}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := resp.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestInProcessDispatchesWithoutNetwork(t *testing.T) {
	d := NewHandlerFuncAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	})

	u, err := httpurl.Parse("http://in-process.local/things")
	require.NoError(t, err)
	req := httpreq.New("POST", u)

	resp, err := d.Send(context.Background(), req, SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestThreadedAdaptsBlockingSender(t *testing.T) {
	inner := NewHandlerFuncAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	threaded := NewThreaded(inner, backend.NewGoroutine(2, nil))

	u, err := httpurl.Parse("http://in-process.local/")
	require.NoError(t, err)
	req := httpreq.New("GET", u)

	resp, err := threaded.Send(context.Background(), req, SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
