package syncengine

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/deploymenttheory/go-requests-engine/backend"
	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/engine"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	body string
}

func (d *stubDispatcher) Send(_ context.Context, req *httpreq.Request, _ dispatcher.SendOptions) (*httpresp.Response, error) {
	if req.Streaming {
		return httpresp.New(http.StatusOK, "HTTP/1.1", httpheader.New(), io.NopCloser(stringsReader(d.body))), nil
	}
	return httpresp.NewBuffered(http.StatusOK, "HTTP/1.1", httpheader.New(), []byte(d.body)), nil
}

func (d *stubDispatcher) Close() error { return nil }

type stringsReader string

func (s stringsReader) Read(p []byte) (int, error) {
	n := copy(p, s)
	if n == 0 {
		return 0, io.EOF
	}
	return n, io.EOF
}

func TestNewClientRejectsNonGoroutineBackend(t *testing.T) {
	_, err := NewClient(engine.Config{Backend: fakeBackend{}})
	require.Error(t, err)
}

func TestClientGetReturnsBufferedResponse(t *testing.T) {
	d := &stubDispatcher{body: "hello"}
	client, err := NewClient(engine.Config{BaseURL: "http://example.com", Dispatcher: d})
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientStreamDrainsBufferedResponseAsSingleChunk(t *testing.T) {
	d := &stubDispatcher{body: "hello"}
	client, err := NewClient(engine.Config{BaseURL: "http://example.com", Dispatcher: d})
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Get(context.Background(), "/")
	require.NoError(t, err)

	iter := client.Stream(context.Background(), resp, 0)
	chunk, err := iter.Next()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(chunk))

	_, err = iter.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestClientScopeReturnsSelfAndDeferrableClose(t *testing.T) {
	d := &stubDispatcher{body: "hello"}
	client, err := NewClient(engine.Config{Dispatcher: d})
	require.NoError(t, err)

	scoped, closeFn := client.Scope()
	assert.Same(t, client, scoped)
	closeFn()
}

func TestClientCloseIsIdempotent(t *testing.T) {
	d := &stubDispatcher{body: "hello"}
	client, err := NewClient(engine.Config{Dispatcher: d})
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

// fakeBackend is a non-Goroutine backend.Backend, used only to exercise the
// type-assertion rejection in NewClient.
type fakeBackend struct{}

func (fakeBackend) Run(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	return fn(ctx)
}

func (fakeBackend) IterateInThreadPool(ctx context.Context, it backend.BlockingIter) backend.AsyncIter {
	return backend.NewAsyncIter(func(context.Context) ([]byte, error) { return it.Next() })
}

func (fakeBackend) Iterate(ctx context.Context, it backend.AsyncIter) backend.BlockingIter {
	return backend.NewBlockingIter(func() ([]byte, error) { return it.Next(ctx) })
}
