package redirect

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httperr"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDispatcher returns one response per call, in order, keyed only by
// call count — enough to drive the redirect engine through a fixed chain.
type scriptedDispatcher struct {
	responses []*httpresp.Response
	calls     int
}

func (s *scriptedDispatcher) Send(ctx context.Context, req *httpreq.Request, opts dispatcher.SendOptions) (*httpresp.Response, error) {
	if s.calls >= len(s.responses) {
		return nil, errors.New("scriptedDispatcher: no more responses")
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

func (s *scriptedDispatcher) Close() error { return nil }

func redirectResponse(statusCode int, location string) *httpresp.Response {
	h := httpheader.New()
	h.Set("Location", location)
	return httpresp.NewBuffered(statusCode, "HTTP/1.1", h, nil)
}

func terminalResponse(statusCode int) *httpresp.Response {
	return httpresp.NewBuffered(statusCode, "HTTP/1.1", httpheader.New(), []byte("ok"))
}

func mustURL(t *testing.T, raw string) httpurl.URL {
	t.Helper()
	u, err := httpurl.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRunFollowsChainToTerminalResponse(t *testing.T) {
	d := &scriptedDispatcher{responses: []*httpresp.Response{
		redirectResponse(http.StatusFound, "http://example.com/b"),
		terminalResponse(http.StatusOK),
	}}
	engine := New(d, nil, 5, nil)
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	resp, err := engine.Run(context.Background(), req, true, dispatcher.SendOptions{})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.History, 1)
}

func TestRunRejectsRedirectLoop(t *testing.T) {
	d := &scriptedDispatcher{responses: []*httpresp.Response{
		redirectResponse(http.StatusFound, "http://example.com/a"),
	}}
	engine := New(d, nil, 5, nil)
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	_, err := engine.Run(context.Background(), req, true, dispatcher.SendOptions{})

	require.Error(t, err)
	var loopErr *httperr.RedirectLoopError
	assert.ErrorAs(t, err, &loopErr)
	require.NotNil(t, loopErr.Response)
	assert.Equal(t, http.StatusFound, loopErr.Response.StatusCode)
}

func TestRunRespectsOffByOneMaxRedirects(t *testing.T) {
	// MaxRedirects=1 must permit exactly 2 total responses: one redirect,
	// one terminal.
	d := &scriptedDispatcher{responses: []*httpresp.Response{
		redirectResponse(http.StatusFound, "http://example.com/b"),
		terminalResponse(http.StatusOK),
	}}
	engine := New(d, nil, 1, nil)
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	resp, err := engine.Run(context.Background(), req, true, dispatcher.SendOptions{})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRunTooManyRedirectsAtExactBoundary(t *testing.T) {
	d := &scriptedDispatcher{responses: []*httpresp.Response{
		redirectResponse(http.StatusFound, "http://example.com/b"),
		redirectResponse(http.StatusFound, "http://example.com/c"),
	}}
	engine := New(d, nil, 1, nil)
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	_, err := engine.Run(context.Background(), req, true, dispatcher.SendOptions{})

	require.Error(t, err)
	var tooMany *httperr.TooManyRedirectsError
	assert.ErrorAs(t, err, &tooMany)
	require.NotNil(t, tooMany.Response)
	assert.Equal(t, http.StatusFound, tooMany.Response.StatusCode)
}

func TestRunTooManyRedirectsAttachesLastResponseOfFiveHopChain(t *testing.T) {
	// Five-hop chain a -> a/2 -> ... -> a/6 with max_redirects=4: the
	// cutoff's attached last response is the one fetched from a/5 — the
	// fifth response in the scripted sequence below.
	fifthResponse := redirectResponse(http.StatusFound, "http://example.com/a/6")
	d := &scriptedDispatcher{responses: []*httpresp.Response{
		redirectResponse(http.StatusFound, "http://example.com/a/2"),
		redirectResponse(http.StatusFound, "http://example.com/a/3"),
		redirectResponse(http.StatusFound, "http://example.com/a/4"),
		redirectResponse(http.StatusFound, "http://example.com/a/5"),
		fifthResponse,
	}}
	engine := New(d, nil, 4, nil)
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	_, err := engine.Run(context.Background(), req, true, dispatcher.SendOptions{})

	require.Error(t, err)
	var tooMany *httperr.TooManyRedirectsError
	assert.ErrorAs(t, err, &tooMany)
	assert.Same(t, fifthResponse, tooMany.Response)
}

func TestRunWithAllowRedirectsFalseReturnsDeferredNext(t *testing.T) {
	d := &scriptedDispatcher{responses: []*httpresp.Response{
		redirectResponse(http.StatusFound, "http://example.com/b"),
		terminalResponse(http.StatusOK),
	}}
	engine := New(d, nil, 5, nil)
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	resp, err := engine.Run(context.Background(), req, false, dispatcher.SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	next, err := resp.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, http.StatusOK, next.StatusCode)
}

func TestBuildRedirectRequestRewritesAnyNonHeadMethodOn302(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodPost} {
		req := httpreq.New(method, mustURL(t, "http://example.com/a"))
		req.Body = []byte("payload")

		next, err := buildRedirectRequest(req, http.StatusFound, mustURL(t, "http://example.com/b"))

		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, next.Method, "method %s should rewrite to GET on 302", method)
		assert.Nil(t, next.Body, "method %s should drop its body on 302", method)
	}
}

func TestBuildRedirectRequestPreserves302Head(t *testing.T) {
	req := httpreq.New(http.MethodHead, mustURL(t, "http://example.com/a"))

	next, err := buildRedirectRequest(req, http.StatusFound, mustURL(t, "http://example.com/b"))

	require.NoError(t, err)
	assert.Equal(t, http.MethodHead, next.Method)
}

func TestBuildRedirectRequestRewritesMethodOn303(t *testing.T) {
	req := httpreq.New(http.MethodPost, mustURL(t, "http://example.com/a"))
	req.Body = []byte("payload")

	next, err := buildRedirectRequest(req, http.StatusSeeOther, mustURL(t, "http://example.com/b"))

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, next.Method)
	assert.Nil(t, next.Body)
}

func TestBuildRedirectRequestStripsAuthorizationCrossOrigin(t *testing.T) {
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))
	req.Headers.Set("Authorization", "Bearer token")

	next, err := buildRedirectRequest(req, http.StatusFound, mustURL(t, "http://other.example/b"))

	require.NoError(t, err)
	assert.Empty(t, next.Headers.Get("Authorization"))
}

func TestBuildRedirectRequestKeepsAuthorizationSameOrigin(t *testing.T) {
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))
	req.Headers.Set("Authorization", "Bearer token")

	next, err := buildRedirectRequest(req, http.StatusFound, mustURL(t, "http://example.com/b"))

	require.NoError(t, err)
	assert.Equal(t, "Bearer token", next.Headers.Get("Authorization"))
}

func TestBuildRedirectRequestHeaderDeleteOnMissingKeyIsNoop(t *testing.T) {
	req := httpreq.New(http.MethodGet, mustURL(t, "http://example.com/a"))

	next, err := buildRedirectRequest(req, http.StatusFound, mustURL(t, "http://other.example/b"))

	require.NoError(t, err)
	assert.Empty(t, next.Headers.Get("Authorization"))
	assert.Empty(t, next.Headers.Get("Host"))
}
