package dispatcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
)

// InProcess dispatches directly against an in-process http.Handler,
// skipping the network entirely — the Go structural equivalent of mounting
// a WSGI/ASGI app directly under a client. Go has no variadic-arity
// introspection to distinguish a two-argument handler from a three-argument
// one the way Python can, so the two shapes become two concrete
// constructors instead of one that inspects its argument.
type InProcess struct {
	handler http.Handler
}

// NewHandlerAdapter builds an InProcess dispatcher over an http.Handler.
func NewHandlerAdapter(h http.Handler) *InProcess {
	return &InProcess{handler: h}
}

// NewHandlerFuncAdapter builds an InProcess dispatcher over an
// http.HandlerFunc.
func NewHandlerFuncAdapter(f http.HandlerFunc) *InProcess {
	return &InProcess{handler: f}
}

func (d *InProcess) Send(ctx context.Context, req *httpreq.Request, _ SendOptions) (*httpresp.Response, error) {
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	var bodyReader io.Reader
	if body != nil {
		bodyReader = body
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	httpReq.Header = req.Headers.Header
	for _, c := range req.Cookies {
		httpReq.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, httpReq)
	result := rec.Result()

	content, err := io.ReadAll(result.Body)
	result.Body.Close()
	if err != nil {
		return nil, err
	}

	return httpresp.NewBuffered(result.StatusCode, result.Proto, httpheader.Headers{Header: result.Header}, content), nil
}

func (d *InProcess) Close() error { return nil }
