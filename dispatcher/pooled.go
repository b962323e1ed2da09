package dispatcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/deploymenttheory/go-requests-engine/logger"
	"github.com/deploymenttheory/go-requests-engine/proxy"
	"go.uber.org/zap"
)

// PoolLimits bounds the underlying transport's connection pool.
type PoolLimits struct {
	MaxConnsPerHost     int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Pooled is the default Dispatcher: a connection-pooling sender backed by
// net/http.Transport.
type Pooled struct {
	client *http.Client
	log    logger.Logger
}

// NewPooled builds a Pooled dispatcher. proxyCfg.URL == "" leaves the
// transport's default (environment) proxy behavior untouched. httpVersions
// is a negotiation hint: a non-empty set containing "http/1.1" but not "h2"
// disables the transport's opportunistic HTTP/2 upgrade; any other value
// (including an empty slice) leaves Go's default negotiation in place.
func NewPooled(limits PoolLimits, proxyCfg proxy.Config, httpVersions []string, log logger.Logger) (*Pooled, error) {
	if log == nil {
		log = logger.NewNop()
	}

	transport := &http.Transport{
		MaxConnsPerHost:     limits.MaxConnsPerHost,
		MaxIdleConnsPerHost: limits.MaxIdleConnsPerHost,
		IdleConnTimeout:     limits.IdleConnTimeout,
	}

	if restrictToHTTP1(httpVersions) {
		transport.ForceAttemptHTTP2 = false
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}

	if err := proxy.Configure(transport, proxyCfg, log); err != nil {
		return nil, err
	}

	log.Info("dispatcher: pooled transport initialized",
		zap.Int("max_conns_per_host", limits.MaxConnsPerHost),
		zap.Int("max_idle_conns_per_host", limits.MaxIdleConnsPerHost),
	)

	return &Pooled{
		client: &http.Client{
			Transport: transport,
			// Redirects are handled entirely by the redirect package, which
			// issues its own Send calls per hop; the underlying client must
			// never follow one on its own.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log,
	}, nil
}

// restrictToHTTP1 reports whether versions explicitly asks for HTTP/1.1
// without allowing h2.
func restrictToHTTP1(versions []string) bool {
	if len(versions) == 0 {
		return false
	}
	sawHTTP1, sawH2 := false, false
	for _, v := range versions {
		switch v {
		case "http/1.1", "HTTP/1.1":
			sawHTTP1 = true
		case "h2", "HTTP/2", "http/2":
			sawH2 = true
		}
	}
	return sawHTTP1 && !sawH2
}

func (p *Pooled) configureTLS(opts SendOptions) (*tls.Config, error) {
	if opts.Verify.CABundle == "" && opts.Cert == nil && opts.Verify.Enabled {
		return nil, nil
	}

	tlsCfg := &tls.Config{}
	if !opts.Verify.Enabled {
		tlsCfg.InsecureSkipVerify = true
	}
	if opts.Verify.CABundle != "" {
		pem, err := os.ReadFile(opts.Verify.CABundle)
		if err != nil {
			return nil, fmt.Errorf("dispatcher: reading CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("dispatcher: no certificates found in %s", opts.Verify.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if opts.Cert != nil {
		tlsCfg.Certificates = []tls.Certificate{*opts.Cert}
	}
	return tlsCfg, nil
}

// Send issues req over the pooled transport.
func (p *Pooled) Send(ctx context.Context, req *httpreq.Request, opts SendOptions) (*httpresp.Response, error) {
	tlsCfg, err := p.configureTLS(opts)
	if err != nil {
		return nil, err
	}

	transport := p.client.Transport.(*http.Transport)
	if tlsCfg != nil {
		transport = transport.Clone()
		transport.TLSClientConfig = tlsCfg
	}

	client := p.client
	if transport != p.client.Transport {
		clientCopy := *p.client
		clientCopy.Transport = transport
		client = &clientCopy
	}
	if opts.Timeout > 0 {
		clientCopy := *client
		clientCopy.Timeout = opts.Timeout
		client = &clientCopy
	}

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

	p.log.Debug("dispatcher: sending", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	respHeaders := httpheader.Headers{Header: httpResp.Header}
	if req.Streaming {
		return httpresp.New(httpResp.StatusCode, httpResp.Proto, respHeaders, httpResp.Body), nil
	}

	content, readErr := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	return httpresp.NewBuffered(httpResp.StatusCode, httpResp.Proto, respHeaders, content), nil
}

// Close idles out pooled connections.
func (p *Pooled) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
