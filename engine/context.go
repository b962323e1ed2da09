package engine

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/deploymenttheory/go-requests-engine/auth"
	"github.com/deploymenttheory/go-requests-engine/backend"
	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httpcookie"
	"github.com/deploymenttheory/go-requests-engine/httperr"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpreq"
	"github.com/deploymenttheory/go-requests-engine/httpresp"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
	"github.com/deploymenttheory/go-requests-engine/logger"
	"github.com/deploymenttheory/go-requests-engine/redirect"
	"github.com/deploymenttheory/go-requests-engine/version"
)

// Context is the immutable-after-construction set of defaults every request
// a Client issues is resolved against. DefaultCookies is the one mutable
// exception: the jar accumulates cookies in place across calls, the same
// way a browser's cookie store does.
type Context struct {
	BaseURL        httpurl.URL
	DefaultHeaders httpheader.Headers
	DefaultCookies *httpcookie.Jar
	Auth           auth.Auth
	hasAuth        bool
	MaxRedirects   int
	TrustEnv       bool

	defaultTimeout time.Duration
	defaultCert    *tls.Certificate
	defaultVerify  dispatcher.TLSVerify

	dispatcher dispatcher.Dispatcher
	redirector *redirect.Engine
	backend    backend.Backend

	requestHooks  []func(*httpreq.Request)
	responseHooks []func(*httpresp.Response)

	log logger.Logger
}

// New builds a Context from cfg, selecting a dispatcher (explicit, in-process
// app, or a pooled transport), wiring a backend when supplied, and building
// the cookie jar, seeded with cfg.DefaultCookies.
func New(cfg Config) (*Context, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	d, err := resolveDispatcher(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("engine: resolving dispatcher: %w", err)
	}
	if cfg.Backend != nil {
		d = dispatcher.NewThreaded(d, cfg.Backend)
	}

	jar, err := httpcookie.NewJar()
	if err != nil {
		return nil, fmt.Errorf("engine: building cookie jar: %w", err)
	}
	if len(cfg.DefaultCookies) > 0 {
		base, parseErr := httpurl.Parse(cfg.BaseURL)
		if parseErr == nil {
			jar.UpdateFromMap(base.URL, cfg.DefaultCookies)
		}
	}

	baseURL := httpurl.Empty()
	if cfg.BaseURL != "" {
		baseURL, err = httpurl.Parse(cfg.BaseURL)
		if err != nil {
			return nil, &httperr.InvalidURLError{URL: cfg.BaseURL}
		}
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = 20
	}

	headers := cfg.DefaultHeaders
	if headers.Header == nil {
		headers = httpheader.New()
	}
	if headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", version.UserAgent())
	}

	authStrategy := cfg.Auth
	hasAuth := cfg.Auth != nil
	if authStrategy == nil {
		authStrategy = auth.None()
	}

	// Verify has no unset/false distinction the way TrustEnv's *bool does;
	// an all-zero value is treated as "not configured" and defaults to
	// verification enabled. A caller wanting to disable verification
	// globally must set CABundle or use WithVerify per call.
	verify := cfg.Verify
	if !verify.Enabled && verify.CABundle == "" {
		verify = dispatcher.TLSVerify{Enabled: true}
	}

	return &Context{
		BaseURL:        baseURL,
		DefaultHeaders: headers,
		DefaultCookies: jar,
		Auth:           authStrategy,
		hasAuth:        hasAuth,
		MaxRedirects:   maxRedirects,
		TrustEnv:       defaultTrue(cfg.TrustEnv),
		defaultTimeout: cfg.Timeout,
		defaultCert:    cfg.Cert,
		defaultVerify:  verify,
		dispatcher:     d,
		redirector:     redirect.New(d, jar, maxRedirects, log),
		backend:        cfg.Backend,
		requestHooks:   cfg.RequestHooks,
		responseHooks:  cfg.ResponseHooks,
		log:            log,
	}, nil
}

func resolveDispatcher(cfg Config, log logger.Logger) (dispatcher.Dispatcher, error) {
	if cfg.Dispatcher != nil {
		return cfg.Dispatcher, nil
	}
	if cfg.App != nil {
		return dispatcher.NewHandlerAdapter(cfg.App), nil
	}
	return dispatcher.NewPooled(cfg.PoolLimits, cfg.Proxy, cfg.HTTPVersions, log)
}

// Close releases resources held by the underlying dispatcher.
func (c *Context) Close() error {
	return c.dispatcher.Close()
}
