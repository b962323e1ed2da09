// Package proxy configures outbound proxying for dispatcher.Pooled's
// underlying *http.Transport.
package proxy

import (
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-requests-engine/logger"
	"go.uber.org/zap"
)

// Config describes how a dispatcher should route requests through a proxy.
// Username/Password and Token are mutually exclusive; Username/Password wins
// if both are set.
type Config struct {
	URL      string
	Username string
	Password string
	Token    string
}

// Configure applies cfg to transport, setting its Proxy func and any
// Proxy-Authorization/Authorization CONNECT headers required. A zero-value
// Config (URL == "") leaves transport untouched.
func Configure(transport *http.Transport, cfg Config, log logger.Logger) error {
	if cfg.URL == "" {
		return nil
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return log.Error("proxy: failed to parse proxy URL", zap.Error(err))
	}

	switch {
	case cfg.Username != "" && cfg.Password != "":
		auth := url.UserPassword(cfg.Username, cfg.Password)
		parsed.User = auth
		transport.Proxy = http.ProxyURL(parsed)
		transport.ProxyConnectHeader = http.Header{
			"Proxy-Authorization": []string{auth.String()},
		}
	case cfg.Token != "":
		transport.Proxy = http.ProxyURL(parsed)
		transport.ProxyConnectHeader = http.Header{
			"Authorization": []string{"Bearer " + cfg.Token},
		}
	default:
		transport.Proxy = http.ProxyURL(parsed)
	}

	log.Info("proxy: configured", zap.String("url", cfg.URL))
	return nil
}
