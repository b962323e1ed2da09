package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"gopkg.in/yaml.v3"
)

func headersFromMap(m map[string]string) httpheader.Headers {
	return httpheader.FromMap(m)
}

// fileConfig is the YAML shape ConfigFromFile decodes, the Go re-expression
// of the teacher's JSON ClientConfig file — re-expressed in YAML since the
// teacher's own example pack reaches for gopkg.in/yaml.v3 wherever
// structured configuration is read from disk.
type fileConfig struct {
	BaseURL      string        `yaml:"base_url"`
	MaxRedirects int           `yaml:"max_redirects"`
	Timeout      time.Duration `yaml:"timeout"`
	TrustEnv     *bool         `yaml:"trust_env"`
	LogLevel     string        `yaml:"log_level"`
	Proxy        struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Token    string `yaml:"token"`
	} `yaml:"proxy"`
	Pool struct {
		MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
		MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
		IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
	} `yaml:"pool"`
	Verify struct {
		Enabled  bool   `yaml:"enabled"`
		CABundle string `yaml:"ca_bundle"`
	} `yaml:"verify"`
	DefaultHeaders map[string]string `yaml:"default_headers"`
	DefaultCookies map[string]string `yaml:"default_cookies"`
}

// ConfigFromFile reads a YAML configuration file at path and overlays it
// onto cfg, leaving any field cfg already set untouched. Grounded on the
// teacher's loadConfigFromFile / SetClientConfiguration fallback order: env
// first, then file, so a field the caller or environment already resolved
// is never clobbered by the file.
func ConfigFromFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: reading config file %q: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("engine: parsing config file %q: %w", path, err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fc.BaseURL
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = fc.MaxRedirects
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = fc.Timeout
	}
	if cfg.TrustEnv == nil {
		cfg.TrustEnv = fc.TrustEnv
	}
	if cfg.Proxy.URL == "" {
		cfg.Proxy.URL = fc.Proxy.URL
		cfg.Proxy.Username = fc.Proxy.Username
		cfg.Proxy.Password = fc.Proxy.Password
		cfg.Proxy.Token = fc.Proxy.Token
	}
	if cfg.PoolLimits.MaxConnsPerHost == 0 {
		cfg.PoolLimits.MaxConnsPerHost = fc.Pool.MaxConnsPerHost
	}
	if cfg.PoolLimits.MaxIdleConnsPerHost == 0 {
		cfg.PoolLimits.MaxIdleConnsPerHost = fc.Pool.MaxIdleConnsPerHost
	}
	if cfg.PoolLimits.IdleConnTimeout == 0 {
		cfg.PoolLimits.IdleConnTimeout = fc.Pool.IdleConnTimeout
	}
	if !cfg.Verify.Enabled && cfg.Verify.CABundle == "" && (fc.Verify.Enabled || fc.Verify.CABundle != "") {
		cfg.Verify = dispatcher.TLSVerify{Enabled: fc.Verify.Enabled, CABundle: fc.Verify.CABundle}
	}
	if cfg.DefaultHeaders.Header == nil && len(fc.DefaultHeaders) > 0 {
		cfg.DefaultHeaders = headersFromMap(fc.DefaultHeaders)
	}
	if len(cfg.DefaultCookies) == 0 && len(fc.DefaultCookies) > 0 {
		cfg.DefaultCookies = fc.DefaultCookies
	}

	return cfg, nil
}
