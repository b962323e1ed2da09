package engine

import (
	"os"
	"strconv"
	"time"

	"github.com/deploymenttheory/go-requests-engine/dispatcher"
	"github.com/deploymenttheory/go-requests-engine/logger"
)

// Default knobs applied by ConfigFromEnv when no environment variable or
// prior value supplies one, grounded on the teacher's DefaultMaxRetryAttempts
// family of constants.
const (
	DefaultMaxRedirects        = 20
	DefaultMaxConnsPerHost     = 0
	DefaultMaxIdleConnsPerHost = 100
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultTimeout             = 30 * time.Second
)

// ConfigFromEnv populates cfg from well-known environment variables, the Go
// re-expression of the teacher's loadConfigFromEnv: any field already set on
// cfg is left untouched; an unset field takes the corresponding variable's
// value, or the default when the variable is absent.
func ConfigFromEnv(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = getEnvOrDefault("REQUESTS_ENGINE_BASE_URL", cfg.BaseURL)
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = parseInt(getEnvOrDefault("REQUESTS_ENGINE_MAX_REDIRECTS", ""), DefaultMaxRedirects)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = parseDuration(getEnvOrDefault("REQUESTS_ENGINE_TIMEOUT", ""), DefaultTimeout)
	}
	if cfg.PoolLimits.MaxConnsPerHost == 0 {
		cfg.PoolLimits.MaxConnsPerHost = parseInt(getEnvOrDefault("REQUESTS_ENGINE_MAX_CONNS_PER_HOST", ""), DefaultMaxConnsPerHost)
	}
	if cfg.PoolLimits.MaxIdleConnsPerHost == 0 {
		cfg.PoolLimits.MaxIdleConnsPerHost = parseInt(getEnvOrDefault("REQUESTS_ENGINE_MAX_IDLE_CONNS_PER_HOST", ""), DefaultMaxIdleConnsPerHost)
	}
	if cfg.PoolLimits.IdleConnTimeout == 0 {
		cfg.PoolLimits.IdleConnTimeout = parseDuration(getEnvOrDefault("REQUESTS_ENGINE_IDLE_CONN_TIMEOUT", ""), DefaultIdleConnTimeout)
	}
	if cfg.Proxy.URL == "" {
		cfg.Proxy.URL = getEnvOrDefault("REQUESTS_ENGINE_PROXY_URL", "")
	}
	if cfg.TrustEnv == nil {
		trust := parseBool(getEnvOrDefault("REQUESTS_ENGINE_TRUST_ENV", "true"))
		cfg.TrustEnv = &trust
	}
	if cfg.Logger == nil {
		level := logger.ParseLogLevelFromString(getEnvOrDefault("REQUESTS_ENGINE_LOG_LEVEL", ""))
		cfg.Logger = logger.New(level)
	}
	if !cfg.Verify.Enabled && cfg.Verify.CABundle == "" {
		cfg.Verify = dispatcher.TLSVerify{Enabled: parseBool(getEnvOrDefault("REQUESTS_ENGINE_TLS_VERIFY", "true"))}
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func parseBool(value string) bool {
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return result
}

func parseInt(value string, defaultVal int) int {
	if value == "" {
		return defaultVal
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return result
}

func parseDuration(value string, defaultVal time.Duration) time.Duration {
	if value == "" {
		return defaultVal
	}
	result, err := time.ParseDuration(value)
	if err != nil {
		return defaultVal
	}
	return result
}
