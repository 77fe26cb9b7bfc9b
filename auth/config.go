package auth

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/jonwraymond/dtzprofile/cache"
)

// EnvConfig holds the exchange settings read from the environment.
type EnvConfig struct {
	// Endpoint. ENV: DTZ_IDENTITY_ENDPOINT
	Endpoint string `env:"DTZ_IDENTITY_ENDPOINT,default=https://identity.dtz.rocks/api/2021-02-21/auth/apikey"`
	// Timeout per exchange. ENV: DTZ_EXCHANGE_TIMEOUT
	Timeout time.Duration `env:"DTZ_EXCHANGE_TIMEOUT,default=10s"`
	// CacheSize in entries. ENV: DTZ_PROFILE_CACHE_SIZE
	CacheSize int `env:"DTZ_PROFILE_CACHE_SIZE,default=100"`
	// CacheTTL per entry. ENV: DTZ_PROFILE_CACHE_TTL
	CacheTTL time.Duration `env:"DTZ_PROFILE_CACHE_TTL,default=1h"`
	// Coalesce concurrent misses. ENV: DTZ_EXCHANGE_COALESCE
	Coalesce bool `env:"DTZ_EXCHANGE_COALESCE,default=false"`
}

// LoadEnvConfig decodes EnvConfig from the environment. A value that does
// not parse is an error rather than a silent default.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("auth: decode environment: %w", err)
	}
	return cfg, nil
}

// ExchangeConfig converts the environment settings into an ExchangeConfig.
// Cache sizes equal to the defaults select the shared DefaultProfileCache.
func (c EnvConfig) ExchangeConfig() ExchangeConfig {
	cfg := ExchangeConfig{
		Endpoint: c.Endpoint,
		Timeout:  c.Timeout,
		Coalesce: c.Coalesce,
	}
	if c.CacheSize != cache.DefaultMaxEntries || c.CacheTTL != cache.DefaultTTL {
		cfg.CacheSize = c.CacheSize
		cfg.CacheTTL = c.CacheTTL
	}
	return cfg
}

// ExchangeConfigFromEnv reads an ExchangeConfig from the environment.
func ExchangeConfigFromEnv() (ExchangeConfig, error) {
	env, err := LoadEnvConfig()
	if err != nil {
		return ExchangeConfig{}, err
	}
	return env.ExchangeConfig(), nil
}
