package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/dtzprofile/cache"
	"github.com/jonwraymond/dtzprofile/identifier"
	"github.com/jonwraymond/dtzprofile/observe"
	"github.com/jonwraymond/dtzprofile/resilience"
)

// Exchange defaults.
const (
	DefaultExchangeEndpoint = "https://identity.dtz.rocks/api/2021-02-21/auth/apikey"
	DefaultExchangeTimeout  = 10 * time.Second

	// SourceHeader identifies the calling host to the identity service.
	SourceHeader = "X-DTZ-SOURCE"

	// DefaultSource is sent in SourceHeader when HOSTNAME is unset.
	DefaultSource = "localhost"

	cacheKeyNamespace  = "apikey"
	maxExchangeBody    = 1 << 20
	instrumentationKey = "github.com/jonwraymond/dtzprofile/auth"
)

// errRejected marks a 4xx answer: the identity service refused the key.
var errRejected = errors.New("api key rejected")

// Exchanger trades an API key, and optionally a context, for a Profile.
type Exchanger interface {
	Exchange(ctx context.Context, apiKey identifier.APIKeyID, contextID *identifier.ContextID) (Profile, error)
}

// ExchangeConfig configures an APIKeyExchanger.
type ExchangeConfig struct {
	// Endpoint is the identity service exchange URL.
	// Default: DefaultExchangeEndpoint
	Endpoint string

	// Timeout bounds each remote exchange.
	// Default: 10 seconds
	Timeout time.Duration

	// CacheSize and CacheTTL size a private profile cache. When both are
	// zero and Cache is nil the process wide DefaultProfileCache is used.
	CacheSize int
	CacheTTL  time.Duration

	// Cache overrides the profile cache entirely. Keys include the
	// endpoint, so exchangers sharing a cache must verify tokens from one
	// endpoint with the same key.
	Cache cache.Cache[Profile]

	// Coalesce makes concurrent misses for the same key share one remote
	// call.
	Coalesce bool

	// HTTPClient performs the exchange. Default: a client over an
	// otelhttp instrumented transport.
	HTTPClient *http.Client

	// Verifier checks exchanged tokens. Default: DefaultVerifier()
	Verifier *Verifier

	// Breaker, when set, fails exchanges fast after repeated remote
	// failures.
	Breaker *resilience.CircuitBreaker

	// Metrics records cache lookups. Default: no-op
	Metrics observe.Metrics

	// Tracer starts the auth.exchange span. Default: the global provider.
	Tracer trace.Tracer

	// Source returns the SourceHeader value. Default: $HOSTNAME or
	// DefaultSource, read on every call.
	Source func() string
}

// APIKeyExchanger exchanges API keys against the identity service and
// caches the verified profiles.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Caching: only verified profiles are cached; failures never are.
//   - Errors: every remote failure wraps ErrUnauthorized. Failed exchanges
//     are not retried.
type APIKeyExchanger struct {
	config   ExchangeConfig
	client   *http.Client
	verifier *Verifier
	cache    cache.Cache[Profile]
	loader   *cache.Loader[Profile]
	keyer    cache.Keyer
	guard    *resilience.Guard
	tracer   trace.Tracer
}

// NewAPIKeyExchanger creates an exchanger with defaults applied.
func NewAPIKeyExchanger(config ExchangeConfig) (*APIKeyExchanger, error) {
	if config.Endpoint == "" {
		config.Endpoint = DefaultExchangeEndpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultExchangeTimeout
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(instrumentationKey)
	}
	if config.Source == nil {
		config.Source = hostSource
	}

	verifier := config.Verifier
	if verifier == nil {
		v, err := DefaultVerifier()
		if err != nil {
			return nil, err
		}
		verifier = v
	}

	client := config.HTTPClient
	if client == nil {
		client = newExchangeClient()
	}

	profiles := config.Cache
	switch {
	case profiles != nil:
	case config.CacheSize == 0 && config.CacheTTL == 0:
		profiles = DefaultProfileCache()
	default:
		policy := cache.Policy{TTL: config.CacheTTL, MaxEntries: config.CacheSize}
		if policy.TTL == 0 {
			policy.TTL = cache.DefaultTTL
		}
		profiles = cache.NewMemoryCache[Profile](policy)
	}

	metrics := config.Metrics
	e := &APIKeyExchanger{
		config:   config,
		client:   client,
		verifier: verifier,
		cache:    profiles,
		keyer:    cache.NewDefaultKeyer(),
		tracer:   config.Tracer,
		loader: cache.NewLoader(profiles,
			cache.WithCoalescing(config.Coalesce),
			cache.WithLookupHook(metrics.RecordCacheLookup),
		),
	}

	opts := []resilience.GuardOption{resilience.WithTimeout(config.Timeout)}
	if config.Breaker != nil {
		opts = append(opts, resilience.WithCircuitBreaker(config.Breaker))
	}
	e.guard = resilience.NewGuard(opts...)

	return e, nil
}

var defaultProfileCache = sync.OnceValue(func() cache.Cache[Profile] {
	return cache.NewMemoryCache[Profile](cache.DefaultPolicy())
})

// DefaultProfileCache returns the process wide profile cache: at most 100
// entries, each valid for one hour.
func DefaultProfileCache() cache.Cache[Profile] {
	return defaultProfileCache()
}

func newExchangeClient() *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.ForceAttemptHTTP2 = true
	return &http.Client{Transport: otelhttp.NewTransport(base)}
}

func hostSource() string {
	if host := os.Getenv("HOSTNAME"); host != "" {
		return host
	}
	return DefaultSource
}

// Cache returns the profile cache in use.
func (e *APIKeyExchanger) Cache() cache.Cache[Profile] {
	return e.cache
}

// Breaker returns the configured circuit breaker, or nil.
func (e *APIKeyExchanger) Breaker() *resilience.CircuitBreaker {
	return e.guard.Breaker()
}

// CacheKey returns the cache key for an exchange request. It is stable and
// distinct for distinct pairs and endpoints, and never contains the raw key.
func (e *APIKeyExchanger) CacheKey(apiKey identifier.APIKeyID, contextID *identifier.ContextID) (string, error) {
	return e.keyer.Key(cacheKeyNamespace, map[string]any{
		"endpoint": e.config.Endpoint,
		"request":  exchangeRequest(apiKey, contextID),
	})
}

// Exchange returns the cached profile for (apiKey, contextID) or performs
// one remote exchange and verifies the issued token.
func (e *APIKeyExchanger) Exchange(ctx context.Context, apiKey identifier.APIKeyID, contextID *identifier.ContextID) (Profile, error) {
	if apiKey.IsZero() {
		return Profile{}, fmt.Errorf("%w: empty api key", ErrMissingCredential)
	}

	key, err := e.CacheKey(apiKey, contextID)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}

	profile, _, err := e.loader.Load(ctx, key, func(ctx context.Context) (Profile, error) {
		token, err := e.requestToken(ctx, apiKey, contextID)
		if err != nil {
			return Profile{}, err
		}
		return e.verifier.Verify(token)
	})
	if err != nil {
		return Profile{}, err
	}
	return profile.Clone(), nil
}

// exchangeRequest builds the request body; contextId is present only when a
// context was supplied.
func exchangeRequest(apiKey identifier.APIKeyID, contextID *identifier.ContextID) map[string]any {
	body := map[string]any{"apiKey": apiKey.String()}
	if contextID != nil {
		body["contextId"] = contextID.String()
	}
	return body
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope,omitempty"`
	TokenType   string `json:"token_type"`
	ExpiresIn   uint32 `json:"expires_in"`
}

func (e *APIKeyExchanger) requestToken(ctx context.Context, apiKey identifier.APIKeyID, contextID *identifier.ContextID) (string, error) {
	ctx, span := e.tracer.Start(ctx, "auth.exchange",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Bool("auth.context", contextID != nil)),
	)
	defer span.End()

	// A rejected key means the remote answered; it must not count against
	// the breaker, so the guarded call reports it as done.
	var token string
	var rejected error
	err := e.guard.Execute(ctx, func(ctx context.Context) error {
		t, err := e.post(ctx, apiKey, contextID)
		if errors.Is(err, errRejected) {
			rejected = err
			return nil
		}
		token = t
		return err
	})
	if err == nil {
		err = rejected
	}
	if err != nil {
		span.SetStatus(codes.Error, "exchange failed")
		span.RecordError(err)
		if errors.Is(err, ErrUnauthorized) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	span.SetStatus(codes.Ok, "")
	return token, nil
}

func (e *APIKeyExchanger) post(ctx context.Context, apiKey identifier.APIKeyID, contextID *identifier.ContextID) (string, error) {
	body, err := json.Marshal(exchangeRequest(apiKey, contextID))
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUnauthorized, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrUnauthorized, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SourceHeader, e.config.Source())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", fmt.Errorf("%w: %w: status %d", ErrUnauthorized, errRejected, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: exchange status %d", ErrUnauthorized, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxExchangeBody)).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnauthorized, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", ErrUnauthorized)
	}
	return tr.AccessToken, nil
}

var _ Exchanger = (*APIKeyExchanger)(nil)
