package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonwraymond/dtzprofile/identifier"
)

// CookieName is the cookie that carries the session token.
const CookieName = "dtz-auth"

// Request header and query parameter names consulted by Locate.
const (
	HeaderCookie        = "Cookie"
	HeaderAuthorization = "Authorization"
	HeaderAPIKey        = "X-Api-Key"
	HeaderContext       = "X-Dtz-Context"

	QueryAPIKey    = "apiKey"
	QueryContextID = "contextId"
)

// Credential is the credential Locate selected for a request.
//
// Token carriers set Tokens; API-key carriers set APIKey and, optionally,
// ContextID. Cookie credentials may hold more than one candidate token, in
// header order.
type Credential struct {
	Carrier   Carrier
	Tokens    []string
	APIKey    identifier.APIKeyID
	ContextID *identifier.ContextID
}

// IsAPIKey reports whether the credential must be exchanged remotely.
func (c Credential) IsAPIKey() bool {
	return !c.APIKey.IsZero()
}

// Locate picks the single credential carrier of req, in priority order:
// cookie, Authorization header, X-Api-Key header, query string.
//
// A present Cookie header without a usable dtz-auth entry is final; later
// carriers are not consulted.
func Locate(req *AuthRequest) (Credential, error) {
	if req == nil {
		return Credential{}, fmt.Errorf("%w: no request", ErrMissingCredential)
	}
	if cookies := req.HeaderValues(HeaderCookie); len(cookies) > 0 {
		return locateCookie(cookies)
	}
	if req.HasHeader(HeaderAuthorization) {
		return locateAuthorization(req.GetHeader(HeaderAuthorization))
	}
	if req.HasHeader(HeaderAPIKey) {
		return locateAPIKey(CarrierAPIKeyHeader, req.GetHeader(HeaderAPIKey), req.GetHeader(HeaderContext))
	}
	return locateQuery(req.RawQuery)
}

func locateCookie(lines []string) (Credential, error) {
	r := &http.Request{Header: http.Header{HeaderCookie: lines}}

	var tokens []string
	for _, c := range r.CookiesNamed(CookieName) {
		if c.Value != "" {
			tokens = append(tokens, c.Value)
		}
	}
	if len(tokens) == 0 {
		return Credential{Carrier: CarrierCookie}, fmt.Errorf("%w: no valid token found in cookie", ErrMissingCredential)
	}
	return Credential{Carrier: CarrierCookie, Tokens: tokens}, nil
}

func locateAuthorization(value string) (Credential, error) {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(value), " ")
	rest = strings.TrimSpace(rest)

	switch {
	case strings.EqualFold(scheme, "Basic"):
		return locateBasic(rest)
	case strings.EqualFold(scheme, "Bearer"):
		if rest == "" {
			return Credential{Carrier: CarrierBearer}, fmt.Errorf("%w: empty bearer token", ErrMalformedCredential)
		}
		return Credential{Carrier: CarrierBearer, Tokens: []string{rest}}, nil
	default:
		return Credential{}, fmt.Errorf("%w: authorization scheme %q", ErrUnsupportedCredentialType, scheme)
	}
}

func locateBasic(payload string) (Credential, error) {
	cred := Credential{Carrier: CarrierBasic}

	tag, secret, err := DecodeBasic(payload)
	if err != nil {
		return cred, err
	}

	switch tag {
	case BasicTagAPIKey:
		key, err := identifier.ParseAPIKeyID(secret)
		if err != nil {
			return cred, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
		}
		cred.APIKey = key
		return cred, nil
	case BasicTagBearer:
		cred.Tokens = []string{secret}
		return cred, nil
	default:
		return cred, fmt.Errorf("%w: basic credential type must be %q or %q", ErrUnsupportedCredentialType, BasicTagAPIKey, BasicTagBearer)
	}
}

func locateAPIKey(carrier Carrier, key, contextID string) (Credential, error) {
	cred := Credential{Carrier: carrier}

	apiKey, err := identifier.ParseAPIKeyID(key)
	if err != nil {
		return cred, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}
	cred.APIKey = apiKey

	if contextID = strings.TrimSpace(contextID); contextID != "" {
		id, err := identifier.ParseContextID(contextID)
		if err != nil {
			return cred, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
		}
		cred.ContextID = &id
	}
	return cred, nil
}

func locateQuery(rawQuery string) (Credential, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Credential{Carrier: CarrierQuery}, fmt.Errorf("%w: query string: %w", ErrMalformedCredential, err)
	}

	key := values.Get(QueryAPIKey)
	if key == "" {
		return Credential{}, fmt.Errorf("%w: no credential in request", ErrMissingCredential)
	}
	return locateAPIKey(CarrierQuery, key, values.Get(QueryContextID))
}
