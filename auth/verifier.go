package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/dtzprofile/identifier"
)

// VerifierConfig configures a Verifier.
type VerifierConfig struct {
	// PublicKeyPEM is the PEM encoded RSA public key.
	// Default: DefaultPublicKeyPEM
	PublicKeyPEM []byte

	// Leeway is the clock skew allowed when checking exp and nbf.
	Leeway time.Duration

	// Now is the clock used for time based claims. Default: time.Now
	Now func() time.Time
}

// tokenClaims is the claim set issued by the identity service.
type tokenClaims struct {
	jwt.RegisteredClaims
	Scope    string   `json:"scope"`
	Roles    []string `json:"roles,omitempty"`
	Contexts []string `json:"contexts,omitempty"`
}

// Verifier checks RS256 signed tokens against a fixed public key and maps
// their claims to a Profile.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: non-tokens fail with ErrUnauthorized; every other rejection
//     wraps ErrInvalidToken.
type Verifier struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

// NewVerifier creates a Verifier.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	pem := cfg.PublicKeyPEM
	if len(pem) == 0 {
		pem = []byte(DefaultPublicKeyPEM)
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("auth: parse public key: %w", err)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(cfg.Now))
	}

	return &Verifier{
		key:    key,
		parser: jwt.NewParser(opts...),
	}, nil
}

var defaultVerifier = sync.OnceValues(func() (*Verifier, error) {
	return NewVerifier(VerifierConfig{})
})

// DefaultVerifier returns the shared Verifier over DefaultPublicKeyPEM.
func DefaultVerifier() (*Verifier, error) {
	return defaultVerifier()
}

// ProfileFromBearer verifies token with the default verifier and returns
// its profile.
func ProfileFromBearer(token string) (Profile, error) {
	v, err := DefaultVerifier()
	if err != nil {
		return Profile{}, err
	}
	return v.Verify(token)
}

// Verify checks the signature and time claims of token and extracts its
// profile. The returned Profile keeps token verbatim.
func (v *Verifier) Verify(token string) (Profile, error) {
	if !strings.Contains(token, ".") {
		return Profile{}, fmt.Errorf("%w: credential is not a token", ErrUnauthorized)
	}

	var claims tokenClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, v.keyFunc); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims.profile(token)
}

func (v *Verifier) keyFunc(*jwt.Token) (any, error) {
	return v.key, nil
}

func (c *tokenClaims) profile(token string) (Profile, error) {
	if c.Subject == "" {
		return Profile{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	if c.Scope == "" {
		return Profile{}, fmt.Errorf("%w: missing scope claim", ErrInvalidToken)
	}

	identity, err := identifier.ParseIdentityID(c.Subject)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: sub claim: %w", ErrInvalidToken, err)
	}
	scope, err := identifier.ParseContextID(c.Scope)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: scope claim: %w", ErrInvalidToken, err)
	}

	var contexts []identifier.ContextID
	for _, raw := range c.Contexts {
		id, err := identifier.ParseContextID(raw)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: contexts claim: %w", ErrInvalidToken, err)
		}
		contexts = append(contexts, id)
	}

	return Profile{
		IdentityID: identity,
		ContextID:  scope,
		Roles:      c.Roles,
		Contexts:   contexts,
		Token:      token,
	}, nil
}

var _ jwt.Claims = (*tokenClaims)(nil)
