package auth

import (
	"context"
	"errors"

	"github.com/jonwraymond/dtzprofile/observe"
)

// Resolution modes, as reported to telemetry.
const (
	ModeRequired = "required"
	ModeOptional = "optional"
	ModeRole     = "role"
)

// OutcomeAnonymous is reported when an optional resolution found no
// usable credential.
const OutcomeAnonymous = "anonymous"

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// Verifier checks cookie, bearer and basic bearer tokens.
	// Default: DefaultVerifier()
	Verifier *Verifier

	// Exchanger resolves API keys. Default: an APIKeyExchanger over the
	// shared profile cache, using Verifier.
	Exchanger Exchanger

	// Authorizer checks role templates. Default: RoleAuthorizer
	Authorizer Authorizer

	// Middleware traces, measures and logs every resolution.
	// Default: observe.NopMiddleware()
	Middleware *observe.Middleware
}

// Resolver produces a Profile for an inbound request.
//
// Contract:
//   - Concurrency: safe for concurrent use; resolutions share only the
//     exchanger's cache.
//   - Errors: authentication failures wrap one of the auth sentinels;
//     role denials are *AuthzError and match ErrForbidden.
type Resolver struct {
	verifier   *Verifier
	exchanger  Exchanger
	authorizer Authorizer
	mw         *observe.Middleware
}

// NewResolver creates a Resolver with defaults applied.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Verifier == nil {
		v, err := DefaultVerifier()
		if err != nil {
			return nil, err
		}
		cfg.Verifier = v
	}
	if cfg.Exchanger == nil {
		e, err := NewAPIKeyExchanger(ExchangeConfig{Verifier: cfg.Verifier})
		if err != nil {
			return nil, err
		}
		cfg.Exchanger = e
	}
	if cfg.Authorizer == nil {
		cfg.Authorizer = RoleAuthorizer{}
	}
	if cfg.Middleware == nil {
		cfg.Middleware = observe.NopMiddleware()
	}

	return &Resolver{
		verifier:   cfg.Verifier,
		exchanger:  cfg.Exchanger,
		authorizer: cfg.Authorizer,
		mw:         cfg.Middleware,
	}, nil
}

// Required resolves req or fails. Every failure is an authentication
// failure.
func (r *Resolver) Required(ctx context.Context, req *AuthRequest) (Profile, error) {
	var profile Profile
	err := r.mw.Observe(ctx, ModeRequired, func(ctx context.Context, meta *observe.ResolveMeta) error {
		p, err := r.resolve(ctx, req, meta)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	return profile, err
}

// Optional resolves req when it carries a usable credential. Every
// authentication failure, including a present but invalid credential,
// yields (nil, nil). Only cancellation of ctx and errors outside the auth
// sentinels are returned.
func (r *Resolver) Optional(ctx context.Context, req *AuthRequest) (*Profile, error) {
	var profile *Profile
	err := r.mw.Observe(ctx, ModeOptional, func(ctx context.Context, meta *observe.ResolveMeta) error {
		p, err := r.resolve(ctx, req, meta)
		if err == nil {
			profile = &p
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			meta.Outcome = CategoryCanceled
			return cerr
		}
		if IsAuthenticationFailure(err) {
			meta.Outcome = OutcomeAnonymous
			return nil
		}
		return err
	})
	return profile, err
}

// RequireRole resolves req like Required and then checks that the profile
// holds the role produced from template. A missing role yields an
// *AuthzError.
func (r *Resolver) RequireRole(ctx context.Context, req *AuthRequest, template string) (Profile, error) {
	var profile Profile
	err := r.mw.Observe(ctx, ModeRole, func(ctx context.Context, meta *observe.ResolveMeta) error {
		p, err := r.resolve(ctx, req, meta)
		if err != nil {
			return err
		}
		if err := r.authorizer.Authorize(ctx, p, template); err != nil {
			meta.Outcome = CategoryForbidden
			if !errors.Is(err, ErrForbidden) {
				err = &AuthzError{Subject: p.IdentityID.String(), Reason: r.authorizer.Name(), Cause: err}
			}
			return err
		}
		profile = p
		return nil
	})
	return profile, err
}

func (r *Resolver) resolve(ctx context.Context, req *AuthRequest, meta *observe.ResolveMeta) (Profile, error) {
	profile, err := r.authenticate(ctx, req, meta)
	if err != nil {
		meta.Outcome = ErrorCategory(err)
		return Profile{}, err
	}
	meta.Subject = profile.IdentityID.String()
	return profile, nil
}

func (r *Resolver) authenticate(ctx context.Context, req *AuthRequest, meta *observe.ResolveMeta) (Profile, error) {
	cred, err := Locate(req)
	meta.Carrier = string(cred.Carrier)
	if err != nil {
		return Profile{}, err
	}

	if cred.IsAPIKey() {
		return r.exchanger.Exchange(ctx, cred.APIKey, cred.ContextID)
	}

	// Cookie headers may carry several dtz-auth entries; the first one
	// that verifies wins.
	err = ErrMissingCredential
	for _, token := range cred.Tokens {
		profile, verr := r.verifier.Verify(token)
		if verr == nil {
			return profile, nil
		}
		err = verr
	}
	return Profile{}, err
}
