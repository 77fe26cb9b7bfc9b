package auth

import (
	"context"

	"github.com/jonwraymond/dtzprofile/identifier"
)

// Context keys for auth-related values.
type contextKey int

const (
	profileKey contextKey = iota
)

// WithProfile returns a new context with the given profile attached.
func WithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFromContext retrieves the profile from the context.
// Returns nil if no profile is present.
func ProfileFromContext(ctx context.Context) *Profile {
	p, _ := ctx.Value(profileKey).(*Profile)
	return p
}

// IdentityIDFromContext returns the caller identity, or the zero id if no
// profile is present.
func IdentityIDFromContext(ctx context.Context) identifier.IdentityID {
	p := ProfileFromContext(ctx)
	if p == nil {
		return identifier.IdentityID{}
	}
	return p.IdentityID
}

// ContextIDFromContext returns the caller's context, or the zero id if no
// profile is present.
func ContextIDFromContext(ctx context.Context) identifier.ContextID {
	p := ProfileFromContext(ctx)
	if p == nil {
		return identifier.ContextID{}
	}
	return p.ContextID
}
