package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Placeholders recognized in role templates.
const (
	PlaceholderIdentityID = "{identity_id}"
	PlaceholderContextID  = "{context_id}"
	PlaceholderRoles      = "{roles}"
)

// ReplacePlaceholders substitutes the profile's identity, context and
// comma-joined roles into template. Text outside the placeholders is kept
// as is.
func ReplacePlaceholders(template string, profile Profile) string {
	return strings.NewReplacer(
		PlaceholderIdentityID, profile.IdentityID.String(),
		PlaceholderContextID, profile.ContextID.String(),
		PlaceholderRoles, strings.Join(profile.Roles, ","),
	).Replace(template)
}

// VerifyRole reports whether profile holds role exactly.
func VerifyRole(profile Profile, role string) bool {
	return slices.Contains(profile.Roles, role)
}

// VerifyContextRole reports whether profile holds the role produced by
// substituting profile into template.
func VerifyContextRole(profile Profile, template string) bool {
	return VerifyRole(profile, ReplacePlaceholders(template, profile))
}

// Authorizer decides whether a resolved profile may proceed.
type Authorizer interface {
	// Authorize returns nil if allowed, or an error (typically *AuthzError)
	// if denied.
	Authorize(ctx context.Context, profile Profile, template string) error

	// Name returns the authorizer name for logging.
	Name() string
}

// AuthzError represents an authorization failure.
type AuthzError struct {
	// Subject is the identity that was denied.
	Subject string

	// Role is the concrete role that was required.
	Role string

	// Reason is a human-readable explanation.
	Reason string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("authorization denied: subject=%q role=%q reason=%q",
		e.Subject, e.Role, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *AuthzError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target is ErrForbidden, so errors.Is(err,
// ErrForbidden) matches every AuthzError.
func (e *AuthzError) Is(target error) bool {
	return target == ErrForbidden
}

// RoleAuthorizer allows a profile that holds the templated role.
type RoleAuthorizer struct{}

// Authorize implements Authorizer.
func (RoleAuthorizer) Authorize(_ context.Context, profile Profile, template string) error {
	role := ReplacePlaceholders(template, profile)
	if VerifyRole(profile, role) {
		return nil
	}
	return &AuthzError{
		Subject: profile.IdentityID.String(),
		Role:    role,
		Reason:  "role not granted",
	}
}

// Name implements Authorizer.
func (RoleAuthorizer) Name() string {
	return "role"
}

// AllowAllAuthorizer allows every profile.
type AllowAllAuthorizer struct{}

// Authorize always returns nil.
func (AllowAllAuthorizer) Authorize(context.Context, Profile, string) error {
	return nil
}

// Name returns "allow_all".
func (AllowAllAuthorizer) Name() string {
	return "allow_all"
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, profile Profile, template string) error

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, profile Profile, template string) error {
	return f(ctx, profile, template)
}

// Name returns "func".
func (f AuthorizerFunc) Name() string {
	return "func"
}

var (
	_ Authorizer = RoleAuthorizer{}
	_ Authorizer = AllowAllAuthorizer{}
	_ Authorizer = AuthorizerFunc(nil)
)
