// Package auth resolves the caller Profile of an inbound request.
//
// A request may carry its credential in one of several carriers, consulted
// in a fixed priority: the dtz-auth session cookie, the Authorization
// header (Bearer or Basic), the X-Api-Key header with an optional
// X-Dtz-Context header, and finally the apiKey and contextId query
// parameters. Tokens are RS256 JWTs checked against a fixed public key; API
// keys are exchanged for a token at the identity service and the verified
// profile is cached.
//
// Resolver offers three call shapes:
//
//	profile, err := res.Required(ctx, req)        // any failure is an error
//	profile, err := res.Optional(ctx, req)        // nil profile when anonymous
//	profile, err := res.RequireRole(ctx, req, t)  // *AuthzError when t is not held
//
// Role templates may contain {identity_id}, {context_id} and {roles}; they
// are substituted from the profile and the result must be one of its roles:
//
//	res.RequireRole(ctx, req, "https://dtz.rocks/containers/admin/{context_id}")
//
// RequireProfile, OptionalProfile and RequireRole wrap a Resolver as
// net/http middleware.
package auth
