package auth

import (
	"slices"

	"github.com/jonwraymond/dtzprofile/identifier"
)

// Carrier names the request mechanism a credential arrived through.
type Carrier string

const (
	CarrierNone         Carrier = ""
	CarrierCookie       Carrier = "cookie"
	CarrierBearer       Carrier = "bearer"
	CarrierBasic        Carrier = "basic"
	CarrierAPIKeyHeader Carrier = "api_key_header"
	CarrierQuery        Carrier = "query"
)

// Profile is the result of a successful resolution.
//
// A Profile is a value: the resolver and the cache hand out copies, and
// callers must not modify the slices of a Profile they did not build.
type Profile struct {
	// IdentityID is the caller, from the sub claim.
	IdentityID identifier.IdentityID

	// ContextID is the context the caller acts within, from the scope claim.
	ContextID identifier.ContextID

	// Roles are the granted permission strings in claim order.
	Roles []string

	// Contexts are the additional contexts listed in the token, if any.
	Contexts []identifier.ContextID

	// Token is the compact token the profile was built from, verbatim.
	Token string
}

// HasRole reports whether role is granted verbatim.
func (p Profile) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Require reports whether the role produced by substituting this profile
// into template is granted.
func (p Profile) Require(template string) bool {
	return VerifyContextRole(p, template)
}

// IsZero reports whether p is the empty profile.
func (p Profile) IsZero() bool {
	return p.IdentityID.IsZero() && p.ContextID.IsZero() && len(p.Roles) == 0 &&
		len(p.Contexts) == 0 && p.Token == ""
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	p.Roles = slices.Clone(p.Roles)
	p.Contexts = slices.Clone(p.Contexts)
	return p
}
