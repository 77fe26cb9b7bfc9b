package auth

import (
	"errors"
	"net/http"
)

// RequireProfile is HTTP middleware that rejects requests without a valid
// credential and attaches the resolved profile to the request context.
//
// Usage:
//
//	mux.Handle("/api", auth.RequireProfile(resolver)(apiHandler))
func RequireProfile(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := res.Required(r.Context(), AuthRequestFromHTTP(r))
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), &profile)))
		})
	}
}

// OptionalProfile is HTTP middleware that attaches a profile when the
// request carries a valid credential and passes anonymous requests through
// unchanged.
func OptionalProfile(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := res.Optional(r.Context(), AuthRequestFromHTTP(r))
			if err != nil {
				WriteError(w, err)
				return
			}
			if profile != nil {
				r = r.WithContext(WithProfile(r.Context(), profile))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole is HTTP middleware that additionally requires the role
// produced from template, e.g. "https://dtz.rocks/objectstore/admin/{context_id}".
func RequireRole(res *Resolver, template string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := res.RequireRole(r.Context(), AuthRequestFromHTTP(r), template)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), &profile)))
		})
	}
}

// WriteError writes 403 for authorization failures and 401 for everything
// else. The body is the error category message and never echoes the
// credential.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrForbidden) {
		http.Error(w, ErrorMessage(err), http.StatusForbidden)
		return
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="dtz"`)
	http.Error(w, ErrorMessage(err), http.StatusUnauthorized)
}
