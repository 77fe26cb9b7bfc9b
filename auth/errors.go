package auth

import (
	"context"
	"errors"
)

// Sentinel errors for authentication and authorization.
var (
	// Authentication errors
	ErrMissingCredential         = errors.New("auth: missing credential")
	ErrMalformedCredential       = errors.New("auth: malformed credential")
	ErrInvalidToken              = errors.New("auth: invalid token")
	ErrUnsupportedCredentialType = errors.New("auth: unsupported credential type")
	ErrUnauthorized              = errors.New("auth: unauthorized")

	// Authorization errors
	ErrForbidden = errors.New("auth: access denied")
)

// Error categories, as reported by ErrorCategory.
const (
	CategoryMissingCredential         = "missing_credential"
	CategoryMalformedCredential       = "malformed_credential"
	CategoryInvalidToken              = "invalid_token"
	CategoryUnsupportedCredentialType = "unsupported_credential_type"
	CategoryUnauthorized              = "unauthorized"
	CategoryForbidden                 = "forbidden"
	CategoryCanceled                  = "canceled"
	CategoryInternal                  = "internal"
)

var categories = []struct {
	err      error
	category string
	message  string
}{
	{ErrForbidden, CategoryForbidden, "forbidden"},
	{ErrMissingCredential, CategoryMissingCredential, "missing credential"},
	{ErrMalformedCredential, CategoryMalformedCredential, "malformed credential"},
	{ErrInvalidToken, CategoryInvalidToken, "invalid token"},
	{ErrUnsupportedCredentialType, CategoryUnsupportedCredentialType, "unsupported credential type"},
	{ErrUnauthorized, CategoryUnauthorized, "unauthorized"},
	{context.Canceled, CategoryCanceled, "request canceled"},
	{context.DeadlineExceeded, CategoryCanceled, "request canceled"},
}

// ErrorCategory classifies err. It returns "" for nil and CategoryInternal
// for errors that carry none of the sentinels.
func ErrorCategory(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.category
		}
	}
	return CategoryInternal
}

// ErrorMessage returns the caller-visible message for err. It never
// includes credential material.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.message
		}
	}
	return "authentication failed"
}

// IsAuthenticationFailure reports whether err is one of the authentication
// sentinels. Forbidden, cancellation and internal errors are not.
func IsAuthenticationFailure(err error) bool {
	switch ErrorCategory(err) {
	case CategoryMissingCredential, CategoryMalformedCredential, CategoryInvalidToken,
		CategoryUnsupportedCredentialType, CategoryUnauthorized:
		return true
	}
	return false
}
