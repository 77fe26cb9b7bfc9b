package auth

import (
	"net/http"
	"net/textproto"
	"strings"
)

// AuthRequest is the read-only view of an inbound request used to locate a
// credential.
type AuthRequest struct {
	// Headers contains the request headers. Keys are matched
	// case-insensitively.
	Headers map[string][]string

	// RawQuery is the undecoded query string, without the leading '?'.
	RawQuery string
}

// AuthRequestFromHTTP builds an AuthRequest from r.
func AuthRequestFromHTTP(r *http.Request) *AuthRequest {
	req := &AuthRequest{Headers: r.Header}
	if r.URL != nil {
		req.RawQuery = r.URL.RawQuery
	}
	return req
}

// HeaderValues returns every value of the named header, across all key
// spellings, in map iteration order for non-canonical spellings after the
// canonical one.
func (r *AuthRequest) HeaderValues(key string) []string {
	if r == nil || r.Headers == nil {
		return nil
	}

	canonical := textproto.CanonicalMIMEHeaderKey(key)
	values := r.Headers[canonical]
	for k, v := range r.Headers {
		if k != canonical && strings.EqualFold(k, key) {
			values = append(values[:len(values):len(values)], v...)
		}
	}
	return values
}

// HasHeader reports whether the named header is present, even if empty.
func (r *AuthRequest) HasHeader(key string) bool {
	return len(r.HeaderValues(key)) > 0
}

// GetHeader returns the first value for a header, or empty string.
func (r *AuthRequest) GetHeader(key string) string {
	values := r.HeaderValues(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
