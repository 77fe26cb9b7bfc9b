package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Credential type tags accepted in the basic-auth user field.
const (
	BasicTagAPIKey = "apikey"
	BasicTagBearer = "bearer"
)

// DecodeBasic decodes a basic-auth payload into its user and password
// parts. A leading "Basic " scheme is accepted and stripped. The payload is
// split on the first ':' only, so the password may contain colons.
func DecodeBasic(value string) (user, password string, err error) {
	value = strings.TrimSpace(value)
	if scheme, rest, ok := strings.Cut(value, " "); ok && strings.EqualFold(scheme, "Basic") {
		value = strings.TrimSpace(rest)
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", fmt.Errorf("%w: basic payload is not base64", ErrMalformedCredential)
	}

	user, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: basic payload has no separator", ErrMalformedCredential)
	}
	return user, password, nil
}
