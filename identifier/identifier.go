package identifier

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when an identifier cannot be parsed.
var ErrInvalidID = errors.New("identifier: invalid id")

// Type prefixes accepted on input.
const (
	IdentityPrefix = "identity-"
	ContextPrefix  = "context-"
)

// MaxAPIKeyLength bounds the length of an API key identifier.
const MaxAPIKeyLength = 512

// IdentityID identifies a caller.
type IdentityID struct {
	id uuid.UUID
}

// ContextID identifies the authorization context a caller acts within.
type ContextID struct {
	id uuid.UUID
}

// NewIdentityID wraps a UUID.
func NewIdentityID(id uuid.UUID) IdentityID { return IdentityID{id: id} }

// NewContextID wraps a UUID.
func NewContextID(id uuid.UUID) ContextID { return ContextID{id: id} }

// ParseIdentityID parses "identity-<uuid>", falling back to a raw UUID.
func ParseIdentityID(s string) (IdentityID, error) {
	id, err := parsePrefixed(s, IdentityPrefix)
	if err != nil {
		return IdentityID{}, err
	}
	return IdentityID{id: id}, nil
}

// ParseContextID parses "context-<uuid>", falling back to a raw UUID.
func ParseContextID(s string) (ContextID, error) {
	id, err := parsePrefixed(s, ContextPrefix)
	if err != nil {
		return ContextID{}, err
	}
	return ContextID{id: id}, nil
}

func parsePrefixed(s, prefix string) (uuid.UUID, error) {
	if rest, ok := strings.CutPrefix(s, prefix); ok {
		if id, err := uuid.Parse(rest); err == nil {
			return id, nil
		}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// UUID returns the underlying UUID.
func (i IdentityID) UUID() uuid.UUID { return i.id }

// String returns the canonical UUID form.
func (i IdentityID) String() string { return i.id.String() }

// IsZero reports whether the identifier is the nil UUID.
func (i IdentityID) IsZero() bool { return i.id == uuid.Nil }

// MarshalText implements encoding.TextMarshaler.
func (i IdentityID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *IdentityID) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentityID(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// UUID returns the underlying UUID.
func (c ContextID) UUID() uuid.UUID { return c.id }

// String returns the canonical UUID form.
func (c ContextID) String() string { return c.id.String() }

// IsZero reports whether the identifier is the nil UUID.
func (c ContextID) IsZero() bool { return c.id == uuid.Nil }

// MarshalText implements encoding.TextMarshaler.
func (c ContextID) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContextID) UnmarshalText(b []byte) error {
	parsed, err := ParseContextID(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// APIKeyID is an opaque API key identifier. It is a secret; never log it.
type APIKeyID struct {
	value string
}

// ParseAPIKeyID validates an API key identifier.
// Empty, over-long, or values containing whitespace or control characters
// are rejected.
func ParseAPIKeyID(s string) (APIKeyID, error) {
	if s == "" {
		return APIKeyID{}, fmt.Errorf("%w: empty api key", ErrInvalidID)
	}
	if len(s) > MaxAPIKeyLength {
		return APIKeyID{}, fmt.Errorf("%w: api key exceeds %d bytes", ErrInvalidID, MaxAPIKeyLength)
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return APIKeyID{}, fmt.Errorf("%w: api key contains invalid characters", ErrInvalidID)
		}
	}
	return APIKeyID{value: s}, nil
}

// String returns the raw key.
func (k APIKeyID) String() string { return k.value }

// IsZero reports whether the key is unset.
func (k APIKeyID) IsZero() bool { return k.value == "" }
