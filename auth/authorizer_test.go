package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jonwraymond/dtzprofile/identifier"
)

func testProfile(t *testing.T) Profile {
	t.Helper()
	id, err := identifier.ParseIdentityID(testIdentity)
	if err != nil {
		t.Fatal(err)
	}
	ctxID, err := identifier.ParseContextID(testContext)
	if err != nil {
		t.Fatal(err)
	}
	return Profile{
		IdentityID: id,
		ContextID:  ctxID,
		Roles:      []string{adminRole, "reader", "writer"},
	}
}

func TestReplacePlaceholders(t *testing.T) {
	p := testProfile(t)

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"identity", "https://dtz.rocks/identity/assume/{identity_id}", "https://dtz.rocks/identity/assume/" + testIdentity},
		{"context", "https://dtz.rocks/containers/admin/{context_id}", adminRole},
		{"roles", "[{roles}]", "[" + adminRole + ",reader,writer]"},
		{"all", "{identity_id}|{context_id}|{roles}", testIdentity + "|" + testContext + "|" + adminRole + ",reader,writer"},
		{"repeated", "{context_id}/{context_id}", testContext + "/" + testContext},
		{"no placeholders", "https://dtz.rocks/billing/admin", "https://dtz.rocks/billing/admin"},
		{"unknown placeholder kept", "{tenant}/{context_id}", "{tenant}/" + testContext},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplacePlaceholders(tt.template, p); got != tt.want {
				t.Errorf("ReplacePlaceholders() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplacePlaceholders_ZeroProfile(t *testing.T) {
	var p Profile
	zero := uuid.Nil.String()

	if got := ReplacePlaceholders("https://dtz.rocks/x/{identity_id}", p); got != "https://dtz.rocks/x/"+zero {
		t.Errorf("identity = %q", got)
	}
	if got := ReplacePlaceholders("https://dtz.rocks/x/{context_id}", p); got != "https://dtz.rocks/x/00000000-0000-0000-0000-000000000000" {
		t.Errorf("context = %q", got)
	}
	if got := ReplacePlaceholders("roles:{roles}", p); got != "roles:" {
		t.Errorf("roles = %q", got)
	}
}

func TestReplacePlaceholders_Idempotent(t *testing.T) {
	p := testProfile(t)
	templates := []string{
		"{identity_id}",
		"prefix/{context_id}/suffix",
		"a{roles}b{identity_id}c{context_id}d",
		"literal only",
	}
	for _, tmpl := range templates {
		once := ReplacePlaceholders(tmpl, p)
		twice := ReplacePlaceholders(once, p)
		if once != twice {
			t.Errorf("ReplacePlaceholders(%q) not idempotent: %q then %q", tmpl, once, twice)
		}
		for _, ph := range []string{PlaceholderIdentityID, PlaceholderContextID, PlaceholderRoles} {
			if strings.Contains(once, ph) {
				t.Errorf("ReplacePlaceholders(%q) = %q still contains %s", tmpl, once, ph)
			}
		}
	}
}

func TestVerifyRole(t *testing.T) {
	p := testProfile(t)

	tests := []struct {
		role string
		want bool
	}{
		{adminRole, true},
		{"reader", true},
		{"read", false},
		{"https://dtz.rocks/containers/admin/{context_id}", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := VerifyRole(p, tt.role); got != tt.want {
			t.Errorf("VerifyRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
	if !p.HasRole("writer") {
		t.Error("HasRole(writer) = false")
	}
}

func TestVerifyContextRole(t *testing.T) {
	p := testProfile(t)

	tests := []struct {
		template string
		want     bool
	}{
		{"https://dtz.rocks/containers/admin/{context_id}", true},
		{"https://dtz.rocks/containers/admin/{identity_id}", false},
		{"reader", true},
		{"https://dtz.rocks/objectstore/admin/{context_id}", false},
	}
	for _, tt := range tests {
		if got := VerifyContextRole(p, tt.template); got != tt.want {
			t.Errorf("VerifyContextRole(%q) = %v, want %v", tt.template, got, tt.want)
		}
		if got := p.Require(tt.template); got != tt.want {
			t.Errorf("Require(%q) = %v, want %v", tt.template, got, tt.want)
		}
	}
}

func TestRoleAuthorizer(t *testing.T) {
	p := testProfile(t)
	var a RoleAuthorizer

	if err := a.Authorize(context.Background(), p, "https://dtz.rocks/containers/admin/{context_id}"); err != nil {
		t.Errorf("Authorize() error = %v", err)
	}

	err := a.Authorize(context.Background(), p, "https://dtz.rocks/billing/admin/{identity_id}")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Authorize() error = %v, want ErrForbidden", err)
	}
	var authzErr *AuthzError
	if !errors.As(err, &authzErr) {
		t.Fatalf("error is %T, want *AuthzError", err)
	}
	if authzErr.Role != "https://dtz.rocks/billing/admin/"+testIdentity {
		t.Errorf("Role = %q", authzErr.Role)
	}
	if authzErr.Subject != testIdentity {
		t.Errorf("Subject = %q", authzErr.Subject)
	}
	if a.Name() != "role" {
		t.Errorf("Name() = %q", a.Name())
	}
}

func TestAuthzError(t *testing.T) {
	cause := errors.New("policy backend down")
	err := &AuthzError{Subject: "s", Role: "r", Reason: "why", Cause: cause}

	want := `authorization denied: subject="s" role="r" reason="why"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrForbidden) {
		t.Error("errors.Is(err, ErrForbidden) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestAuthorizerAdapters(t *testing.T) {
	p := testProfile(t)
	if err := (AllowAllAuthorizer{}).Authorize(context.Background(), p, "anything"); err != nil {
		t.Errorf("AllowAll error = %v", err)
	}

	called := false
	f := AuthorizerFunc(func(_ context.Context, _ Profile, tmpl string) error {
		called = tmpl == "t"
		return nil
	})
	if err := f.Authorize(context.Background(), p, "t"); err != nil || !called {
		t.Errorf("AuthorizerFunc: err=%v called=%v", err, called)
	}
	if f.Name() != "func" {
		t.Errorf("Name() = %q", f.Name())
	}
}
