package auth

import (
	"net/http/httptest"
	"slices"
	"testing"
)

func TestAuthRequest_Headers(t *testing.T) {
	req := &AuthRequest{Headers: map[string][]string{
		"X-Api-Key": {"k1"},
		"x-api-key": {"k2"},
		"Empty":     {},
	}}

	if got := req.HeaderValues("x-API-key"); !slices.Equal(got, []string{"k1", "k2"}) {
		t.Errorf("HeaderValues() = %v, want [k1 k2]", got)
	}
	if got := req.GetHeader("X-API-KEY"); got != "k1" {
		t.Errorf("GetHeader() = %q, want k1", got)
	}
	if req.HasHeader("Empty") {
		t.Error("HasHeader(Empty) = true for a header without values")
	}
	if req.HasHeader("Authorization") {
		t.Error("HasHeader(Authorization) = true")
	}

	var nilReq *AuthRequest
	if nilReq.GetHeader("X-Api-Key") != "" || nilReq.HasHeader("Cookie") {
		t.Error("nil request reported headers")
	}
}

func TestAuthRequestFromHTTP(t *testing.T) {
	r := httptest.NewRequest("GET", "/things?apiKey=k1&contextId=c", nil)
	r.Header.Set("Authorization", "Bearer a.b.c")

	req := AuthRequestFromHTTP(r)
	if req.RawQuery != "apiKey=k1&contextId=c" {
		t.Errorf("RawQuery = %q", req.RawQuery)
	}
	if req.GetHeader("authorization") != "Bearer a.b.c" {
		t.Errorf("Authorization = %q", req.GetHeader("authorization"))
	}
}
