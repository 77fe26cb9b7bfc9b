package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Code = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %q, want OK", rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		wantCode int
		wantBody string
	}{
		{"healthy", StatusHealthy, http.StatusOK, "healthy"},
		{"degraded", StatusDegraded, http.StatusOK, "degraded"},
		{"unhealthy", StatusUnhealthy, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(AggregatorConfig{})
			agg.Register(fixed("dep", tt.status))

			rec := httptest.NewRecorder()
			ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", rec.Code, tt.wantCode)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body struct {
				Status string `json:"status"`
				Checks map[string]struct {
					Status  string `json:"status"`
					Message string `json:"message"`
				} `json:"checks"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantBody {
				t.Errorf("status = %q, want %q", body.Status, tt.wantBody)
			}
			if body.Checks["dep"].Message != "dep" {
				t.Errorf("checks = %+v", body.Checks)
			}
		})
	}
}

func TestReadinessHandler_ErrorText(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{})
	agg.Register(CheckerFunc("dep", func(context.Context) Result {
		return Unhealthy("down", errors.New("connection refused"))
	}))

	rec := httptest.NewRecorder()
	ReadinessHandler(agg)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body struct {
		Checks map[string]struct {
			Error string `json:"error"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := body.Checks["dep"].Error; got != "connection refused" {
		t.Errorf("error = %q, want %q", got, "connection refused")
	}
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux, NewAggregator(AggregatorConfig{}))

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}
