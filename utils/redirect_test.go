package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStripOAuthParams(t *testing.T) {
	got := StripOAuthParams("https://app.example.com/integrations?code=abc&state=xyz&tab=invoices")
	if strings.Contains(got, "code=") || strings.Contains(got, "state=") {
		t.Errorf("expected oauth params removed, got %s", got)
	}
	if !strings.Contains(got, "tab=invoices") {
		t.Errorf("expected unrelated params kept, got %s", got)
	}

	got = StripOAuthParams("https://app.example.com/integrations?error=access_denied")
	if strings.Contains(got, "error=") {
		t.Errorf("expected error param removed, got %s", got)
	}

	unchanged := "https://app.example.com/integrations?tab=invoices"
	if got := StripOAuthParams(unchanged); got != unchanged {
		t.Errorf("expected url unchanged, got %s", got)
	}
}

func TestHasOAuthParams(t *testing.T) {
	if !HasOAuthParams("https://a.example.com/cb?code=x") {
		t.Error("expected code to count")
	}
	if !HasOAuthParams("https://a.example.com/cb?error=access_denied") {
		t.Error("expected error to count")
	}
	if HasOAuthParams("https://a.example.com/cb?tab=1") {
		t.Error("expected ordinary params not to count")
	}
}

func TestDefaultRedirectURI(t *testing.T) {
	req := httptest.NewRequest("GET", "http://localhost:3000/some/page", nil)
	got := DefaultRedirectURI(req)
	if got != "http://localhost:3000"+CallbackPath {
		t.Errorf("unexpected redirect uri: %s", got)
	}
}

func TestOrigin_ForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "http://internal:8080/page", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "app.example.com")
	if got := Origin(req); got != "https://app.example.com" {
		t.Errorf("unexpected origin: %s", got)
	}
}

func TestGetDomain(t *testing.T) {
	req := httptest.NewRequest("GET", "http://localhost/", nil)
	req.Header.Set("Origin", "https://dev.example.com:3000")
	if got := GetDomain(req); got != "example.com" {
		t.Errorf("expected example.com, got %s", got)
	}
	req2 := httptest.NewRequest("GET", "http://localhost/", nil)
	req2.Header.Set("Origin", "http://localhost:3000")
	if got := GetDomain(req2); got != "localhost" {
		t.Errorf("expected localhost, got %s", got)
	}
}
