package ledgerlink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seann-Moser/ledgerlink/accounting"
	"github.com/Seann-Moser/ledgerlink/connect"
	"github.com/Seann-Moser/ledgerlink/session"
)

func signedInCookie(t *testing.T, secret []byte, userID string) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	err := session.SetIdentityCookie(rr, &session.Identity{
		UserID:    userID,
		SignedIn:  true,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, secret)
	if err != nil {
		t.Fatalf("SetIdentityCookie error: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no cookie set")
	}
	return cookies[0]
}

func newTestService(t *testing.T, secret []byte) (*Service, *http.ServeMux) {
	t.Helper()
	store := connect.NewMemoryConnectionStore()
	client := &accounting.MockClient{
		InvoicesFunc: func(ctx context.Context, userID, orgID string, opts *accounting.ListOptions) ([]accounting.Invoice, error) {
			return []accounting.Invoice{{ID: "inv-1", Number: "INV-001"}}, nil
		},
	}
	exchange := &connect.MockExchangeService{ExchangeFunc: func(ctx context.Context, code, redirectURI, userID string) (connect.ExchangeResult, error) {
		if err := store.Put(ctx, connect.ConnectionRecord{UserID: userID, OrganizationID: "org-77"}); err != nil {
			return connect.ExchangeResult{}, err
		}
		return connect.ExchangeResult{Success: true}, nil
	}}
	svc := New(Config{
		SessionSecret: secret,
		RedirectURI:   "https://app.example.com/integrations/callback",
		Client:        client,
		Store:         store,
		Exchange:      exchange,
	})
	mux := http.NewServeMux()
	svc.Register(mux)
	return svc, mux
}

func TestConnectFlow(t *testing.T) {
	secret := []byte("test-secret")
	svc, mux := newTestService(t, secret)
	cookie := signedInCookie(t, secret, "user-1")

	// initial status: disconnected
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "https://app.example.com/integrations/status", nil)
	req.AddCookie(cookie)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status endpoint returned %d", rr.Code)
	}
	var st connect.State
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Status != connect.StatusDisconnected {
		t.Fatalf("expected disconnected, got %s", st.Status)
	}

	// provider redirect arrives with a code
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "https://app.example.com/integrations/callback?code=abc123", nil)
	req.AddCookie(cookie)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusFound {
		t.Fatalf("callback returned %d", rr.Code)
	}
	loc := rr.Header().Get("Location")
	if strings.Contains(loc, "code=") {
		t.Errorf("expected code stripped from redirect target, got %s", loc)
	}

	// session adopted the connection
	snap := svc.Session.Snapshot()
	if snap.Status != connect.StatusConnected || snap.OrganizationID != "org-77" {
		t.Fatalf("expected connected to org-77, got %s/%q", snap.Status, snap.OrganizationID)
	}

	// view load returns data scoped to the connection
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "https://app.example.com/integrations/views/invoices", nil)
	req.AddCookie(cookie)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("view endpoint returned %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "inv-1") {
		t.Errorf("expected invoice in response, got %s", rr.Body.String())
	}

	// disconnect clears connection and view data
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "https://app.example.com/integrations/disconnect", nil)
	req.AddCookie(cookie)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("disconnect returned %d", rr.Code)
	}
	if got := svc.Session.Snapshot().Status; got != connect.StatusDisconnected {
		t.Errorf("expected disconnected, got %s", got)
	}
	if inv := svc.Orchestrator.StateOf("invoices").Invoices; len(inv) != 0 {
		t.Errorf("expected view data cleared, got %+v", inv)
	}

	// further view selections issue no load until reconnected
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "https://app.example.com/integrations/views/invoices", nil)
	req.AddCookie(cookie)
	mux.ServeHTTP(rr, req)
	if strings.Contains(rr.Body.String(), "inv-1") {
		t.Errorf("expected no data while disconnected, got %s", rr.Body.String())
	}
}

func TestCallback_DeferredWithoutIdentity(t *testing.T) {
	secret := []byte("test-secret")
	_, mux := newTestService(t, secret)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "https://app.example.com/integrations/callback?code=abc123", nil)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusFound {
		t.Fatalf("callback returned %d", rr.Code)
	}
	loc := rr.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?next=") {
		t.Fatalf("expected redirect to sign-in, got %s", loc)
	}
	// the code survives the round trip so the exchange can happen later
	if !strings.Contains(loc, "code%3Dabc123") {
		t.Errorf("expected code retained in next url, got %s", loc)
	}
}

func TestConnect_InertWhenUnconfigured(t *testing.T) {
	secret := []byte("test-secret")
	svc := New(Config{SessionSecret: secret})
	mux := http.NewServeMux()
	svc.Register(mux)
	cookie := signedInCookie(t, secret, "user-1")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "https://app.example.com/integrations/connect", nil)
	req.AddCookie(cookie)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for missing configuration, got %d", rr.Code)
	}
}
