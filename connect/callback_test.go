package connect

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/accounting"
	"github.com/Seann-Moser/ledgerlink/notify"
)

type countingExchange struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error)
}

func (c *countingExchange) Exchange(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.fn != nil {
		return c.fn(ctx, code, redirectURI, userID)
	}
	return ExchangeResult{Success: true}, nil
}

func (c *countingExchange) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestHandler(status StatusService, exchange ExchangeService, notifier notify.Notifier) (*CallbackHandler, *Controller) {
	if notifier == nil {
		notifier = &notify.Mock{}
	}
	controller := NewController(NewSession(), status, &accounting.MockClient{}, notifier, zerolog.Nop())
	h := NewCallbackHandler(controller, exchange, "https://app.example.com/integrations/callback", notifier, zerolog.Nop())
	return h, controller
}

func TestHandleRedirect_NoParams(t *testing.T) {
	ex := &countingExchange{}
	h, controller := newTestHandler(&MockStatusService{}, ex, nil)

	res := h.HandleRedirect(context.Background(), "https://app.example.com/integrations?tab=invoices", "user-1")
	if res.Outcome != OutcomeNoOp {
		t.Fatalf("expected NoOp, got %s", res.Outcome)
	}
	if ex.count() != 0 {
		t.Errorf("expected no exchange call, got %d", ex.count())
	}
	if got := controller.Session().Snapshot().Status; got != StatusUnknown {
		t.Errorf("expected state unchanged (unknown), got %s", got)
	}
	if res.CleanURL != "https://app.example.com/integrations?tab=invoices" {
		t.Errorf("expected url unchanged, got %s", res.CleanURL)
	}
}

func TestHandleRedirect_ProviderError(t *testing.T) {
	ex := &countingExchange{}
	var errNotes []string
	notifier := &notify.Mock{ErrorFunc: func(m string) { errNotes = append(errNotes, m) }}
	h, controller := newTestHandler(&MockStatusService{}, ex, notifier)
	controller.Session().setConnected("org-1")

	res := h.HandleRedirect(context.Background(), "https://app.example.com/integrations?error=access_denied", "user-1")
	if res.Outcome != OutcomeError {
		t.Fatalf("expected Error, got %s", res.Outcome)
	}
	if res.Reason != "access_denied" {
		t.Errorf("expected reason access_denied, got %q", res.Reason)
	}
	if ex.count() != 0 {
		t.Errorf("expected no exchange call, got %d", ex.count())
	}
	if len(errNotes) != 1 {
		t.Errorf("expected exactly one error notification, got %d", len(errNotes))
	}
	snap := controller.Session().Snapshot()
	if snap.Status != StatusDisconnected {
		t.Errorf("expected disconnected, got %s", snap.Status)
	}
	if snap.OrganizationID != "" {
		t.Errorf("expected organization id cleared, got %q", snap.OrganizationID)
	}
	if strings.Contains(res.CleanURL, "error=") {
		t.Errorf("expected error param stripped, got %s", res.CleanURL)
	}
}

func TestHandleRedirect_Deferred(t *testing.T) {
	ex := &countingExchange{}
	h, _ := newTestHandler(&MockStatusService{}, ex, nil)

	res := h.HandleRedirect(context.Background(), "https://app.example.com/integrations?code=abc123", "")
	if res.Outcome != OutcomeDeferred {
		t.Fatalf("expected Deferred, got %s", res.Outcome)
	}
	if ex.count() != 0 {
		t.Errorf("expected no exchange call, got %d", ex.count())
	}
	// the code must survive so a later invocation can finish the exchange
	if !strings.Contains(res.CleanURL, "code=abc123") {
		t.Errorf("expected code retained for re-invocation, got %s", res.CleanURL)
	}
}

func TestHandleRedirect_DuplicateInvocationSingleExchange(t *testing.T) {
	ex := &countingExchange{}
	status := &MockStatusService{GetStatusFunc: func(ctx context.Context, userID string) (StatusResult, error) {
		return StatusResult{Connected: true, OrganizationID: "org-9"}, nil
	}}
	h, _ := newTestHandler(status, ex, nil)

	raw := "https://app.example.com/integrations?code=dup-code"
	first := h.HandleRedirect(context.Background(), raw, "user-1")
	second := h.HandleRedirect(context.Background(), raw, "user-1")

	if first.Outcome != OutcomeSuccess {
		t.Fatalf("expected first invocation to succeed, got %s", first.Outcome)
	}
	if second.Outcome != OutcomeNoOp {
		t.Errorf("expected second invocation to be a no-op, got %s", second.Outcome)
	}
	if ex.count() != 1 {
		t.Errorf("expected exactly one exchange call, got %d", ex.count())
	}
}

func TestHandleRedirect_Success(t *testing.T) {
	ex := &countingExchange{}
	connected := false
	status := &MockStatusService{GetStatusFunc: func(ctx context.Context, userID string) (StatusResult, error) {
		if connected {
			return StatusResult{Connected: true, OrganizationID: "org-42"}, nil
		}
		return StatusResult{}, nil
	}}
	ex.fn = func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
		connected = true
		return ExchangeResult{Success: true}, nil
	}
	var reloaded bool
	h, controller := newTestHandler(status, ex, nil)
	h.SetReloadHook(func(ctx context.Context, userID string) { reloaded = true })

	res := h.HandleRedirect(context.Background(), "https://app.example.com/integrations?code=good&state=xyz", "user-1")
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("expected Success, got %s (reason %q)", res.Outcome, res.Reason)
	}
	snap := controller.Session().Snapshot()
	if snap.Status != StatusConnected || snap.OrganizationID != "org-42" {
		t.Errorf("expected connected to org-42, got %s/%q", snap.Status, snap.OrganizationID)
	}
	if strings.Contains(res.CleanURL, "code=") || strings.Contains(res.CleanURL, "state=") {
		t.Errorf("expected redirect params stripped, got %s", res.CleanURL)
	}
	if !reloaded {
		t.Errorf("expected full data reload to be scheduled")
	}
	// a subsequent bare status check still reports connected
	after := controller.CheckStatus(context.Background(), "user-1")
	if after.Status != StatusConnected || after.OrganizationID == "" {
		t.Errorf("expected status check to report connected, got %s/%q", after.Status, after.OrganizationID)
	}
}

func TestHandleRedirect_ExchangeFailureLeavesStateUnchanged(t *testing.T) {
	var errNotes int
	notifier := &notify.Mock{ErrorFunc: func(string) { errNotes++ }}
	ex := &countingExchange{fn: func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
		return ExchangeResult{Success: false, Error: "invalid_grant"}, nil
	}}
	h, controller := newTestHandler(&MockStatusService{}, ex, notifier)

	res := h.HandleRedirect(context.Background(), "https://app.example.com/integrations?code=bad", "user-1")
	if res.Outcome != OutcomeError {
		t.Fatalf("expected Error, got %s", res.Outcome)
	}
	if res.Reason != "invalid_grant" {
		t.Errorf("expected provider reason, got %q", res.Reason)
	}
	if got := controller.Session().Snapshot().Status; got != StatusUnknown {
		t.Errorf("expected connection state unchanged, got %s", got)
	}
	if errNotes != 1 {
		t.Errorf("expected one error notification, got %d", errNotes)
	}
	if strings.Contains(res.CleanURL, "code=") {
		t.Errorf("expected code stripped on failure too, got %s", res.CleanURL)
	}
}

func TestHandleRequest_DerivesRedirectURIFromOrigin(t *testing.T) {
	var gotURI string
	ex := &countingExchange{fn: func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
		gotURI = redirectURI
		return ExchangeResult{Success: true}, nil
	}}
	status := &MockStatusService{GetStatusFunc: func(ctx context.Context, userID string) (StatusResult, error) {
		return StatusResult{Connected: true, OrganizationID: "org-1"}, nil
	}}
	controller := NewController(NewSession(), status, &accounting.MockClient{}, &notify.Mock{}, zerolog.Nop())
	// no redirect URI configured
	h := NewCallbackHandler(controller, ex, "", &notify.Mock{}, zerolog.Nop())

	req := httptest.NewRequest("GET", "https://app.example.com/integrations/callback?code=abc", nil)
	res := h.HandleRequest(req, "user-1")
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("expected Success, got %s (reason %q)", res.Outcome, res.Reason)
	}
	if gotURI != "https://app.example.com/integrations/callback" {
		t.Errorf("expected redirect uri derived from the request origin, got %q", gotURI)
	}
}

func TestHandleRequest_ConfiguredRedirectURIWins(t *testing.T) {
	var gotURI string
	ex := &countingExchange{fn: func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
		gotURI = redirectURI
		return ExchangeResult{Success: true}, nil
	}}
	status := &MockStatusService{GetStatusFunc: func(ctx context.Context, userID string) (StatusResult, error) {
		return StatusResult{Connected: true, OrganizationID: "org-1"}, nil
	}}
	controller := NewController(NewSession(), status, &accounting.MockClient{}, &notify.Mock{}, zerolog.Nop())
	h := NewCallbackHandler(controller, ex, "https://configured.example.com/cb", &notify.Mock{}, zerolog.Nop())

	req := httptest.NewRequest("GET", "https://app.example.com/integrations/callback?code=abc", nil)
	if res := h.HandleRequest(req, "user-1"); res.Outcome != OutcomeSuccess {
		t.Fatalf("expected Success, got %s", res.Outcome)
	}
	if gotURI != "https://configured.example.com/cb" {
		t.Errorf("expected configured redirect uri, got %q", gotURI)
	}
}

func TestHandleRedirect_TransportError(t *testing.T) {
	ex := &countingExchange{fn: func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
		return ExchangeResult{}, errors.New("connection refused")
	}}
	h, controller := newTestHandler(&MockStatusService{}, ex, nil)

	res := h.HandleRedirect(context.Background(), "https://app.example.com/integrations?code=net", "user-1")
	if res.Outcome != OutcomeError {
		t.Fatalf("expected Error, got %s", res.Outcome)
	}
	if got := controller.Session().Snapshot().Status; got != StatusUnknown {
		t.Errorf("expected connection state unchanged, got %s", got)
	}
}
