package connect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/notify"
	"github.com/Seann-Moser/ledgerlink/utils"
)

// Outcome classifies how a redirect was handled.
type Outcome string

const (
	// OutcomeNoOp: an ordinary page load, or a redirect whose code was
	// already handled. No exchange was issued.
	OutcomeNoOp Outcome = "noop"
	// OutcomeDeferred: a code is present but no authenticated user identity
	// is available yet. The caller must re-invoke once identity exists; the
	// returned URL keeps the code so nothing is dropped.
	OutcomeDeferred Outcome = "deferred"
	// OutcomeError: the provider declined authorization or the exchange
	// failed. Connection state is unchanged except Connected→Disconnected on
	// a provider error.
	OutcomeError Outcome = "error"
	// OutcomeSuccess: the code was exchanged and the session is Connected.
	OutcomeSuccess Outcome = "success"
)

// CallbackResult reports the outcome of redirect handling. CleanURL is the
// address the browser should end up on; on every terminal path it no longer
// carries OAuth redirect parameters, so a refresh cannot re-process the code.
// Err wraps ErrAuthorization or ErrExchange when Outcome is OutcomeError.
type CallbackResult struct {
	Outcome  Outcome
	Reason   string
	CleanURL string
	Err      error
}

// CallbackHandler resolves incoming OAuth redirects, exchanging each
// authorization code at most once.
type CallbackHandler struct {
	controller  *Controller
	exchange    ExchangeService
	redirectURI string
	notifier    notify.Notifier
	logger      zerolog.Logger
	reload      func(ctx context.Context, userID string)
}

// NewCallbackHandler constructs a CallbackHandler. redirectURI must match the
// URI the authorization request was issued with.
func NewCallbackHandler(controller *Controller, exchange ExchangeService, redirectURI string, notifier notify.Notifier, logger zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		controller:  controller,
		exchange:    exchange,
		redirectURI: redirectURI,
		notifier:    notifier,
		logger:      logger,
	}
}

// SetReloadHook registers the full data reload scheduled after a successful
// exchange.
func (h *CallbackHandler) SetReloadHook(fn func(ctx context.Context, userID string)) {
	h.reload = fn
}

// HandleRequest resolves the redirect carried by an incoming HTTP request.
// When no redirect URI is configured the exchange uses one derived from the
// request origin plus the fixed callback path, matching what the provider saw
// in the authorization request.
func (h *CallbackHandler) HandleRequest(r *http.Request, userID string) CallbackResult {
	redirectURI := h.redirectURI
	if redirectURI == "" {
		redirectURI = utils.DefaultRedirectURI(r)
	}
	return h.handle(r.Context(), utils.FullURL(r), redirectURI, userID)
}

// HandleRedirect parses the redirect address and drives the exchange. Safe to
// invoke repeatedly for the same redirect: the session's one-shot code token
// guarantees a single exchange per code.
func (h *CallbackHandler) HandleRedirect(ctx context.Context, rawURL, userID string) CallbackResult {
	return h.handle(ctx, rawURL, h.redirectURI, userID)
}

func (h *CallbackHandler) handle(ctx context.Context, rawURL, redirectURI, userID string) CallbackResult {
	if !utils.HasOAuthParams(rawURL) {
		// ordinary page load
		return CallbackResult{Outcome: OutcomeNoOp, CleanURL: rawURL}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return CallbackResult{Outcome: OutcomeNoOp, CleanURL: rawURL}
	}
	q := u.Query()
	code := q.Get("code")
	provErr := q.Get("error")
	clean := utils.StripOAuthParams(rawURL)

	if provErr != "" {
		h.logger.Warn().Str("error", provErr).Msg("provider declined authorization")
		h.notifier.Error("Authorization was declined: " + provErr)
		h.controller.adoptDisconnected()
		return CallbackResult{
			Outcome:  OutcomeError,
			Reason:   provErr,
			CleanURL: clean,
			Err:      fmt.Errorf("%w: %s", ErrAuthorization, provErr),
		}
	}

	if userID == "" {
		// keep the code in the address so a later invocation can finish
		return CallbackResult{Outcome: OutcomeDeferred, CleanURL: rawURL}
	}

	sess := h.controller.Session()
	if !sess.claimCode(code) {
		return CallbackResult{Outcome: OutcomeNoOp, CleanURL: clean}
	}
	res, err := h.exchange.Exchange(ctx, code, redirectURI, userID)
	sess.releaseCode(code)
	if err != nil || !res.Success {
		reason := res.Error
		if err != nil {
			reason = err.Error()
		}
		h.logger.Warn().Str("reason", reason).Msg("code exchange failed")
		h.notifier.Error("Failed to connect to the accounting provider")
		return CallbackResult{
			Outcome:  OutcomeError,
			Reason:   reason,
			CleanURL: clean,
			Err:      fmt.Errorf("%w: %s", ErrExchange, reason),
		}
	}

	if err := h.controller.AdoptConnected(ctx, userID); err != nil {
		h.logger.Warn().Err(err).Msg("connected but status not yet readable")
	}
	if h.reload != nil {
		h.reload(ctx, userID)
	}
	h.notifier.Success("Connected to the accounting provider")
	return CallbackResult{Outcome: OutcomeSuccess, CleanURL: clean}
}
