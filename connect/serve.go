package connect

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/accounting"
	"github.com/Seann-Moser/ledgerlink/session"
)

// Handler exposes the connection lifecycle over HTTP.
type Handler struct {
	controller *Controller
	callback   *CallbackHandler
	secret     []byte
	logger     zerolog.Logger
}

func NewHandler(controller *Controller, callback *CallbackHandler, secret []byte, logger zerolog.Logger) *Handler {
	return &Handler{
		controller: controller,
		callback:   callback,
		secret:     secret,
		logger:     logger,
	}
}

// writeJSON helper sends a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError helper sends a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// userID extracts the signed-in user from the identity cookie; empty when
// nobody is signed in yet.
func (h *Handler) userID(r *http.Request) string {
	id, err := session.IdentityFromCookie(r, h.secret)
	if err != nil || !id.SignedIn {
		return ""
	}
	return id.UserID
}

// Status reports the current connection state, refreshing it from the status
// service first.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	uid := h.userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, h.controller.CheckStatus(r.Context(), uid))
}

// Connect redirects the browser to the provider authorization URL.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	if uid := h.userID(r); uid == "" {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	u, err := h.controller.AuthorizationURL()
	if err != nil {
		if errors.Is(err, accounting.ErrConfiguration) {
			writeError(w, http.StatusServiceUnavailable, "integration is not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

// Callback resolves the provider redirect and sends the browser to the
// cleaned address.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	uid := h.userID(r)
	res := h.callback.HandleRequest(r, uid)
	if res.Outcome == OutcomeDeferred {
		// the sign-in flow returns here with the code still in the address
		http.Redirect(w, r, "/login?next="+url.QueryEscape(res.CleanURL), http.StatusFound)
		return
	}
	http.Redirect(w, r, res.CleanURL, http.StatusFound)
}

// Disconnect revokes the connection.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	uid := h.userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	if err := h.controller.Disconnect(r.Context(), uid); err != nil {
		h.logger.Warn().Err(err).Str("user_id", uid).Msg("disconnect failed")
		writeError(w, http.StatusBadGateway, "disconnect failed")
		return
	}
	writeJSON(w, http.StatusOK, h.controller.Session().Snapshot())
}
