package views

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Seann-Moser/ledgerlink/session"
)

// Handler exposes view loading over HTTP. Each request triggers a load for
// the selected view and returns the resulting state.
type Handler struct {
	orchestrator *Orchestrator
	dashboard    *Dashboard
	secret       []byte
}

func NewHandler(orchestrator *Orchestrator, dashboard *Dashboard, secret []byte) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		dashboard:    dashboard,
		secret:       secret,
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

func (h *Handler) userID(r *http.Request) string {
	id, err := session.IdentityFromCookie(r, h.secret)
	if err != nil || !id.SignedIn {
		return ""
	}
	return id.UserID
}

// View loads the view named by the trailing path segment and returns its
// state. When disconnected the load is a no-op and the empty state returns.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/integrations/views/")
	view, ok := ParseView(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown view")
		return
	}
	uid := h.userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	if view == ViewDashboard {
		h.dashboard.Load(r.Context(), uid)
		writeJSON(w, http.StatusOK, h.dashboard.Snapshot())
		return
	}
	h.orchestrator.Load(r.Context(), view, uid)
	writeJSON(w, http.StatusOK, h.orchestrator.StateOf(view))
}

// DashboardSummary loads and returns the composed summary view.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	uid := h.userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	h.dashboard.Load(r.Context(), uid)
	writeJSON(w, http.StatusOK, h.dashboard.Snapshot())
}
