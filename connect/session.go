package connect

import (
	"sync"

	"github.com/google/uuid"
)

// Status is the connection lifecycle state.
type Status string

const (
	StatusUnknown      Status = "unknown"
	StatusChecking     Status = "checking"
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
)

// State is an immutable snapshot of the connection session. OrganizationID is
// non-empty exactly when Status is StatusConnected.
type State struct {
	Status           Status `json:"status"`
	OrganizationID   string `json:"organization_id,omitempty"`
	CallbackInFlight bool   `json:"callback_in_flight,omitempty"`
}

// Session owns the mutable connection state for one user session. Only the
// Controller and the CallbackHandler mutate it; everything else reads
// snapshots.
type Session struct {
	mu               sync.Mutex
	id               string
	status           Status
	organizationID   string
	callbackInFlight bool
	inflightCode     string
	completedCodes   map[string]struct{}
}

// NewSession creates a session in the Unknown state.
func NewSession() *Session {
	return &Session{
		id:             uuid.NewString(),
		status:         StatusUnknown,
		completedCodes: make(map[string]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current connection state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Status:           s.status,
		OrganizationID:   s.organizationID,
		CallbackInFlight: s.callbackInFlight,
	}
}

// OrganizationID returns the connected organization id. ok is false unless the
// session is Connected.
func (s *Session) OrganizationID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusConnected {
		return "", false
	}
	return s.organizationID, true
}

func (s *Session) setChecking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusUnknown {
		s.status = StatusChecking
	}
}

func (s *Session) setConnected(organizationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusConnected
	s.organizationID = organizationID
}

func (s *Session) setDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusDisconnected
	s.organizationID = ""
}

// claimCode reserves an authorization code for a single exchange. It reports
// false when the code was already exchanged or another exchange is in flight,
// so duplicate redirect handling never issues a second exchange for the same
// code.
func (s *Session) claimCode(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.completedCodes[code]; done {
		return false
	}
	if s.inflightCode != "" {
		return false
	}
	s.inflightCode = code
	s.callbackInFlight = true
	return true
}

// releaseCode marks the code as consumed, success or failure. Authorization
// codes are single-use; a failed exchange burns the code too.
func (s *Session) releaseCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflightCode == code {
		s.inflightCode = ""
	}
	s.completedCodes[code] = struct{}{}
	s.callbackInFlight = false
}
