package session

import (
	"context"
)

type contextKey string

const identityKey contextKey = "USER_IDENTITY"

const identityCookieName = "identity"

// Identity holds the authenticated user information the integration layer
// needs. Connection and view state are keyed by UserID.
type Identity struct {
	UserID    string `json:"user_id"`
	SignedIn  bool   `json:"signed_in"`
	ExpiresAt int64  `json:"expires_at"`
	Domain    string `json:"domain,omitempty"`
}

// WithContext attaches the identity to the context
func (u *Identity) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, identityKey, u)
}
