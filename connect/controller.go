package connect

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/accounting"
	"github.com/Seann-Moser/ledgerlink/notify"
)

// Controller drives the connection state machine. It is the only component
// besides the CallbackHandler that mutates the session.
type Controller struct {
	session  *Session
	status   StatusService
	client   accounting.APIClient
	notifier notify.Notifier
	logger   zerolog.Logger
	store    ConnectionStore
	reset    func()
}

// NewController constructs a Controller over the given session.
func NewController(session *Session, status StatusService, client accounting.APIClient, notifier notify.Notifier, logger zerolog.Logger) *Controller {
	return &Controller{
		session:  session,
		status:   status,
		client:   client,
		notifier: notifier,
		logger:   logger,
	}
}

// SetResetHook registers the callback that clears all per-view data when the
// session disconnects.
func (c *Controller) SetResetHook(fn func()) {
	c.reset = fn
}

// SetConnectionStore attaches the record store so a successful disconnect also
// removes the persisted connection.
func (c *Controller) SetConnectionStore(store ConnectionStore) {
	c.store = store
}

// Session returns the session this controller owns.
func (c *Controller) Session() *Session {
	return c.session
}

// CheckStatus queries the status service and applies the resulting
// transition. While a callback exchange is in flight the check is suppressed
// and the current snapshot returned unchanged: a status read concurrent with
// a token exchange could report the prior disconnected state as final.
// Query failures are non-fatal; they log a warning and map to Disconnected.
func (c *Controller) CheckStatus(ctx context.Context, userID string) State {
	snap := c.session.Snapshot()
	if snap.CallbackInFlight {
		return snap
	}
	prior := snap.Status
	c.session.setChecking()

	res, err := c.status.GetStatus(ctx, userID)
	if err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("connection status check failed")
		c.session.setDisconnected()
		return c.session.Snapshot()
	}
	// A bare status check never promotes an explicitly disconnected session;
	// only a successful callback exchange does that.
	if res.Connected && res.OrganizationID != "" && prior != StatusDisconnected {
		c.session.setConnected(res.OrganizationID)
	} else {
		c.session.setDisconnected()
	}
	return c.session.Snapshot()
}

// AdoptConnected transitions the session to Connected after a successful code
// exchange, re-reading the status service for the organization id.
func (c *Controller) AdoptConnected(ctx context.Context, userID string) error {
	res, err := c.status.GetStatus(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	if !res.Connected || res.OrganizationID == "" {
		return fmt.Errorf("%w: exchange succeeded but no organization reported", ErrStatusCheck)
	}
	c.session.setConnected(res.OrganizationID)
	return nil
}

// adoptDisconnected applies the Connected→Disconnected transition after a
// provider authorization error.
func (c *Controller) adoptDisconnected() {
	c.session.setDisconnected()
}

// AuthorizationURL builds the provider authorization URL. Returns a wrapped
// accounting.ErrConfiguration when the OAuth application settings are missing,
// which callers surface as an inert connect action.
func (c *Controller) AuthorizationURL() (string, error) {
	u, err := c.client.AuthorizationURL()
	if err != nil {
		return "", fmt.Errorf("authorization url: %w", err)
	}
	return u, nil
}

// Disconnect revokes the remote connection. On success the session becomes
// Disconnected, the organization id is cleared, and all per-view data is
// reset. On failure state is left unchanged and the user notified.
func (c *Controller) Disconnect(ctx context.Context, userID string) error {
	if err := c.client.Disconnect(ctx, userID); err != nil {
		c.notifier.Error("Failed to disconnect from the accounting provider")
		return fmt.Errorf("%w: %v", ErrDisconnect, err)
	}
	c.session.setDisconnected()
	if c.store != nil {
		if err := c.store.Delete(ctx, userID); err != nil {
			c.logger.Debug().Err(err).Str("user_id", userID).Msg("connection record cleanup failed")
		}
	}
	if c.reset != nil {
		c.reset()
	}
	c.notifier.Success("Disconnected from the accounting provider")
	return nil
}
