package connect

import "errors"

// Error taxonomy for the connection lifecycle. Status-check failures are
// non-fatal and only ever logged; the rest surface as user notifications and
// wrapped errors.
var (
	// ErrAuthorization indicates the user or provider declined authorization.
	ErrAuthorization = errors.New("authorization declined")
	// ErrExchange indicates the code exchange failed in transport or was
	// rejected by the provider.
	ErrExchange = errors.New("code exchange failed")
	// ErrStatusCheck indicates the status service could not be read.
	ErrStatusCheck = errors.New("status check failed")
	// ErrDisconnect indicates the provider rejected the disconnect; state is
	// left unchanged.
	ErrDisconnect = errors.New("disconnect failed")
)
