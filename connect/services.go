package connect

import "context"

// StatusResult is the status service's report for one user.
type StatusResult struct {
	Connected      bool   `json:"is_connected"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// StatusService answers whether a user currently holds a provider connection.
type StatusService interface {
	GetStatus(ctx context.Context, userID string) (StatusResult, error)
}

// ExchangeResult is the outcome of an authorization-code exchange. A provider
// rejection is reported through Success=false rather than an error.
type ExchangeResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ExchangeService swaps an authorization code for a durable connection. The
// caller is responsible for at-most-once invocation per code.
type ExchangeService interface {
	Exchange(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error)
}
