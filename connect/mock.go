package connect

import "context"

// MockStatusService provides customizable hooks for testing StatusService behavior.
type MockStatusService struct {
	GetStatusFunc func(ctx context.Context, userID string) (StatusResult, error)
}

// Ensure MockStatusService implements StatusService
var _ StatusService = (*MockStatusService)(nil)

// GetStatus calls GetStatusFunc if set, otherwise reports not connected
func (m *MockStatusService) GetStatus(ctx context.Context, userID string) (StatusResult, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, userID)
	}
	return StatusResult{Connected: false}, nil
}

// MockExchangeService provides customizable hooks for testing ExchangeService behavior.
type MockExchangeService struct {
	ExchangeFunc func(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error)
}

// Ensure MockExchangeService implements ExchangeService
var _ ExchangeService = (*MockExchangeService)(nil)

// Exchange calls ExchangeFunc if set, otherwise reports success
func (m *MockExchangeService) Exchange(ctx context.Context, code, redirectURI, userID string) (ExchangeResult, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code, redirectURI, userID)
	}
	return ExchangeResult{Success: true}, nil
}
