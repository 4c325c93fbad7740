package accounting

import "context"

// MockClient provides customizable hooks for testing APIClient behavior.
type MockClient struct {
	InvoicesFunc         func(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Invoice, error)
	CustomersFunc        func(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Customer, error)
	ExpensesFunc         func(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Expense, error)
	ProfitAndLossFunc    func(ctx context.Context, userID, orgID string) (ReportSnapshot, error)
	DisconnectFunc       func(ctx context.Context, userID string) error
	AuthorizationURLFunc func() (string, error)
}

// Ensure MockClient implements APIClient
var _ APIClient = (*MockClient)(nil)

// Invoices calls InvoicesFunc if set, otherwise returns nil, nil
func (m *MockClient) Invoices(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Invoice, error) {
	if m.InvoicesFunc != nil {
		return m.InvoicesFunc(ctx, userID, orgID, opts)
	}
	return nil, nil
}

// Customers calls CustomersFunc if set, otherwise returns nil, nil
func (m *MockClient) Customers(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Customer, error) {
	if m.CustomersFunc != nil {
		return m.CustomersFunc(ctx, userID, orgID, opts)
	}
	return nil, nil
}

// Expenses calls ExpensesFunc if set, otherwise returns nil, nil
func (m *MockClient) Expenses(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Expense, error) {
	if m.ExpensesFunc != nil {
		return m.ExpensesFunc(ctx, userID, orgID, opts)
	}
	return nil, nil
}

// ProfitAndLoss calls ProfitAndLossFunc if set, otherwise returns a zero snapshot
func (m *MockClient) ProfitAndLoss(ctx context.Context, userID, orgID string) (ReportSnapshot, error) {
	if m.ProfitAndLossFunc != nil {
		return m.ProfitAndLossFunc(ctx, userID, orgID)
	}
	return ReportSnapshot{}, nil
}

// Disconnect calls DisconnectFunc if set, otherwise returns nil
func (m *MockClient) Disconnect(ctx context.Context, userID string) error {
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(ctx, userID)
	}
	return nil
}

// AuthorizationURL calls AuthorizationURLFunc if set, otherwise returns "", nil
func (m *MockClient) AuthorizationURL() (string, error) {
	if m.AuthorizationURLFunc != nil {
		return m.AuthorizationURLFunc()
	}
	return "", nil
}
