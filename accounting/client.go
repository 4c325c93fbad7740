package accounting

import "context"

// APIClient defines all operations against the accounting provider. All
// collection calls are scoped to a user and the organization that user's
// connection resolved to.
type APIClient interface {
	// Invoices returns sales invoices, bounded by opts.Limit when set.
	Invoices(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Invoice, error)

	// Customers returns contact records, bounded by opts.Limit when set.
	Customers(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Customer, error)

	// Expenses returns recorded expenses, bounded by opts.Limit when set.
	Expenses(ctx context.Context, userID, orgID string, opts *ListOptions) ([]Expense, error)

	// ProfitAndLoss returns the current profit-and-loss summary.
	ProfitAndLoss(ctx context.Context, userID, orgID string) (ReportSnapshot, error)

	// Disconnect revokes the remote connection for the user.
	Disconnect(ctx context.Context, userID string) error

	// AuthorizationURL builds the provider authorization URL. Returns
	// ErrConfiguration when the OAuth application settings are incomplete.
	AuthorizationURL() (string, error)
}
