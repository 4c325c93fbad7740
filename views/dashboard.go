package views

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/accounting"
)

// dashboardLimit bounds each summary slice.
const dashboardLimit = 5

// DashboardState is a snapshot of the composed summary view.
type DashboardState struct {
	Loading   bool                  `json:"loading"`
	Invoices  []accounting.Invoice  `json:"invoices"`
	Customers []accounting.Customer `json:"customers"`
	Expenses  []accounting.Expense  `json:"expenses"`
}

// Dashboard fans out bounded fetches of invoices, customers and expenses and
// joins them into one summary. The dashboard is best-effort: a failed
// sub-fetch renders that section empty without blocking the others.
type Dashboard struct {
	mu         sync.Mutex
	client     accounting.APIClient
	source     ConnectionSource
	logger     zerolog.Logger
	generation uint64
	loading    bool
	invoices   []accounting.Invoice
	customers  []accounting.Customer
	expenses   []accounting.Expense
}

func NewDashboard(client accounting.APIClient, source ConnectionSource, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		client: client,
		source: source,
		logger: logger,
	}
}

// Load issues the three sub-fetches concurrently and applies the joined
// result, unless a newer load has started since.
func (d *Dashboard) Load(ctx context.Context, userID string) {
	orgID, ok := d.source.OrganizationID()
	if !ok || userID == "" {
		return
	}

	d.mu.Lock()
	d.generation++
	gen := d.generation
	d.loading = true
	d.mu.Unlock()

	opts := &accounting.ListOptions{Limit: dashboardLimit}
	var (
		invoices  []accounting.Invoice
		customers []accounting.Customer
		expenses  []accounting.Expense
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		v, err := d.client.Invoices(ctx, userID, orgID, opts)
		if err != nil {
			d.logger.Warn().Err(err).Msg("dashboard invoices fetch failed")
			return
		}
		invoices = v
	}()
	go func() {
		defer wg.Done()
		v, err := d.client.Customers(ctx, userID, orgID, opts)
		if err != nil {
			d.logger.Warn().Err(err).Msg("dashboard customers fetch failed")
			return
		}
		customers = v
	}()
	go func() {
		defer wg.Done()
		v, err := d.client.Expenses(ctx, userID, orgID, opts)
		if err != nil {
			d.logger.Warn().Err(err).Msg("dashboard expenses fetch failed")
			return
		}
		expenses = v
	}()
	wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation != gen {
		// stale completion
		return
	}
	d.loading = false
	d.invoices = orEmptyInvoices(invoices)
	d.customers = orEmptyCustomers(customers)
	d.expenses = orEmptyExpenses(expenses)
}

// Snapshot returns the current summary state.
func (d *Dashboard) Snapshot() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DashboardState{
		Loading:   d.loading,
		Invoices:  d.invoices,
		Customers: d.customers,
		Expenses:  d.expenses,
	}
}

// Reset clears the summary, advancing the generation so in-flight loads from
// before the reset are discarded.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	d.loading = false
	d.invoices = nil
	d.customers = nil
	d.expenses = nil
}
