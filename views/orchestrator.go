package views

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Seann-Moser/ledgerlink/accounting"
	"github.com/Seann-Moser/ledgerlink/notify"
)

const cacheTTL = 5 * time.Minute

// viewState is the orchestrator-owned load state for one view.
type viewState struct {
	loading    bool
	generation uint64
	invoices   []accounting.Invoice
	customers  []accounting.Customer
	expenses   []accounting.Expense
	report     accounting.ReportSnapshot
}

// fetched carries the completion of one load.
type fetched struct {
	invoices  []accounting.Invoice
	customers []accounting.Customer
	expenses  []accounting.Expense
	report    accounting.ReportSnapshot
	err       error
}

// cachedView is the cache wire format for a view's collections.
type cachedView struct {
	Invoices  []accounting.Invoice      `json:"invoices,omitempty"`
	Customers []accounting.Customer     `json:"customers,omitempty"`
	Expenses  []accounting.Expense      `json:"expenses,omitempty"`
	Report    accounting.ReportSnapshot `json:"report"`
}

// Orchestrator loads per-view collections scoped to the current connection.
// Superseded loads are never cancelled; their completions are discarded by
// comparing the generation captured at start against the view's latest, so
// displayed data always converges to the most recently started load.
type Orchestrator struct {
	mu        sync.Mutex
	client    accounting.APIClient
	source    ConnectionSource
	cache     Cache
	notifier  notify.Notifier
	logger    zerolog.Logger
	states    map[View]*viewState
	lastOrgID string
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(client accounting.APIClient, source ConnectionSource, notifier notify.Notifier, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		source:   source,
		notifier: notifier,
		logger:   logger,
		states:   make(map[View]*viewState),
	}
}

// SetCache attaches a best-effort collection cache.
func (o *Orchestrator) SetCache(c Cache) {
	o.cache = c
}

// stateLocked returns the view's state, creating it lazily. Caller holds mu.
func (o *Orchestrator) stateLocked(view View) *viewState {
	st, ok := o.states[view]
	if !ok {
		st = &viewState{}
		o.states[view] = st
	}
	return st
}

// Load fetches the view's collection. No-op unless the session is connected.
// Safe to call concurrently; stale completions are discarded.
func (o *Orchestrator) Load(ctx context.Context, view View, userID string) {
	orgID, ok := o.source.OrganizationID()
	if !ok || userID == "" {
		return
	}

	o.mu.Lock()
	st := o.stateLocked(view)
	st.generation++
	gen := st.generation
	st.loading = true
	o.lastOrgID = orgID
	o.mu.Unlock()

	o.applyCached(ctx, view, orgID, gen)

	f := o.fetch(ctx, view, userID, orgID)
	o.apply(ctx, view, orgID, gen, f)
}

// LoadAll refreshes every entity view. Used as the full data reload after a
// successful connection.
func (o *Orchestrator) LoadAll(ctx context.Context, userID string) {
	for _, v := range []View{ViewInvoices, ViewCustomers, ViewExpenses, ViewReports} {
		o.Load(ctx, v, userID)
	}
}

// fetch dispatches the view kind onto the matching collaborator accessor.
func (o *Orchestrator) fetch(ctx context.Context, view View, userID, orgID string) fetched {
	var f fetched
	switch view {
	case ViewInvoices:
		f.invoices, f.err = o.client.Invoices(ctx, userID, orgID, nil)
	case ViewCustomers:
		f.customers, f.err = o.client.Customers(ctx, userID, orgID, nil)
	case ViewExpenses:
		f.expenses, f.err = o.client.Expenses(ctx, userID, orgID, nil)
	case ViewReports:
		f.report, f.err = o.client.ProfitAndLoss(ctx, userID, orgID)
	default:
		f.err = fmt.Errorf("view %q has no collection", view)
	}
	return f
}

// apply installs a completion, unless a newer load has started since.
func (o *Orchestrator) apply(ctx context.Context, view View, orgID string, gen uint64, f fetched) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.stateLocked(view)
	if st.generation != gen {
		// stale completion; a newer load owns this view now
		return
	}
	st.loading = false
	if f.err != nil {
		o.logger.Warn().Err(f.err).Str("view", string(view)).Msg("view load failed")
		o.notifier.Error(fmt.Sprintf("Failed to load %s", view))
		st.invoices = []accounting.Invoice{}
		st.customers = []accounting.Customer{}
		st.expenses = []accounting.Expense{}
		st.report = accounting.ReportSnapshot{}
		return
	}
	st.invoices = orEmptyInvoices(f.invoices)
	st.customers = orEmptyCustomers(f.customers)
	st.expenses = orEmptyExpenses(f.expenses)
	st.report = f.report
	o.writeCache(ctx, view, orgID, st)
}

// applyCached pre-populates the view from the cache while the fresh fetch is
// in flight. Loading stays true; any cache failure is ignored.
func (o *Orchestrator) applyCached(ctx context.Context, view View, orgID string, gen uint64) {
	if o.cache == nil {
		return
	}
	raw, err := o.cache.Get(ctx, cacheKey(orgID, view))
	if err != nil {
		return
	}
	var cv cachedView
	if err := json.Unmarshal(raw, &cv); err != nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.stateLocked(view)
	if st.generation != gen {
		return
	}
	st.invoices = orEmptyInvoices(cv.Invoices)
	st.customers = orEmptyCustomers(cv.Customers)
	st.expenses = orEmptyExpenses(cv.Expenses)
	st.report = cv.Report
}

// writeCache stores the freshly applied collections. Caller holds mu.
func (o *Orchestrator) writeCache(ctx context.Context, view View, orgID string, st *viewState) {
	if o.cache == nil {
		return
	}
	raw, err := json.Marshal(cachedView{
		Invoices:  st.invoices,
		Customers: st.customers,
		Expenses:  st.expenses,
		Report:    st.report,
	})
	if err != nil {
		return
	}
	if err := o.cache.Set(ctx, cacheKey(orgID, view), raw, cacheTTL); err != nil {
		o.logger.Debug().Err(err).Str("view", string(view)).Msg("view cache write failed")
	}
}

// StateOf returns a snapshot of the view's load state.
func (o *Orchestrator) StateOf(view View) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.stateLocked(view)
	return State{
		View:      view,
		Loading:   st.loading,
		Invoices:  st.invoices,
		Customers: st.customers,
		Expenses:  st.expenses,
		Report:    st.report,
	}
}

// Reset clears all per-view data, e.g. on disconnect. Each view's generation
// advances so completions from before the reset can never apply; the entries
// themselves survive for the next connection.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	orgID := o.lastOrgID
	o.lastOrgID = ""
	for _, st := range o.states {
		st.generation++
		st.loading = false
		st.invoices = nil
		st.customers = nil
		st.expenses = nil
		st.report = accounting.ReportSnapshot{}
	}
	o.mu.Unlock()

	if o.cache != nil && orgID != "" {
		keys := make([]string, 0, 4)
		for _, v := range []View{ViewInvoices, ViewCustomers, ViewExpenses, ViewReports} {
			keys = append(keys, cacheKey(orgID, v))
		}
		if err := o.cache.Delete(context.Background(), keys...); err != nil {
			o.logger.Debug().Err(err).Msg("view cache clear failed")
		}
	}
}

func orEmptyInvoices(in []accounting.Invoice) []accounting.Invoice {
	if in == nil {
		return []accounting.Invoice{}
	}
	return in
}

func orEmptyCustomers(in []accounting.Customer) []accounting.Customer {
	if in == nil {
		return []accounting.Customer{}
	}
	return in
}

func orEmptyExpenses(in []accounting.Expense) []accounting.Expense {
	if in == nil {
		return []accounting.Expense{}
	}
	return in
}
