package views

import "github.com/Seann-Moser/ledgerlink/accounting"

// View identifies one selectable data context.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewInvoices  View = "invoices"
	ViewCustomers View = "customers"
	ViewExpenses  View = "expenses"
	ViewReports   View = "reports"
)

// ParseView maps a string onto a known view kind.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewDashboard, ViewInvoices, ViewCustomers, ViewExpenses, ViewReports:
		return View(s), true
	}
	return "", false
}

// ConnectionSource exposes the organization a connected session is scoped to.
// Implemented by connect.Session.
type ConnectionSource interface {
	OrganizationID() (string, bool)
}

// State is a snapshot of one view's load state. Collections are empty, never
// nil, once a load has completed.
type State struct {
	View      View                      `json:"view"`
	Loading   bool                      `json:"loading"`
	Invoices  []accounting.Invoice      `json:"invoices,omitempty"`
	Customers []accounting.Customer     `json:"customers,omitempty"`
	Expenses  []accounting.Expense      `json:"expenses,omitempty"`
	Report    accounting.ReportSnapshot `json:"report"`
}
