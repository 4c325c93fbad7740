package accounting

import "time"

// Invoice is a sales invoice as reported by the accounting provider.
type Invoice struct {
	ID           string    `json:"id"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	IssueDate    time.Time `json:"issue_date"`
	DueDate      time.Time `json:"due_date"`
}

// Customer is a contact record from the provider's contact book.
type Customer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Expense is a purchase or bill recorded against the organization.
type Expense struct {
	ID         string    `json:"id"`
	VendorName string    `json:"vendor_name"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

// ReportSnapshot summarizes the profit-and-loss report. Fields the provider
// omits default to zero.
type ReportSnapshot struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetProfit        float64 `json:"net_profit"`
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
}

// ListOptions bounds a collection fetch.
type ListOptions struct {
	Limit int
}
