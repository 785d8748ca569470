package models

import "time"

// Transaction is one raw ledger row exactly as uploaded: an invoice, payment
// or opening-balance line. Rows are immutable once stored; every dashboard
// query recomputes from the full row set.
type Transaction struct {
	ID           int64     `db:"id" json:"id"`
	BatchID      string    `db:"batch_id" json:"batch_id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	Date         string    `db:"txn_date" json:"date"`
	DueDate      string    `db:"due_date" json:"due_date,omitempty"`
	Number       string    `db:"number" json:"number"`
	Debit        float64   `db:"debit" json:"debit"`
	Credit       float64   `db:"credit" json:"credit"`
	Matching     string    `db:"matching" json:"matching,omitempty"`
	SalesRep     string    `db:"sales_rep" json:"sales_rep,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// OverridePair forces residual-holder selection for the row whose number and
// matching key both match, compared case-insensitively after trimming.
type OverridePair struct {
	Number   string `db:"number" json:"number"`
	Matching string `db:"matching" json:"matching"`
}

// Reference list kinds stored in the customer_refs table.
const (
	RefClosedCustomers     = "closed_customers"
	RefSemiClosedCustomers = "semi_closed_customers"
	RefCustomerEmails      = "customer_emails"
)

// Rating constants
const (
	RatingGood   = "Good"
	RatingMedium = "Medium"
	RatingBad    = "Bad"
)

// Fixed reason strings returned by the rating engine's short-circuit steps.
const (
	ReasonClosed          = "Closed"
	ReasonAccountInCredit = "Account in Credit"
	ReasonNegativeSales   = "Negative recent sales with no payments"
	ReasonDormantWithDebt = "No recent activity with outstanding debt"
)
