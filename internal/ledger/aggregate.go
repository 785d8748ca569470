package ledger

import (
	"sort"
	"time"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// MonthlyEntry is one month's share of the customer's open items.
type MonthlyEntry struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

// MonthlyBreakdown lists open-item amounts per document month, sorted
// chronologically, plus the grand net total across all open items.
type MonthlyBreakdown struct {
	Entries  []MonthlyEntry `json:"entries"`
	NetTotal float64        `json:"net_total"`
}

// CustomerAggregate is the full per-customer picture, rebuilt from scratch on
// every recomputation and never persisted.
type CustomerAggregate struct {
	CustomerName string `json:"customer_name"`

	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
	NetDebt     float64 `json:"net_debt"`
	NetSales    float64 `json:"net_sales"`

	LastPaymentDate   *time.Time `json:"last_payment_date,omitempty"`
	LastPaymentAmount float64    `json:"last_payment_amount"`
	LastSalesDate     *time.Time `json:"last_sales_date,omitempty"`
	LastSalesAmount   float64    `json:"last_sales_amount"`

	CreditPayments  float64 `json:"credit_payments"`
	CreditReturns   float64 `json:"credit_returns"`
	CreditDiscounts float64 `json:"credit_discounts"`

	Aging    AgingResult    `json:"aging"`
	Activity ActivityWindow `json:"activity"`

	LastPaymentClosure string           `json:"last_payment_closure"`
	Monthly            MonthlyBreakdown `json:"monthly"`
}

// Aggregate folds one customer's rows into a CustomerAggregate. The override
// list feeds residual-holder selection and now pins every time-window
// computation, so identical inputs always reproduce the same aggregate.
func Aggregate(customerName string, rows []models.Transaction, overrides []models.OverridePair, now time.Time) CustomerAggregate {
	agg := CustomerAggregate{CustomerName: customerName}

	res := Resolve(rows, overrides)
	openItems := res.OpenItems()

	var lastPaymentRow *models.Transaction

	for i := range rows {
		row := rows[i]
		agg.TotalDebit += row.Debit
		agg.TotalCredit += row.Credit

		kind := Classify(row)
		switch kind {
		case KindSale:
			agg.NetSales += row.Debit
		case KindReturn:
			agg.NetSales -= row.Credit
			agg.CreditReturns += row.Credit
		case KindDiscount:
			agg.CreditDiscounts += row.Credit
		case KindPayment:
			agg.CreditPayments += row.Credit
		}

		date, dated := ParseDate(row.Date)
		if !dated {
			continue
		}

		if kind == KindPayment {
			switch {
			case agg.LastPaymentDate == nil || date.After(*agg.LastPaymentDate):
				d := date
				agg.LastPaymentDate = &d
				agg.LastPaymentAmount = PaymentAmount(row)
				lastPaymentRow = &rows[i]
			case date.Equal(*agg.LastPaymentDate):
				// Several payments on the same day show up as one combined amount.
				agg.LastPaymentAmount += PaymentAmount(row)
			}
		}

		if kind == KindSale && row.Debit > 0 {
			switch {
			case agg.LastSalesDate == nil || date.After(*agg.LastSalesDate):
				d := date
				agg.LastSalesDate = &d
				agg.LastSalesAmount = row.Debit
			case date.Equal(*agg.LastSalesDate):
				agg.LastSalesAmount += row.Debit
			}
		}
	}

	agg.NetDebt = agg.TotalDebit - agg.TotalCredit
	agg.Aging = ClassifyAging(openItems, now)
	agg.Activity = AggregateActivity(rows, now)
	agg.Monthly = monthlyBreakdown(openItems)
	agg.LastPaymentClosure = ClosureNarrative(lastPaymentRow, res)

	return agg
}

func monthlyBreakdown(items []OpenItem) MonthlyBreakdown {
	var b MonthlyBreakdown
	byMonth := make(map[string]float64)

	for _, item := range items {
		b.NetTotal += item.Amount
		if date, ok := ParseDate(item.Row.Date); ok {
			byMonth[MonthKey(date)] += item.Amount
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months) // YYYY-MM sorts chronologically

	for _, m := range months {
		b.Entries = append(b.Entries, MonthlyEntry{Month: m, Amount: byMonth[m]})
	}
	return b
}
