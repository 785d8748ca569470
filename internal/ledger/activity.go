package ledger

import (
	"time"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// ActivityWindow summarizes sales and payment activity in the rolling 90-day
// window ending at now, both endpoints inclusive. PaymentsCount3M is a net
// counter (credit rows minus debit rows) and legitimately goes negative when
// reversals dominate the window.
type ActivityWindow struct {
	Sales3M         float64 `json:"sales_3m"`
	SalesCount3M    int     `json:"sales_count_3m"`
	Payments3M      float64 `json:"payments_3m"`
	PaymentsCount3M int     `json:"payments_count_3m"`
}

// AggregateActivity computes the 90-day window stats over one customer's
// rows. Each row is judged by its own date, never by its matching group's;
// rows with unparseable dates are skipped.
func AggregateActivity(rows []models.Transaction, now time.Time) ActivityWindow {
	var w ActivityWindow

	windowStart := midnight(now).AddDate(0, 0, -90)
	windowEnd := midnight(now)

	for _, row := range rows {
		date, ok := ParseDate(row.Date)
		if !ok || date.Before(windowStart) || date.After(windowEnd) {
			continue
		}

		switch Classify(row) {
		case KindSale:
			w.Sales3M += row.Debit
			w.SalesCount3M++
		case KindReturn:
			w.Sales3M -= row.Credit
		case KindPayment:
			w.Payments3M += PaymentAmount(row)
			if row.Credit > AmountTolerance {
				w.PaymentsCount3M++
			}
			if row.Debit > AmountTolerance {
				w.PaymentsCount3M--
			}
		}
	}

	return w
}
