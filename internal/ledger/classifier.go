package ledger

import (
	"strings"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// Kind is the semantic class of a ledger row, derived from the invoice-number
// prefix and, for ambiguous prefixes, the row's amounts.
type Kind string

const (
	KindOpeningBalance Kind = "opening_balance"
	KindPayment        Kind = "payment"
	KindOurPaid        Kind = "our_paid" // PBNK without incoming credit; excluded from payment stats
	KindSale           Kind = "sale"
	KindReturn         Kind = "return"
	KindDiscount       Kind = "discount"
	KindOther          Kind = "other"
)

// AmountTolerance is the cent-level cutoff below which a net amount is
// considered settled. Shared by grouping, aging and classification.
const AmountTolerance = 0.01

// Classify maps a row to its Kind. First matching rule wins; prefixes are
// compared case-insensitively. PBNK is a payment only when money actually
// came in (credit above tolerance), otherwise it is our own outgoing payment.
func Classify(row models.Transaction) Kind {
	number := strings.ToUpper(strings.TrimSpace(row.Number))

	switch {
	case strings.HasPrefix(number, "OB"):
		return KindOpeningBalance
	case strings.HasPrefix(number, "PBNK"):
		if row.Credit > AmountTolerance {
			return KindPayment
		}
		return KindOurPaid
	case strings.HasPrefix(number, "BNK"):
		return KindPayment
	case strings.HasPrefix(number, "RSAL"):
		return KindReturn
	case strings.HasPrefix(number, "SAL"):
		return KindSale
	case strings.HasPrefix(number, "JV"), strings.HasPrefix(number, "BIL"):
		return KindDiscount
	case row.Credit > AmountTolerance:
		return KindPayment
	default:
		return KindOther
	}
}

// IsPayment reports whether the row counts toward payment statistics.
func IsPayment(row models.Transaction) bool {
	return Classify(row) == KindPayment
}

// PaymentAmount is the signed payment value of a row. Reversal rows, where
// debit exceeds credit, yield a negative amount.
func PaymentAmount(row models.Transaction) float64 {
	return row.Credit - row.Debit
}

// IsOpeningBalance reports whether the row carries a period-opening balance.
func IsOpeningBalance(row models.Transaction) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(row.Number)), "OB")
}
