package ledger

import (
	"strings"
	"time"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// Score thresholds for the eight rating components. Each component scores
// 0, 1 or 2 points; the total is out of 16.
const (
	netDebtLowThreshold  = 5000.0
	netDebtHighThreshold = 20000.0

	collectionRateHigh = 0.8
	collectionRateMid  = 0.5

	recentDaysFull = 30
	recentDaysHalf = 90

	amountFullThreshold = 10000.0
	amountHalfThreshold = 2000.0

	goodScoreFloor   = 11
	mediumScoreFloor = 6
	maxTotalScore    = 16
)

// RatingScores holds the eight 0/1/2 component scores.
type RatingScores struct {
	NetDebt         int `json:"net_debt"`
	CollectionRate  int `json:"collection_rate"`
	DaysSincePay    int `json:"days_since_last_payment"`
	PaymentsCount3M int `json:"payments_count_3m"`
	DaysSinceSale   int `json:"days_since_last_sale"`
	Payments3M      int `json:"payments_3m"`
	Sales3M         int `json:"sales_3m"`
	SalesCount3M    int `json:"sales_count_3m"`
}

// RatingBreakdown exposes every raw input, both risk flags, the component
// scores and their total, so a rating is explainable after the fact.
type RatingBreakdown struct {
	NetDebt              float64 `json:"net_debt"`
	CollectionRate       float64 `json:"collection_rate"`
	DaysSinceLastPayment int     `json:"days_since_last_payment"` // -1 when no payment on record
	DaysSinceLastSale    int     `json:"days_since_last_sale"`    // -1 when no sale on record
	Payments3M           float64 `json:"payments_3m"`
	PaymentsCount3M      int     `json:"payments_count_3m"`
	Sales3M              float64 `json:"sales_3m"`
	SalesCount3M         int     `json:"sales_count_3m"`

	RiskNegativeSales bool `json:"risk_negative_sales"`
	RiskDormantDebt   bool `json:"risk_dormant_debt"`

	Scores     RatingScores `json:"scores"`
	TotalScore int          `json:"total_score"`
}

// DebtRating is the engine's verdict. Breakdown is nil exactly when IsClosed
// is set: the closed-customer short-circuit performs no score computation.
type DebtRating struct {
	Rating    string           `json:"rating"`
	Reason    string           `json:"reason,omitempty"`
	IsClosed  bool             `json:"is_closed"`
	Breakdown *RatingBreakdown `json:"breakdown,omitempty"`
}

// NormalizeName lowercases, trims, and collapses internal whitespace.
// Punctuation is preserved; "  ACME  LLC " and "acme llc" are the same
// customer.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Rate scores a customer. The decision order is strict and each step
// short-circuits:
//
//  1. closed-set membership -> Bad, no breakdown
//  2. account in credit -> Good, scores skipped
//  3. risk flags -> Bad with a fixed reason
//  4. eight-component score out of 16
func Rate(agg CustomerAggregate, closedCustomers map[string]struct{}, now time.Time) DebtRating {
	if _, closed := closedCustomers[NormalizeName(agg.CustomerName)]; closed {
		return DebtRating{Rating: models.RatingBad, Reason: models.ReasonClosed, IsClosed: true}
	}

	b := &RatingBreakdown{
		NetDebt:              agg.NetDebt,
		CollectionRate:       collectionRate(agg.TotalCredit, agg.TotalDebit),
		DaysSinceLastPayment: daysSince(agg.LastPaymentDate, now),
		DaysSinceLastSale:    daysSince(agg.LastSalesDate, now),
		Payments3M:           agg.Activity.Payments3M,
		PaymentsCount3M:      agg.Activity.PaymentsCount3M,
		Sales3M:              agg.Activity.Sales3M,
		SalesCount3M:         agg.Activity.SalesCount3M,
	}

	if agg.NetDebt < 0 {
		return DebtRating{Rating: models.RatingGood, Reason: models.ReasonAccountInCredit, Breakdown: b}
	}

	b.RiskNegativeSales = b.Sales3M < 0 && b.PaymentsCount3M == 0
	b.RiskDormantDebt = b.PaymentsCount3M == 0 && b.SalesCount3M == 0 && b.NetDebt > 0
	if b.RiskNegativeSales {
		return DebtRating{Rating: models.RatingBad, Reason: models.ReasonNegativeSales, Breakdown: b}
	}
	if b.RiskDormantDebt {
		return DebtRating{Rating: models.RatingBad, Reason: models.ReasonDormantWithDebt, Breakdown: b}
	}

	b.Scores = RatingScores{
		NetDebt:         scoreNetDebt(b.NetDebt),
		CollectionRate:  scoreBand(b.CollectionRate, collectionRateHigh, collectionRateMid),
		DaysSincePay:    scoreRecency(b.DaysSinceLastPayment),
		PaymentsCount3M: scoreCount(b.PaymentsCount3M),
		DaysSinceSale:   scoreRecency(b.DaysSinceLastSale),
		Payments3M:      scoreBand(b.Payments3M, amountFullThreshold, amountHalfThreshold),
		Sales3M:         scoreBand(b.Sales3M, amountFullThreshold, amountHalfThreshold),
		SalesCount3M:    scoreCount(b.SalesCount3M),
	}
	b.TotalScore = b.Scores.NetDebt + b.Scores.CollectionRate + b.Scores.DaysSincePay +
		b.Scores.PaymentsCount3M + b.Scores.DaysSinceSale + b.Scores.Payments3M +
		b.Scores.Sales3M + b.Scores.SalesCount3M

	rating := models.RatingBad
	switch {
	case b.TotalScore >= goodScoreFloor:
		rating = models.RatingGood
	case b.TotalScore >= mediumScoreFloor:
		rating = models.RatingMedium
	}
	return DebtRating{Rating: rating, Breakdown: b}
}

func collectionRate(totalCredit, totalDebit float64) float64 {
	if totalDebit == 0 {
		return 0
	}
	return totalCredit / totalDebit
}

// daysSince returns -1 when the date is unknown.
func daysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return -1
	}
	return DaysOverdue(now, *t)
}

func scoreNetDebt(netDebt float64) int {
	switch {
	case netDebt < 0, netDebt <= netDebtLowThreshold:
		return 2
	case netDebt <= netDebtHighThreshold:
		return 1
	default:
		return 0
	}
}

func scoreBand(v, full, half float64) int {
	switch {
	case v >= full:
		return 2
	case v >= half:
		return 1
	default:
		return 0
	}
}

func scoreRecency(days int) int {
	switch {
	case days < 0:
		return 0
	case days <= recentDaysFull:
		return 2
	case days <= recentDaysHalf:
		return 1
	default:
		return 0
	}
}

func scoreCount(n int) int {
	switch {
	case n >= 2:
		return 2
	case n == 1:
		return 1
	default:
		return 0
	}
}
