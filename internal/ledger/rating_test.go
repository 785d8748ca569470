package ledger

import (
	"testing"
	"time"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

func ratingNow() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func daysAgo(n int) *time.Time {
	d := ratingNow().AddDate(0, 0, -n)
	return &d
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  ACME LLC ", "acme llc"},
		{"Acme   LLC", "acme llc"},
		{"a.b.c & Co.", "a.b.c & co."}, // punctuation preserved
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Fatalf("NormalizeName(%q) got=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestRate_ClosedCustomerShortCircuits(t *testing.T) {
	closed := map[string]struct{}{"acme llc": {}}
	agg := CustomerAggregate{
		CustomerName: "  ACME LLC ",
		NetDebt:      -5000, // would otherwise rate Good
	}

	got := Rate(agg, closed, ratingNow())
	if got.Rating != models.RatingBad || got.Reason != models.ReasonClosed {
		t.Fatalf("got=%+v want Bad/Closed", got)
	}
	if !got.IsClosed {
		t.Fatalf("IsClosed must be set")
	}
	// No score computation performed for closed customers.
	if got.Breakdown != nil {
		t.Fatalf("closed rating must carry no breakdown")
	}
}

func TestRate_AccountInCreditShortCircuits(t *testing.T) {
	// Every component would score 0, but a negative net debt wins outright.
	agg := CustomerAggregate{CustomerName: "Acme", NetDebt: -100}

	got := Rate(agg, nil, ratingNow())
	if got.Rating != models.RatingGood || got.Reason != models.ReasonAccountInCredit {
		t.Fatalf("got=%+v want Good/'Account in Credit'", got)
	}
	if got.IsClosed {
		t.Fatalf("account in credit is not closed")
	}
	if got.Breakdown == nil || got.Breakdown.TotalScore != 0 {
		t.Fatalf("credit short-circuit skips scoring: %+v", got.Breakdown)
	}
}

func TestRate_RiskFlagNegativeSales(t *testing.T) {
	agg := CustomerAggregate{
		CustomerName: "Acme",
		NetDebt:      100,
		Activity:     ActivityWindow{Sales3M: -500, PaymentsCount3M: 0, SalesCount3M: 3},
	}

	got := Rate(agg, nil, ratingNow())
	if got.Rating != models.RatingBad || got.Reason != models.ReasonNegativeSales {
		t.Fatalf("got=%+v want Bad/negative-sales flag", got)
	}
	if !got.Breakdown.RiskNegativeSales {
		t.Fatalf("breakdown must expose the flag")
	}
}

func TestRate_RiskFlagDormantDebt(t *testing.T) {
	agg := CustomerAggregate{
		CustomerName: "Acme",
		NetDebt:      500,
		Activity:     ActivityWindow{PaymentsCount3M: 0, SalesCount3M: 0},
	}

	got := Rate(agg, nil, ratingNow())
	if got.Rating != models.RatingBad || got.Reason != models.ReasonDormantWithDebt {
		t.Fatalf("got=%+v want Bad/dormant flag", got)
	}
	if !got.Breakdown.RiskDormantDebt {
		t.Fatalf("breakdown must expose the flag")
	}
}

func TestRate_ScoreTable(t *testing.T) {
	agg := CustomerAggregate{
		CustomerName:    "Acme",
		NetDebt:         1000,
		TotalDebit:      10000,
		TotalCredit:     9000, // collection rate 0.9
		LastPaymentDate: daysAgo(10),
		LastSalesDate:   daysAgo(5),
		Activity: ActivityWindow{
			Payments3M:      5000,
			PaymentsCount3M: 2,
			Sales3M:         3000,
			SalesCount3M:    1,
		},
	}

	got := Rate(agg, nil, ratingNow())
	if got.Rating != models.RatingGood {
		t.Fatalf("rating got=%s want Good (breakdown %+v)", got.Rating, got.Breakdown)
	}

	want := RatingScores{
		NetDebt:         2,
		CollectionRate:  2,
		DaysSincePay:    2,
		PaymentsCount3M: 2,
		DaysSinceSale:   2,
		Payments3M:      1,
		Sales3M:         1,
		SalesCount3M:    1,
	}
	if got.Breakdown.Scores != want {
		t.Fatalf("scores got=%+v want=%+v", got.Breakdown.Scores, want)
	}
	if got.Breakdown.TotalScore != 13 {
		t.Fatalf("total got=%d want=13", got.Breakdown.TotalScore)
	}
}

func TestRate_RatingBands(t *testing.T) {
	// paymentsCount3m=1 keeps the dormant flag off while letting the other
	// inputs drive the total score across the band boundaries.
	tests := []struct {
		name  string
		agg   CustomerAggregate
		want  string
		total int
	}{
		{
			name: "medium at the floor",
			agg: CustomerAggregate{
				CustomerName:    "Acme",
				NetDebt:         1000, // 2
				LastPaymentDate: daysAgo(10),
				Activity:        ActivityWindow{PaymentsCount3M: 1, Payments3M: 2500, SalesCount3M: 0},
			},
			// netDebt 2 + collRate 0 + pay recency 2 + payCount 1 + sale recency 0 + payments 1 + sales 0 + saleCount 0
			want:  models.RatingMedium,
			total: 6,
		},
		{
			name: "bad below the floor",
			agg: CustomerAggregate{
				CustomerName: "Acme",
				NetDebt:      30000, // 0
				Activity:     ActivityWindow{PaymentsCount3M: 1},
			},
			// only the payment count scores
			want:  models.RatingBad,
			total: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rate(tt.agg, nil, ratingNow())
			if got.Breakdown.TotalScore != tt.total {
				t.Fatalf("total got=%d want=%d (%+v)", got.Breakdown.TotalScore, tt.total, got.Breakdown.Scores)
			}
			if got.Rating != tt.want {
				t.Fatalf("rating got=%s want=%s", got.Rating, tt.want)
			}
		})
	}
}

func TestScoreHelpers(t *testing.T) {
	if scoreNetDebt(5000) != 2 || scoreNetDebt(5000.01) != 1 || scoreNetDebt(20000) != 1 || scoreNetDebt(20000.01) != 0 {
		t.Fatalf("net debt thresholds are inclusive")
	}
	if scoreRecency(-1) != 0 || scoreRecency(30) != 2 || scoreRecency(31) != 1 || scoreRecency(90) != 1 || scoreRecency(91) != 0 {
		t.Fatalf("recency thresholds are inclusive")
	}
	if scoreCount(0) != 0 || scoreCount(1) != 1 || scoreCount(2) != 2 || scoreCount(-3) != 0 {
		t.Fatalf("count scoring")
	}
	if collectionRate(100, 0) != 0 {
		t.Fatalf("zero denominator must yield 0, not panic")
	}
}
