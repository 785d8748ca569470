package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

func sampleRows() []models.Transaction {
	return []models.Transaction{
		{CustomerName: "Acme", Number: "OB-2024", Debit: 1000, Date: "2024-01-01"},
		{CustomerName: "Acme", Number: "SAL-1", Debit: 500, Date: "2024-04-10", Matching: "M1"},
		{CustomerName: "Acme", Number: "BNK-1", Credit: 200, Date: "2024-04-20", Matching: "M1"},
		{CustomerName: "Acme", Number: "SAL-2", Debit: 300, Date: "2024-05-15"},
		{CustomerName: "Acme", Number: "RSAL-1", Credit: 100, Date: "2024-05-16"},
		{CustomerName: "Acme", Number: "JV-1", Credit: 50, Date: "2024-05-17"},
		{CustomerName: "Acme", Number: "BNK-2", Credit: 150, Date: "2024-05-20"},
		{CustomerName: "Acme", Number: "BNK-3", Credit: 75, Date: "2024-05-20"},
	}
}

func aggNow() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_Totals(t *testing.T) {
	agg := Aggregate("Acme", sampleRows(), nil, aggNow())

	if agg.TotalDebit != 1800 {
		t.Fatalf("TotalDebit got=%v want=1800", agg.TotalDebit)
	}
	if agg.TotalCredit != 575 {
		t.Fatalf("TotalCredit got=%v want=575", agg.TotalCredit)
	}
	if agg.NetDebt != 1225 {
		t.Fatalf("NetDebt got=%v want=1225", agg.NetDebt)
	}
	if agg.NetSales != 700 { // 500 + 300 - 100
		t.Fatalf("NetSales got=%v want=700", agg.NetSales)
	}
	if agg.CreditPayments != 425 || agg.CreditReturns != 100 || agg.CreditDiscounts != 50 {
		t.Fatalf("credit breakdown got payments=%v returns=%v discounts=%v",
			agg.CreditPayments, agg.CreditReturns, agg.CreditDiscounts)
	}
}

func TestAggregate_LastPaymentSameDateAccumulates(t *testing.T) {
	agg := Aggregate("Acme", sampleRows(), nil, aggNow())

	if agg.LastPaymentDate == nil || agg.LastPaymentDate.Format("2006-01-02") != "2024-05-20" {
		t.Fatalf("LastPaymentDate got=%v", agg.LastPaymentDate)
	}
	// BNK-2 and BNK-3 land on the same day: amounts add up instead of replacing.
	if agg.LastPaymentAmount != 225 {
		t.Fatalf("LastPaymentAmount got=%v want=225", agg.LastPaymentAmount)
	}
}

func TestAggregate_LastSale(t *testing.T) {
	agg := Aggregate("Acme", sampleRows(), nil, aggNow())

	if agg.LastSalesDate == nil || agg.LastSalesDate.Format("2006-01-02") != "2024-05-15" {
		t.Fatalf("LastSalesDate got=%v", agg.LastSalesDate)
	}
	if agg.LastSalesAmount != 300 {
		t.Fatalf("LastSalesAmount got=%v want=300", agg.LastSalesAmount)
	}
}

func TestAggregate_MonthlyBreakdown(t *testing.T) {
	agg := Aggregate("Acme", sampleRows(), nil, aggNow())

	// Open items: OB-2024 (+1000, Jan), M1 holder SAL-1 (+300, Apr),
	// SAL-2 (+300, May), RSAL-1 (-100, May), JV-1 (-50, May),
	// BNK-2 (-150, May), BNK-3 (-75, May).
	want := MonthlyBreakdown{
		Entries: []MonthlyEntry{
			{Month: "2024-01", Amount: 1000},
			{Month: "2024-04", Amount: 300},
			{Month: "2024-05", Amount: -75},
		},
		NetTotal: 1225,
	}
	if !reflect.DeepEqual(agg.Monthly, want) {
		t.Fatalf("monthly breakdown got=%+v want=%+v", agg.Monthly, want)
	}
}

func TestAggregate_AgingAndOB(t *testing.T) {
	agg := Aggregate("Acme", sampleRows(), nil, aggNow())

	if !agg.Aging.HasOB {
		t.Fatalf("HasOB should be set")
	}
	if agg.Aging.OpenOBAmount != 1000 {
		t.Fatalf("OpenOBAmount got=%v want=1000", agg.Aging.OpenOBAmount)
	}
	if agg.Aging.OverdueAmount != 1225 {
		t.Fatalf("OverdueAmount got=%v want=1225", agg.Aging.OverdueAmount)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := sampleRows()
	overrides := []models.OverridePair{{Number: "BNK-1", Matching: "M1"}}

	first := Aggregate("Acme", rows, overrides, aggNow())
	second := Aggregate("Acme", rows, overrides, aggNow())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation must be idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAggregate_UnparseableDateStillCountsInTotals(t *testing.T) {
	rows := []models.Transaction{
		{CustomerName: "Acme", Number: "SAL-1", Debit: 100, Date: "nonsense"},
		{CustomerName: "Acme", Number: "BNK-1", Credit: 40, Date: "also nonsense"},
	}

	agg := Aggregate("Acme", rows, nil, aggNow())
	if agg.TotalDebit != 100 || agg.TotalCredit != 40 {
		t.Fatalf("pure totals must include undated rows: %+v", agg)
	}
	if agg.LastPaymentDate != nil {
		t.Fatalf("undated payments must not drive last-payment tracking")
	}
	if agg.Activity.Payments3M != 0 {
		t.Fatalf("undated rows must stay out of the 90-day window")
	}
	if agg.CreditPayments != 40 {
		t.Fatalf("classified credit totals are date-independent, got %v", agg.CreditPayments)
	}
}
