package ledger

import (
	"math"
	"testing"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

func TestResolve_ClosedGroupCarriesNoResidual(t *testing.T) {
	rows := []models.Transaction{
		{Matching: "M1", Debit: 1000, Number: "SAL-1"},
		{Matching: "M1", Credit: 1000, Number: "BNK-1"},
	}

	res := Resolve(rows, nil)

	for i := range rows {
		if _, ok := res.Residual(i); ok {
			t.Fatalf("row %d of a closed group carries a residual", i)
		}
	}
	if items := res.OpenItems(); len(items) != 0 {
		t.Fatalf("closed group produced open items: %+v", items)
	}
}

func TestResolve_NetWithinToleranceIsClosed(t *testing.T) {
	rows := []models.Transaction{
		{Matching: "M1", Debit: 100.005, Number: "SAL-1"},
		{Matching: "M1", Credit: 100, Number: "BNK-1"},
	}

	res := Resolve(rows, nil)
	g, _ := res.Group("M1")
	if !g.Closed() {
		t.Fatalf("group net %v should be within tolerance", g.Net)
	}
}

func TestResolve_SingleHolderGetsGroupNet(t *testing.T) {
	rows := []models.Transaction{
		{Matching: "M2", Debit: 500, Number: "SAL-2", Date: "2024-01-10"},
		{Matching: "M2", Credit: 200, Number: "BNK-2"},
	}

	res := Resolve(rows, nil)

	holders := 0
	for i := range rows {
		if net, ok := res.Residual(i); ok {
			holders++
			if net != 300 {
				t.Fatalf("residual got=%v want=300", net)
			}
			if i != 0 {
				t.Fatalf("holder should be the max-debit SAL-2 row, got index %d", i)
			}
		}
	}
	if holders != 1 {
		t.Fatalf("open group must have exactly one holder, got %d", holders)
	}
}

func TestResolve_TieBrokenByFirstEncountered(t *testing.T) {
	rows := []models.Transaction{
		{Matching: "M3", Debit: 500, Number: "SAL-A"},
		{Matching: "M3", Debit: 500, Number: "SAL-B"},
		{Matching: "M3", Credit: 100, Number: "BNK-1"},
	}

	res := Resolve(rows, nil)
	if _, ok := res.Residual(0); !ok {
		t.Fatalf("first row with the maximum debit must win the tie")
	}
	if _, ok := res.Residual(1); ok {
		t.Fatalf("later row with an equal debit must not replace the holder")
	}
}

func TestResolve_OverrideBeatsMaxDebit(t *testing.T) {
	rows := []models.Transaction{
		{Matching: "M4", Debit: 900, Number: "SAL-BIG"},
		{Matching: "M4", Debit: 100, Number: "SAL-SMALL"},
		{Matching: "M4", Credit: 300, Number: "BNK-1"},
	}
	overrides := []models.OverridePair{
		{Number: "  sal-small ", Matching: "m4"}, // case-insensitive, trimmed
	}

	res := Resolve(rows, overrides)

	if _, ok := res.Residual(1); !ok {
		t.Fatalf("override pair must select SAL-SMALL as holder")
	}
	if _, ok := res.Residual(0); ok {
		t.Fatalf("max-debit row must not be holder when an override names another row")
	}
	net, _ := res.Residual(1)
	if net != 700 {
		t.Fatalf("holder residual got=%v want=700", net)
	}
}

func TestResolve_UnmatchedRowsAreSingletons(t *testing.T) {
	rows := []models.Transaction{
		{Number: "SAL-1", Debit: 250, Date: "2024-02-01"},
		{Number: "BNK-1", Credit: 0.005},           // within tolerance, not open
		{Number: "SAL-2", Debit: 250, Credit: 250}, // nets to zero
		{Number: "BNK-2", Credit: 100},
	}

	res := Resolve(rows, nil)
	items := res.OpenItems()
	if len(items) != 2 {
		t.Fatalf("open items got=%d want=2: %+v", len(items), items)
	}
	if items[0].RowIndex != 0 || items[0].Amount != 250 {
		t.Fatalf("unexpected first open item: %+v", items[0])
	}
	if items[1].RowIndex != 3 || math.Abs(items[1].Amount-(-100)) > 1e-9 {
		t.Fatalf("unexpected second open item: %+v", items[1])
	}
}

func TestResolve_EmptyKeysNeverMerge(t *testing.T) {
	rows := []models.Transaction{
		{Number: "SAL-1", Debit: 100, Matching: ""},
		{Number: "BNK-1", Credit: 100, Matching: "  "},
	}

	res := Resolve(rows, nil)
	items := res.OpenItems()
	if len(items) != 2 {
		t.Fatalf("empty-key rows must stay singletons, got %d open items", len(items))
	}
}

func TestNetView_RewritesHolderCredit(t *testing.T) {
	rows := []models.Transaction{
		{Matching: "M5", Debit: 500, Credit: 0, Number: "SAL-1"},
		{Matching: "M5", Debit: 0, Credit: 200, Number: "BNK-1"},
	}

	view := Resolve(rows, nil).NetView()

	// Holder shows credit = debit - residual = 500 - 300.
	if view[0].Credit != 200 {
		t.Fatalf("holder credit got=%v want=200", view[0].Credit)
	}
	if view[1].Credit != 200 {
		t.Fatalf("non-holder rows must pass through unchanged")
	}
	// The original rows are untouched.
	if rows[0].Credit != 0 {
		t.Fatalf("NetView must not mutate its input")
	}
}
