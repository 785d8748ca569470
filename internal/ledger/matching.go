package ledger

import (
	"math"
	"strings"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// Group is the set of rows sharing one non-empty matching key within a single
// customer, with its derived net and residual holder.
type Group struct {
	Key         string
	RowIndexes  []int   // indexes into the resolved row slice, input order
	Net         float64 // Σ(debit-credit)
	HolderIndex int     // row entitled to display Net; -1 when the group is closed
}

// Closed reports whether the group's net is within settlement tolerance.
func (g *Group) Closed() bool {
	return math.Abs(g.Net) <= AmountTolerance
}

// OpenItem is the unit aging, overdue totals and monthly breakdowns operate
// on: an unmatched row, or an open group's residual holder.
type OpenItem struct {
	RowIndex int
	Row      models.Transaction
	Amount   float64 // signed: group net for holders, debit-credit for unmatched rows
}

// Resolution is the outcome of matching one customer's rows. It is the single
// source of residuals for every consumer (aging, monthly breakdown, net view);
// re-deriving the grouping elsewhere risks drift between views.
type Resolution struct {
	rows      []models.Transaction
	groups    map[string]*Group
	residuals map[int]float64 // holder row index -> group net
}

// Resolve partitions rows by matching key, nets each group, and selects the
// single residual holder per open group. Rows with an empty key are never
// merged; each stands alone as its own open item.
//
// Holder selection: an override pair naming a row in the group wins
// unconditionally; otherwise the row with the strictly largest debit wins,
// first-encountered on ties.
func Resolve(rows []models.Transaction, overrides []models.OverridePair) *Resolution {
	res := &Resolution{
		rows:      rows,
		groups:    make(map[string]*Group),
		residuals: make(map[int]float64),
	}

	overrideSet := make(map[string]struct{}, len(overrides))
	for _, p := range overrides {
		overrideSet[overrideKey(p.Number, p.Matching)] = struct{}{}
	}

	var keyOrder []string
	for i, row := range rows {
		key := strings.TrimSpace(row.Matching)
		if key == "" {
			continue
		}
		g, ok := res.groups[key]
		if !ok {
			g = &Group{Key: key, HolderIndex: -1}
			res.groups[key] = g
			keyOrder = append(keyOrder, key)
		}
		g.RowIndexes = append(g.RowIndexes, i)
		g.Net += row.Debit - row.Credit
	}

	for _, key := range keyOrder {
		g := res.groups[key]
		if g.Closed() {
			continue
		}

		holder := -1
		for _, i := range g.RowIndexes {
			if _, ok := overrideSet[overrideKey(rows[i].Number, rows[i].Matching)]; ok {
				holder = i
				break
			}
		}
		if holder == -1 {
			maxDebit := math.Inf(-1)
			for _, i := range g.RowIndexes {
				if rows[i].Debit > maxDebit {
					maxDebit = rows[i].Debit
					holder = i
				}
			}
		}

		g.HolderIndex = holder
		res.residuals[holder] = g.Net
	}

	return res
}

// Residual returns the open residual carried by the row at index i, if any.
func (r *Resolution) Residual(i int) (float64, bool) {
	v, ok := r.residuals[i]
	return v, ok
}

// Group looks up a matching group by its key.
func (r *Resolution) Group(key string) (*Group, bool) {
	g, ok := r.groups[strings.TrimSpace(key)]
	return g, ok
}

// OpenItems lists, in input order, every unmatched row with a non-trivial
// amount and every open group's residual holder.
func (r *Resolution) OpenItems() []OpenItem {
	var items []OpenItem
	for i, row := range r.rows {
		if strings.TrimSpace(row.Matching) == "" {
			amount := row.Debit - row.Credit
			if math.Abs(amount) > AmountTolerance {
				items = append(items, OpenItem{RowIndex: i, Row: row, Amount: amount})
			}
			continue
		}
		if net, ok := r.residuals[i]; ok {
			items = append(items, OpenItem{RowIndex: i, Row: row, Amount: net})
		}
	}
	return items
}

// NetView returns a copy of the rows with each residual holder's credit
// rewritten to debit-residual, the form export and "net only" consumers
// expect. Non-holder rows pass through unchanged.
func (r *Resolution) NetView() []models.Transaction {
	out := make([]models.Transaction, len(r.rows))
	copy(out, r.rows)
	for i, net := range r.residuals {
		out[i].Credit = out[i].Debit - net
	}
	return out
}

func overrideKey(number, matching string) string {
	return strings.ToLower(strings.TrimSpace(number)) + "\x00" + strings.ToLower(strings.TrimSpace(matching))
}
