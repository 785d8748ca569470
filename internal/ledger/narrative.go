package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
)

// ClosureNarrative describes what happened to the matching group of the
// customer's last qualifying payment: still open, fully closed (with the sale
// months it settled, when known), or partially closed with the remainder.
func ClosureNarrative(lastPayment *models.Transaction, res *Resolution) string {
	if lastPayment == nil {
		return ""
	}

	key := strings.TrimSpace(lastPayment.Matching)
	if key == "" || strings.EqualFold(key, "UNMATCHED") {
		return "Still Open"
	}

	group, ok := res.Group(key)
	if !ok {
		return "Still Open"
	}

	if !group.Closed() {
		return fmt.Sprintf("Partially closed via matching %s; remaining %.2f", key, group.Net)
	}

	if labels := saleMonthLabels(res, group); len(labels) > 0 {
		return "Closed in " + strings.Join(labels, ", ")
	}
	return fmt.Sprintf("Closed via matching %s", key)
}

// saleMonthLabels collects the distinct month labels of the group's SAL rows,
// in chronological order.
func saleMonthLabels(res *Resolution, group *Group) []string {
	type dated struct {
		key   string
		label string
	}
	seen := make(map[string]struct{})
	var months []dated

	for _, i := range group.RowIndexes {
		row := res.rows[i]
		if Classify(row) != KindSale {
			continue
		}
		date, ok := ParseDate(row.Date)
		if !ok {
			continue
		}
		k := MonthKey(date)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		months = append(months, dated{key: k, label: MonthLabel(date)})
	}

	sort.Slice(months, func(i, j int) bool { return months[i].key < months[j].key })

	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.label
	}
	return labels
}
