package ledger

import "time"

// AgingBreakdown buckets signed open amounts by days overdue.
type AgingBreakdown struct {
	AtDate     float64 `json:"at_date"`
	Days1To30  float64 `json:"days_1_30"`
	Days31To60 float64 `json:"days_31_60"`
	Days61To90 float64 `json:"days_61_90"`
	Days91To120 float64 `json:"days_91_120"`
	Older      float64 `json:"older"`
}

// AgingResult carries the bucketed schedule plus the overdue and
// opening-balance facts derived from the same open-item walk.
type AgingResult struct {
	Breakdown     AgingBreakdown `json:"breakdown"`
	OverdueAmount float64        `json:"overdue_amount"`
	HasOB         bool           `json:"has_ob"`
	OpenOBAmount  float64        `json:"open_ob_amount"`
}

// ClassifyAging buckets each open item by days overdue against today. The
// target date is the item's own due date, falling back to its document date;
// for a matched group the holder's dates stand in for the whole residual.
// Items whose dates cannot be parsed stay out of the schedule but OB facts
// are tracked regardless.
func ClassifyAging(items []OpenItem, today time.Time) AgingResult {
	var res AgingResult

	for _, item := range items {
		if IsOpeningBalance(item.Row) {
			res.HasOB = true
			res.OpenOBAmount += item.Amount
		}

		target, ok := ParseDate(item.Row.DueDate)
		if !ok {
			target, ok = ParseDate(item.Row.Date)
		}
		if !ok {
			continue
		}

		res.OverdueAmount += item.Amount

		switch days := DaysOverdue(today, target); {
		case days <= 0:
			res.Breakdown.AtDate += item.Amount
		case days <= 30:
			res.Breakdown.Days1To30 += item.Amount
		case days <= 60:
			res.Breakdown.Days31To60 += item.Amount
		case days <= 90:
			res.Breakdown.Days61To90 += item.Amount
		case days <= 120:
			res.Breakdown.Days91To120 += item.Amount
		default:
			res.Breakdown.Older += item.Amount
		}
	}

	return res
}
