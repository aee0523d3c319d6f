package analysis

import (
	"math"

	"cashpulse/internal/models"
	"cashpulse/internal/services/metrics"
)

// profileBehavior describes where and when outflows concentrate. Without
// outflows the default profile is returned.
func (a *Analyzer) profileBehavior(ts *models.TransactionSet, cf metrics.CashFlow) models.BehaviorProfile {
	profile := models.BehaviorProfile{
		PeakWeekday:      a.catalog.NotAvailable,
		MostActiveTime:   a.catalog.DefaultActiveTime,
		DominantCategory: a.catalog.NotAvailable,
	}

	outflows := ts.FilterByKind(models.Outflow)
	if outflows.IsEmpty() {
		return profile
	}

	// Only weekdays that actually have outflows compete
	byDay, present := outflows.WeekdayTotals()
	peak := -1
	for day := range byDay {
		if present[day] && (peak < 0 || byDay[day] > byDay[peak]) {
			peak = day
		}
	}
	if peak >= 0 {
		profile.PeakWeekday = a.catalog.Weekdays[peak]
	}

	byCategory := outflows.CategoryTotals()
	dominant := ""
	for _, category := range outflows.Categories() {
		if dominant == "" || byCategory[category] > byCategory[dominant] {
			dominant = category
		}
	}
	if dominant != "" {
		profile.DominantCategory = dominant
	}

	if cf.HasInflow {
		profile.Efficiency = math.Trunc(metrics.Clamp(50+cf.SavingsRate, 0, 100))
	}

	return profile
}
