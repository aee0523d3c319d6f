package analysis

import (
	"fmt"
	"math"
	"strings"

	"cashpulse/internal/models"
	"cashpulse/internal/services/metrics"
)

const (
	colorRed    = "#ef4444"
	colorGreen  = "#22c55e"
	colorPurple = "#8b5cf6"
	colorAmber  = "#f59e0b"
)

// insightList appends insights with ids derived from their position
type insightList struct {
	items []models.Insight
}

func (l *insightList) add(rule string, in models.Insight) {
	in.ID = fmt.Sprintf("insight-%s-%d", rule, len(l.items))
	l.items = append(l.items, in)
}

func amount(v float64) *float64 {
	r := metrics.RoundMoney(v)
	return &r
}

// generateInsights applies the insight rules in a fixed order and keeps the
// first MaxInsights results. A ledger with no transactions, no debts and a
// zero balance has nothing to report on.
func (a *Analyzer) generateInsights(ts *models.TransactionSet, cf metrics.CashFlow, patterns []models.CategoryPattern, balance, totalDebt float64, debts *models.DebtSet) []models.Insight {
	if ts.IsEmpty() && debts.Len() == 0 && totalDebt == 0 && balance == 0 {
		return []models.Insight{}
	}

	p := a.policy
	c := a.catalog
	list := &insightList{}
	outflows := ts.FilterByKind(models.Outflow)

	// Outflow anomalies by z-score
	if outflows.Len() > p.AnomalyMinRows {
		values := outflows.Amounts()
		mean := metrics.Mean(values)
		std := metrics.PopulationStdDev(values)
		if std > 0 {
			var count int
			var sum float64
			for _, v := range values {
				if math.Abs((v-mean)/std) > p.AnomalyZ {
					count++
					sum += v
				}
			}
			if count > 0 {
				impact := models.ImpactMedium
				if count > p.AnomalyHighCount {
					impact = models.ImpactHigh
				}
				list.add("anomaly", models.Insight{
					Kind:        models.InsightAlert,
					Title:       fmt.Sprintf(c.AnomalyTitle, count),
					Description: fmt.Sprintf(c.AnomalyDescription, c.Money(mean)),
					Impact:      impact,
					Amount:      amount(sum),
					Icon:        "⚠️",
					Color:       colorRed,
				})
			}
		}
	}

	// Cash balance
	switch {
	case balance < p.LowBalance:
		list.add("saldo", models.Insight{
			Kind:        models.InsightAlert,
			Title:       c.LowBalanceTitle,
			Description: fmt.Sprintf(c.LowBalanceDescription, c.Money(balance)),
			Impact:      models.ImpactHigh,
			Amount:      amount(balance),
			Icon:        "🚨",
			Color:       colorRed,
		})
	case balance > p.HighBalance:
		list.add("saldo", models.Insight{
			Kind:        models.InsightOpportunity,
			Title:       c.HighBalanceTitle,
			Description: fmt.Sprintf(c.HighBalanceDescription, c.Money(balance)),
			Impact:      models.ImpactMedium,
			Amount:      amount(balance),
			Icon:        "💰",
			Color:       colorGreen,
		})
	}

	// Debts
	if totalDebt > 0 {
		overdue := debts.Overdue()
		if overdue.Len() > 0 {
			pastDue := overdue.TotalRemaining()
			list.add("dividas-vencidas", models.Insight{
				Kind:        models.InsightAlert,
				Title:       fmt.Sprintf(c.OverdueTitle, overdue.Len()),
				Description: fmt.Sprintf(c.OverdueDescription, c.Money(pastDue)),
				Impact:      models.ImpactHigh,
				Amount:      amount(pastDue),
				Icon:        "❌",
				Color:       colorRed,
			})
		}

		if balance > 0 {
			ratio := totalDebt / balance * 100
			switch {
			case ratio > p.DebtRatioAlert:
				list.add("ratio-dividas", models.Insight{
					Kind:        models.InsightAlert,
					Title:       c.DebtRatioHighTitle,
					Description: fmt.Sprintf(c.DebtRatioHighDesc, ratio),
					Impact:      models.ImpactHigh,
					Icon:        "⚠️",
					Color:       colorRed,
				})
			case ratio < p.DebtRatioOpportunity:
				list.add("ratio-dividas", models.Insight{
					Kind:        models.InsightOpportunity,
					Title:       c.DebtRatioLowTitle,
					Description: fmt.Sprintf(c.DebtRatioLowDesc, ratio),
					Impact:      models.ImpactMedium,
					Icon:        "✅",
					Color:       colorGreen,
				})
			}
		}
	}

	// Cash-flow efficiency
	if cf.HasInflow {
		switch {
		case cf.SavingsRate > p.SavingsRateHigh:
			list.add("efficiency", models.Insight{
				Kind:        models.InsightOpportunity,
				Title:       c.SavingsHighTitle,
				Description: fmt.Sprintf(c.SavingsHighDescription, cf.SavingsRate),
				Impact:      models.ImpactHigh,
				Amount:      amount(cf.Net),
				Icon:        "💎",
				Color:       colorGreen,
			})
		case cf.SavingsRate < p.SavingsRateLow:
			list.add("efficiency", models.Insight{
				Kind:        models.InsightAlert,
				Title:       c.SavingsLowTitle,
				Description: fmt.Sprintf(c.SavingsLowDescription, cf.SavingsRate),
				Impact:      models.ImpactHigh,
				Icon:        "📉",
				Color:       colorRed,
			})
		}
	}

	// Fastest-growing category
	if len(patterns) > 0 {
		top := patterns[0]
		for _, pat := range patterns[1:] {
			if pat.Variation > top.Variation {
				top = pat
			}
		}
		if top.Variation > p.GrowthVariation {
			list.add("growth", models.Insight{
				Kind:        models.InsightForecast,
				Title:       fmt.Sprintf(c.GrowthTitle, top.Category),
				Description: fmt.Sprintf(c.GrowthDescription, top.Variation, c.Money(top.NextMonthForecast)),
				Impact:      models.ImpactMedium,
				Category:    top.Category,
				Amount:      amount(top.NextMonthForecast),
				Icon:        "🚀",
				Color:       colorPurple,
			})
		}
	}

	// Seasonal outflow months
	if outflows.Len() > p.SeasonalMinRows {
		if months := a.seasonalMonths(outflows); len(months) > 0 {
			list.add("seasonal", models.Insight{
				Kind:        models.InsightForecast,
				Title:       c.SeasonalTitle,
				Description: fmt.Sprintf(c.SeasonalDescription, strings.Join(months, ", ")),
				Impact:      models.ImpactMedium,
				Icon:        "📅",
				Color:       colorAmber,
			})
		}
	}

	if len(list.items) > p.MaxInsights {
		return list.items[:p.MaxInsights]
	}
	return list.items
}

// seasonalMonths names the calendar months, pooled across years, whose total
// outflow exceeds SeasonalFactor times the mean over months with outflows
func (a *Analyzer) seasonalMonths(outflows *models.TransactionSet) []string {
	totals := outflows.CalendarMonthTotals()
	if len(totals) == 0 {
		return nil
	}

	var sum float64
	for m := 1; m <= 12; m++ {
		sum += totals[m]
	}
	threshold := sum / float64(len(totals)) * a.policy.SeasonalFactor

	var names []string
	for m := 1; m <= 12 && len(names) < a.policy.SeasonalMaxMonths; m++ {
		if v, ok := totals[m]; ok && v > threshold {
			names = append(names, a.catalog.Months[m-1])
		}
	}
	return names
}
