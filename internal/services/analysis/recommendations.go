package analysis

import "cashpulse/internal/models"

// recommend turns the score, debt position and category trends into
// ordered advice, capped at MaxRecommendations
func (a *Analyzer) recommend(score int, patterns []models.CategoryPattern, balance, totalDebt float64) []string {
	p := a.policy
	c := a.catalog
	var recs []string

	if totalDebt > balance*p.CriticalDebtMultiple {
		recs = append(recs, c.RecCriticalDebt[:]...)
	}

	switch {
	case score < p.HealthCritical:
		recs = append(recs, c.RecCriticalHealth[:]...)
	case score < p.HealthFair:
		recs = append(recs, c.RecMonitor[:]...)
	default:
		recs = append(recs, c.RecHealthy)
		if balance > totalDebt*p.SurplusMultiple {
			recs = append(recs, c.RecSurplus)
		}
	}

	var rising int
	for _, pat := range patterns {
		if pat.Trend == models.TrendRising {
			rising++
		}
	}
	if rising > p.RisingCategoriesLimit {
		recs = append(recs, c.RecManyRising)
	}

	recs = append(recs, c.RecEmergencyReserve)

	if len(recs) > p.MaxRecommendations {
		return recs[:p.MaxRecommendations]
	}
	return recs
}
