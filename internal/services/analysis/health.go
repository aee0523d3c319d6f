package analysis

import (
	"math"

	"github.com/sirupsen/logrus"

	"cashpulse/internal/models"
	"cashpulse/internal/services/metrics"
)

// healthScore is the score together with the contribution of each factor
type healthScore struct {
	Score       int
	Liquidity   float64
	Balance     float64
	Debt        float64
	Consistency float64
	Trends      float64
}

func (h healthScore) fields() logrus.Fields {
	return logrus.Fields{
		"score":       h.Score,
		"liquidity":   h.Liquidity,
		"balance":     h.Balance,
		"debt":        h.Debt,
		"consistency": h.Consistency,
		"trends":      h.Trends,
	}
}

// scoreHealth combines liquidity, balance tier, debt burden, spending
// consistency and category trends into a 0-100 score. With no transactions
// every factor is skipped and the base score is returned.
func (a *Analyzer) scoreHealth(ts *models.TransactionSet, cf metrics.CashFlow, patterns []models.CategoryPattern, balance, totalDebt float64) healthScore {
	p := a.policy
	h := healthScore{Score: int(p.HealthBase)}
	if ts.IsEmpty() {
		return h
	}

	if cf.HasInflow {
		h.Liquidity = math.Min(p.LiquidityCap, cf.SavingsRate)
	}

	h.Balance = balancePoints(p, balance)
	h.Debt = debtPoints(p, balance, totalDebt)

	outflows := ts.FilterByKind(models.Outflow).Amounts()
	if cv, ok := metrics.CoefficientOfVariation(outflows); ok {
		h.Consistency = math.Max(0, p.ConsistencyMax-cv*p.ConsistencyWeight)
	}

	if len(patterns) > 0 {
		var good int
		for _, pat := range patterns {
			if pat.Trend == models.TrendFalling || pat.Trend == models.TrendStable {
				good++
			}
		}
		h.Trends = float64(good) / float64(len(patterns)) * p.TrendWeight
	}

	total := p.HealthBase + h.Liquidity + h.Balance + h.Debt + h.Consistency + h.Trends
	h.Score = int(math.Trunc(metrics.Clamp(total, 0, 100)))
	return h
}

// balancePoints returns the first matching balance tier, or the negative
// balance penalty
func balancePoints(p Policy, balance float64) float64 {
	for _, tier := range p.BalanceTiers {
		if balance > tier.Above {
			return tier.Points
		}
	}
	if balance < 0 {
		return p.NegativeBalancePoints
	}
	return 0
}

// debtPoints scores debt relative to the balance. Without a positive balance
// only large debts are penalized.
func debtPoints(p Policy, balance, totalDebt float64) float64 {
	if totalDebt > 0 && balance > 0 {
		ratio := totalDebt / balance
		for _, tier := range p.DebtTiers {
			if ratio > tier.RatioAbove {
				return tier.Points
			}
		}
		if ratio < p.LowDebtRatio {
			return p.LowDebtPoints
		}
		return 0
	}
	if totalDebt > p.UnbackedDebtThreshold {
		return p.UnbackedDebtPoints
	}
	return 0
}
