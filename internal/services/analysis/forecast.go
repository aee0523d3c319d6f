package analysis

import (
	"math"

	"cashpulse/internal/models"
	"cashpulse/internal/services/metrics"
)

// forecastCashFlow projects inflow and outflow for the next ForecastMonths
// months from the historical monthly means. It returns an empty list unless
// ForecastMinMonths distinct months have transactions.
func (a *Analyzer) forecastCashFlow(ts *models.TransactionSet) []models.ForecastPoint {
	p := a.policy
	months := ts.Months()
	if len(months) < p.ForecastMinMonths || p.ForecastMonths == 0 {
		return []models.ForecastPoint{}
	}

	first, last := months[0], months[len(months)-1]
	inflow := a.metrics.ZeroFilledSeries(ts.FilterByKind(models.Inflow), first, last)
	outflow := a.metrics.ZeroFilledSeries(ts.FilterByKind(models.Outflow), first, last)
	meanIn := metrics.Mean(inflow.Values)
	meanOut := metrics.Mean(outflow.Values)

	startMonth := int(a.clock().Month()) - 1
	points := make([]models.ForecastPoint, 0, p.ForecastMonths)
	var running float64

	for i := 0; i < p.ForecastMonths; i++ {
		growth := math.Pow(1+p.ForecastGrowthRate, float64(i))
		in := meanIn * growth
		out := meanOut * growth
		delta := in - out

		running += delta
		balance := running
		if p.LegacyCumulativeBalance {
			balance = delta * float64(i+1)
		}

		points = append(points, models.ForecastPoint{
			Month:      a.catalog.Months[(startMonth+i)%12],
			Inflow:     metrics.RoundMoney(in),
			Outflow:    metrics.RoundMoney(out),
			Balance:    metrics.RoundMoney(balance),
			Confidence: metrics.Clamp(math.Max(p.ConfidenceFloor, p.ConfidenceStart-p.ConfidenceStep*float64(i)), 0, 100),
		})
	}
	return points
}
