package analysis

import (
	"math"
	"sort"

	"cashpulse/internal/models"
	"cashpulse/internal/services/metrics"
	"cashpulse/internal/services/regression"
)

// analyzePatterns summarizes each outflow category that has at least two
// months of history. Months without spending in a category are not filled.
func (a *Analyzer) analyzePatterns(ts *models.TransactionSet) []models.CategoryPattern {
	outflows := ts.FilterByKind(models.Outflow)
	if outflows.IsEmpty() {
		return []models.CategoryPattern{}
	}

	p := a.policy
	patterns := make([]models.CategoryPattern, 0)

	for _, category := range outflows.Categories() {
		series := a.metrics.MonthlySeries(outflows.FilterByCategory(category))
		if series.Len() < p.MinPatternMonths {
			continue
		}

		mean := metrics.Mean(series.Values)
		slope := regression.LinearSlope(series.Values)

		trend := models.TrendStable
		switch {
		case slope > mean*p.TrendSlopeRatio:
			trend = models.TrendRising
		case slope < -mean*p.TrendSlopeRatio:
			trend = models.TrendFalling
		}

		forecast, confidence := mean, p.FallbackConfidence
		if series.Len() >= p.ForecastWindow {
			if fc, ok := a.estimator.Forecast(series.Values); ok {
				forecast, confidence = fc.Value, fc.Confidence
			}
		}

		var variation float64
		if series.Len() >= 2*p.VariationMonths {
			recent := metrics.Mean(series.Last(p.VariationMonths))
			prior := metrics.Mean(series.Values[series.Len()-2*p.VariationMonths : series.Len()-p.VariationMonths])
			// Growth from an empty prior window has no meaningful percentage
			if prior > 0 {
				variation = metrics.PercentChange(recent, prior)
			}
		}

		patterns = append(patterns, models.CategoryPattern{
			Category:          category,
			AverageMonthly:    metrics.RoundMoney(mean),
			Trend:             trend,
			Variation:         metrics.Round(variation, 2),
			NextMonthForecast: metrics.RoundMoney(math.Max(forecast, 0)),
			Confidence:        metrics.Round(metrics.Clamp(confidence, 0, 100), 2),
			StdDev:            metrics.RoundMoney(metrics.SampleStdDev(series.Values)),
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].AverageMonthly != patterns[j].AverageMonthly {
			return patterns[i].AverageMonthly > patterns[j].AverageMonthly
		}
		return patterns[i].Category < patterns[j].Category
	})

	return patterns
}
