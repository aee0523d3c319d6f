// Package regression holds the small models used for per-category
// next-month forecasts. Every estimator consumes a window of the most recent
// monthly totals and predicts the following month.
package regression

import (
	"fmt"
	"math"
)

// Forecast is a next-month prediction with a 0-100 confidence
type Forecast struct {
	Value      float64
	Confidence float64
}

// Estimator predicts the month that follows a monthly series. It reports
// false when the series is too short to fit anything.
type Estimator interface {
	Name() string
	Forecast(series []float64) (Forecast, bool)
}

// Estimator names accepted by NewEstimator
const (
	EstimatorForest    = "forest"
	EstimatorSmoothing = "smoothing"
)

// NewEstimator builds an estimator by name
func NewEstimator(name string, window, trees int, seed int64) (Estimator, error) {
	switch name {
	case "", EstimatorForest:
		return NewForestEstimator(window, trees, seed), nil
	case EstimatorSmoothing:
		return NewSmoothingEstimator(window), nil
	}
	return nil, fmt.Errorf("unknown estimator %q", name)
}

// LinearSlope fits y = a + b*x by least squares over x = 0..n-1 and returns b
func LinearSlope(y []float64) float64 {
	n := float64(len(y))
	if len(y) < 2 {
		return 0
	}

	meanX := (n - 1) / 2
	var meanY float64
	for _, v := range y {
		meanY += v
	}
	meanY /= n

	var num, den float64
	for i, v := range y {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	return num / den
}

// R2Score is the coefficient of determination of predictions against
// observations. A constant target scores 1 when predicted exactly, else 0.
func R2Score(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i, v := range actual {
		r := v - predicted[i]
		ssRes += r * r
		d := v - mean
		ssTot += d * d
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// confidencePercent turns an R² into a clamped percentage
func confidencePercent(r2 float64) float64 {
	c := r2 * 100
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
