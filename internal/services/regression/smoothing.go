package regression

// Holt smoothing factors for level and trend
const (
	holtAlpha = 0.5
	holtBeta  = 0.3
)

// SmoothingEstimator applies Holt's linear exponential smoothing to the most
// recent window of the series
type SmoothingEstimator struct {
	window int
}

// NewSmoothingEstimator creates a smoothing estimator
func NewSmoothingEstimator(window int) *SmoothingEstimator {
	if window < 2 {
		window = 3
	}
	return &SmoothingEstimator{window: window}
}

// Name returns the estimator name
func (s *SmoothingEstimator) Name() string {
	return EstimatorSmoothing
}

// Forecast smooths the last window values and extrapolates one step. The
// confidence is the fit of one-step-ahead forecasts over the whole series.
func (s *SmoothingEstimator) Forecast(series []float64) (Forecast, bool) {
	if len(series) < s.window {
		return Forecast{}, false
	}

	next := holt(series[len(series)-s.window:])

	confidence := 50.0
	if len(series) > 2 {
		var actual, predicted []float64
		for i := 2; i < len(series); i++ {
			actual = append(actual, series[i])
			predicted = append(predicted, holt(series[:i]))
		}
		confidence = confidencePercent(R2Score(actual, predicted))
	}

	return Forecast{Value: next, Confidence: confidence}, true
}

// holt returns the one-step-ahead forecast for y, which must hold at least
// two values
func holt(y []float64) float64 {
	level := y[0]
	trend := y[1] - y[0]
	for _, v := range y[1:] {
		prev := level
		level = holtAlpha*v + (1-holtAlpha)*(level+trend)
		trend = holtBeta*(level-prev) + (1-holtBeta)*trend
	}
	return level + trend
}
