package regression

import (
	"math/rand"
	"sort"
)

// ForestEstimator is a bagged ensemble of regression trees. Trees learn the
// month-over-month change from a sliding window of levels, so the forecast is
// the last observed level plus the predicted change and a steady trend
// carries past the largest value seen in training.
type ForestEstimator struct {
	window int
	trees  int
	seed   int64
}

// NewForestEstimator creates a forest estimator
func NewForestEstimator(window, trees int, seed int64) *ForestEstimator {
	if window < 1 {
		window = 3
	}
	if trees < 1 {
		trees = 50
	}
	return &ForestEstimator{window: window, trees: trees, seed: seed}
}

// Name returns the estimator name
func (f *ForestEstimator) Name() string {
	return EstimatorForest
}

// Forecast fits the forest on every full window in series and predicts the
// month after the last window. It needs at least window+1 values.
func (f *ForestEstimator) Forecast(series []float64) (Forecast, bool) {
	if len(series) < f.window+1 {
		return Forecast{}, false
	}

	var features [][]float64
	var deltas, levels []float64
	for i := f.window; i < len(series); i++ {
		features = append(features, series[i-f.window:i])
		deltas = append(deltas, series[i]-series[i-1])
		levels = append(levels, series[i])
	}

	forest := fitForest(features, deltas, f.trees, rand.New(rand.NewSource(f.seed)))

	fitted := make([]float64, len(features))
	for i, x := range features {
		fitted[i] = series[f.window+i-1] + forest.predict(x)
	}

	last := series[len(series)-f.window:]
	return Forecast{
		Value:      series[len(series)-1] + forest.predict(last),
		Confidence: confidencePercent(R2Score(levels, fitted)),
	}, true
}

type forest struct {
	trees []*node
}

func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

// fitForest grows each tree on a bootstrap sample drawn from rng
func fitForest(x [][]float64, y []float64, trees int, rng *rand.Rand) *forest {
	f := &forest{trees: make([]*node, 0, trees)}
	n := len(y)
	for t := 0; t < trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, growTree(x, y, idx))
	}
	return f
}

// node is a CART regression tree node. Leaves have left == nil.
type node struct {
	feature   int
	threshold float64
	value     float64
	left      *node
	right     *node
}

func (n *node) predict(x []float64) float64 {
	for n.left != nil {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// growTree splits on the feature/threshold with the lowest summed squared
// error until leaves are pure or cannot be split
func growTree(x [][]float64, y []float64, idx []int) *node {
	leaf := &node{value: meanOf(y, idx)}
	if len(idx) < 2 {
		return leaf
	}

	bestSSE := sseOf(y, idx)
	if bestSSE == 0 {
		return leaf
	}
	bestFeature, bestThreshold := -1, 0.0

	for feature := range x[idx[0]] {
		sorted := make([]int, len(idx))
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return x[sorted[a]][feature] < x[sorted[b]][feature]
		})

		// Running sums let each candidate split be scored in O(1)
		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for k := 0; k < len(sorted)-1; k++ {
			v := y[sorted[k]]
			leftSum += v
			leftSq += v * v

			lo, hi := x[sorted[k]][feature], x[sorted[k+1]][feature]
			if lo == hi {
				continue
			}

			nl := float64(k + 1)
			nr := float64(len(sorted) - k - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)

			if sse < bestSSE-1e-12 {
				bestSSE = sse
				bestFeature = feature
				bestThreshold = (lo + hi) / 2
			}
		}
	}

	if bestFeature < 0 {
		return leaf
	}

	var left, right []int
	for _, i := range idx {
		if x[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      growTree(x, y, left),
		right:     growTree(x, y, right),
	}
}

func meanOf(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseOf(y []float64, idx []int) float64 {
	m := meanOf(y, idx)
	var sse float64
	for _, i := range idx {
		d := y[i] - m
		sse += d * d
	}
	return sse
}
