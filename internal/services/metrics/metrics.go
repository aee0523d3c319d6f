package metrics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"cashpulse/internal/models"
)

// CashFlow summarizes inflows and outflows over a transaction set
type CashFlow struct {
	TotalInflow  float64
	TotalOutflow float64
	Net          float64
	SavingsRate  float64 // percent of inflow kept, 0 when there is no inflow
	HasInflow    bool
}

// Series is a month-indexed sequence of totals
type Series struct {
	Months []string
	Values []float64
}

// Len returns the number of months in the series
func (s Series) Len() int {
	return len(s.Values)
}

// Last returns the most recent n values, or all of them when fewer exist
func (s Series) Last(n int) []float64 {
	if n >= len(s.Values) {
		return s.Values
	}
	return s.Values[len(s.Values)-n:]
}

// Service provides metric calculation functionality
type Service struct{}

// New creates a new metrics service
func New() *Service {
	return &Service{}
}

// CalculateCashFlow computes totals and the savings rate of a transaction set
func (s *Service) CalculateCashFlow(ts *models.TransactionSet) CashFlow {
	inflow := ts.FilterByKind(models.Inflow).SumAmount()
	outflow := ts.FilterByKind(models.Outflow).SumAmount()

	cf := CashFlow{
		TotalInflow:  inflow,
		TotalOutflow: outflow,
		Net:          inflow - outflow,
		HasInflow:    inflow > 0,
	}
	if inflow > 0 {
		cf.SavingsRate = (inflow - outflow) / inflow * 100
	}
	return cf
}

// MonthlySeries returns per-month totals for the months that have data,
// in chronological order
func (s *Service) MonthlySeries(ts *models.TransactionSet) Series {
	totals := ts.MonthlyTotals()
	months := ts.Months()

	values := make([]float64, len(months))
	for i, m := range months {
		values[i] = totals[m]
	}
	return Series{Months: months, Values: values}
}

// ZeroFilledSeries returns per-month totals for every month between first
// and last inclusive, using zero for months without data
func (s *Service) ZeroFilledSeries(ts *models.TransactionSet, first, last string) Series {
	totals := ts.MonthlyTotals()
	months := MonthRange(first, last)

	values := make([]float64, len(months))
	for i, m := range months {
		values[i] = totals[m]
	}
	return Series{Months: months, Values: values}
}

// MonthRange lists the YYYY-MM keys from first to last inclusive
func MonthRange(first, last string) []string {
	start, err := time.Parse("2006-01", first)
	if err != nil {
		return nil
	}
	end, err := time.Parse("2006-01", last)
	if err != nil || end.Before(start) {
		return nil
	}

	var months []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format("2006-01"))
	}
	return months
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the n-1 standard deviation, 0 with fewer than two values
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(sumSquaredDeviation(values) / float64(len(values)-1))
}

// PopulationStdDev returns the n standard deviation, 0 for an empty slice
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return math.Sqrt(sumSquaredDeviation(values) / float64(len(values)))
}

func sumSquaredDeviation(values []float64) float64 {
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss
}

// CoefficientOfVariation returns sample std / mean. The second result is
// false when it is undefined (fewer than two values or a non-positive mean).
func CoefficientOfVariation(values []float64) (float64, bool) {
	mean := Mean(values)
	if len(values) < 2 || mean <= 0 {
		return 0, false
	}
	return SampleStdDev(values) / mean, true
}

// PercentChange calculates the percentage change between two values.
// A zero previous value reports 100 for any movement and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / math.Abs(previous)) * 100
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite replaces NaN and infinities with zero so values can be encoded
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RoundMoney rounds to cents, half away from zero
func RoundMoney(v float64) float64 {
	return Round(v, 2)
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int32) float64 {
	v = Finite(v)
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
