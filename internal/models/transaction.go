package models

import (
	"sort"
	"time"
)

// TransactionKind indicates whether money entered or left the cash position
type TransactionKind string

const (
	Inflow  TransactionKind = "entrada"
	Outflow TransactionKind = "saida"
)

// DefaultCategory is assigned to records that arrive without a category
const DefaultCategory = "Outros"

// Transaction represents a single cash-ledger movement
type Transaction struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"tipo"`
	Amount      float64         `json:"valor"`
	Date        time.Time       `json:"data"`
	Category    string          `json:"categoria"`
	Description string          `json:"descricao,omitempty"`

	// Derived fields (computed, not part of the input). Every calendar
	// aggregate on TransactionSet reads these, so sets must pass through
	// WithFeatures first.
	Month    string `json:"-"` // "2024-01"
	Year     int    `json:"-"`
	MonthNum int    `json:"-"`
	Day      int    `json:"-"`
	Weekday  int    `json:"-"` // 0 = Monday
	Quarter  int    `json:"-"`
	ISOWeek  int    `json:"-"`
}

// ComputeDerivedFields populates the calendar features from Date.
// Reapplying it overwrites the same values.
func (t *Transaction) ComputeDerivedFields() {
	t.Month = t.Date.Format("2006-01")
	t.Year = t.Date.Year()
	t.MonthNum = int(t.Date.Month())
	t.Day = t.Date.Day()
	t.Weekday = (int(t.Date.Weekday()) + 6) % 7
	t.Quarter = (t.MonthNum-1)/3 + 1
	_, t.ISOWeek = t.Date.ISOWeek()
}

// TransactionSet wraps a slice with filtering/aggregation methods
type TransactionSet struct {
	Transactions []Transaction
}

// NewTransactionSet creates a new TransactionSet from a slice
func NewTransactionSet(transactions []Transaction) *TransactionSet {
	return &TransactionSet{Transactions: transactions}
}

// Len returns the number of transactions
func (ts *TransactionSet) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Transactions)
}

// IsEmpty reports whether the set holds no transactions
func (ts *TransactionSet) IsEmpty() bool {
	return ts.Len() == 0
}

// WithFeatures returns a copy of the set with calendar features computed.
// The receiver is left untouched.
func (ts *TransactionSet) WithFeatures() *TransactionSet {
	if ts.IsEmpty() {
		return ts
	}
	out := ts.Copy()
	for i := range out.Transactions {
		out.Transactions[i].ComputeDerivedFields()
	}
	return out
}

// FilterByKind returns transactions of the specified kind
func (ts *TransactionSet) FilterByKind(kind TransactionKind) *TransactionSet {
	result := &TransactionSet{}
	if ts == nil {
		return result
	}
	for _, t := range ts.Transactions {
		if t.Kind == kind {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// FilterByCategory returns transactions with exactly the given category
func (ts *TransactionSet) FilterByCategory(category string) *TransactionSet {
	result := &TransactionSet{}
	for _, t := range ts.Transactions {
		if t.Category == category {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// SumAmount returns the sum of all transaction amounts
func (ts *TransactionSet) SumAmount() float64 {
	if ts == nil {
		return 0
	}
	var sum float64
	for _, t := range ts.Transactions {
		sum += t.Amount
	}
	return sum
}

// Amounts returns the amounts in set order
func (ts *TransactionSet) Amounts() []float64 {
	amounts := make([]float64, 0, ts.Len())
	for _, t := range ts.Transactions {
		amounts = append(amounts, t.Amount)
	}
	return amounts
}

// MonthlyTotals returns a map of month key -> total amount
func (ts *TransactionSet) MonthlyTotals() map[string]float64 {
	result := make(map[string]float64)
	for _, t := range ts.Transactions {
		result[t.Month] += t.Amount
	}
	return result
}

// CategoryTotals returns a map of category -> total amount
func (ts *TransactionSet) CategoryTotals() map[string]float64 {
	result := make(map[string]float64)
	for _, t := range ts.Transactions {
		result[t.Category] += t.Amount
	}
	return result
}

// WeekdayTotals returns the total amount per weekday index (0 = Monday)
// and whether each weekday has any transaction
func (ts *TransactionSet) WeekdayTotals() (totals [7]float64, present [7]bool) {
	for _, t := range ts.Transactions {
		totals[t.Weekday] += t.Amount
		present[t.Weekday] = true
	}
	return totals, present
}

// CalendarMonthTotals returns the total amount per calendar month number (1-12),
// pooling every year together
func (ts *TransactionSet) CalendarMonthTotals() map[int]float64 {
	result := make(map[int]float64)
	for _, t := range ts.Transactions {
		result[t.MonthNum] += t.Amount
	}
	return result
}

// Months returns the sorted distinct month keys present in the set
func (ts *TransactionSet) Months() []string {
	seen := make(map[string]bool)
	var months []string
	for _, t := range ts.Transactions {
		if !seen[t.Month] {
			seen[t.Month] = true
			months = append(months, t.Month)
		}
	}
	sort.Strings(months)
	return months
}

// Categories returns a sorted list of unique categories
func (ts *TransactionSet) Categories() []string {
	catMap := make(map[string]bool)
	for _, t := range ts.Transactions {
		catMap[t.Category] = true
	}

	cats := make([]string, 0, len(catMap))
	for cat := range catMap {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// MinDate returns the earliest transaction date
func (ts *TransactionSet) MinDate() time.Time {
	if ts.IsEmpty() {
		return time.Time{}
	}
	minDate := ts.Transactions[0].Date
	for _, t := range ts.Transactions[1:] {
		if t.Date.Before(minDate) {
			minDate = t.Date
		}
	}
	return minDate
}

// MaxDate returns the latest transaction date
func (ts *TransactionSet) MaxDate() time.Time {
	if ts.IsEmpty() {
		return time.Time{}
	}
	maxDate := ts.Transactions[0].Date
	for _, t := range ts.Transactions[1:] {
		if t.Date.After(maxDate) {
			maxDate = t.Date
		}
	}
	return maxDate
}

// SortCanonical returns a copy ordered by date, kind, category, amount and id.
// Every aggregate computed from the result is independent of input order.
func (ts *TransactionSet) SortCanonical() *TransactionSet {
	sorted := ts.Copy()
	sort.SliceStable(sorted.Transactions, func(i, j int) bool {
		a, b := sorted.Transactions[i], sorted.Transactions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Amount != b.Amount {
			return a.Amount < b.Amount
		}
		return a.ID < b.ID
	})
	return sorted
}

// Copy creates a shallow copy of the TransactionSet
func (ts *TransactionSet) Copy() *TransactionSet {
	if ts == nil {
		return &TransactionSet{}
	}
	copied := make([]Transaction, len(ts.Transactions))
	copy(copied, ts.Transactions)
	return &TransactionSet{Transactions: copied}
}
