package models

import "time"

// DebtStatus is the lifecycle state of a debt as reported by the caller
type DebtStatus string

const (
	DebtActive  DebtStatus = "ativa"
	DebtOverdue DebtStatus = "vencida"
	DebtPaid    DebtStatus = "paga"
)

// Debt represents an outstanding obligation
type Debt struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Amount    float64    `json:"valor"`
	Remaining float64    `json:"valorRestante"`
	DueDate   *time.Time `json:"vencimento,omitempty"`
	Status    DebtStatus `json:"status"`
}

// IsOverdue reports whether the debt is past due
func (d Debt) IsOverdue() bool {
	return d.Status == DebtOverdue
}

// DebtSet wraps a slice of debts with aggregation helpers
type DebtSet struct {
	Debts []Debt
}

// NewDebtSet creates a new DebtSet from a slice
func NewDebtSet(debts []Debt) *DebtSet {
	return &DebtSet{Debts: debts}
}

// Len returns the number of debts
func (ds *DebtSet) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Debts)
}

// TotalRemaining sums the remaining amount of every debt
func (ds *DebtSet) TotalRemaining() float64 {
	if ds == nil {
		return 0
	}
	var total float64
	for _, d := range ds.Debts {
		total += d.Remaining
	}
	return total
}

// Overdue returns the debts whose status is overdue
func (ds *DebtSet) Overdue() *DebtSet {
	result := &DebtSet{}
	if ds == nil {
		return result
	}
	for _, d := range ds.Debts {
		if d.IsOverdue() {
			result.Debts = append(result.Debts, d)
		}
	}
	return result
}
