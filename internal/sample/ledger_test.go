package sample

import (
	"testing"
	"time"

	"cashpulse/internal/services/dataloader"
)

func TestLedger(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	req := Ledger(now)

	if len(req.Transactions) != 30 || len(req.Debts) != 2 {
		t.Fatalf("Expected 30 transactions and 2 debts, got %d and %d", len(req.Transactions), len(req.Debts))
	}
	if req.TotalDebt == nil || *req.TotalDebt != 11000 {
		t.Errorf("Expected total debt 11000, got %v", req.TotalDebt)
	}
	// inflow 72500, outflow 39000
	if req.CurrentBalance != 33500 {
		t.Errorf("Expected balance 33500, got %v", req.CurrentBalance)
	}

	ts, debts, err := dataloader.Prepare(req.Transactions, req.Debts)
	if err != nil {
		t.Fatalf("Sample ledger should prepare cleanly: %v", err)
	}
	if ts.Len() != 30 || debts.Overdue().Len() != 1 {
		t.Errorf("Unexpected prepared ledger: %d transactions, %d overdue", ts.Len(), debts.Overdue().Len())
	}
	if got := ts.MaxDate(); !got.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected latest date to be today, got %v", got)
	}
}
