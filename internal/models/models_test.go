package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeDerivedFields(t *testing.T) {
	tx := Transaction{Date: date(2024, 1, 1)}
	tx.ComputeDerivedFields()

	if tx.Month != "2024-01" || tx.Year != 2024 || tx.MonthNum != 1 || tx.Day != 1 {
		t.Errorf("Unexpected calendar fields: %+v", tx)
	}
	// 2024-01-01 is a Monday
	if tx.Weekday != 0 {
		t.Errorf("Expected weekday 0, got %d", tx.Weekday)
	}
	if tx.Quarter != 1 || tx.ISOWeek != 1 {
		t.Errorf("Expected quarter 1 week 1, got %d %d", tx.Quarter, tx.ISOWeek)
	}

	sunday := Transaction{Date: date(2024, 11, 10)}
	sunday.ComputeDerivedFields()
	if sunday.Weekday != 6 || sunday.Quarter != 4 {
		t.Errorf("Expected Sunday in Q4, got weekday %d quarter %d", sunday.Weekday, sunday.Quarter)
	}
}

func TestWithFeaturesDoesNotMutate(t *testing.T) {
	ts := NewTransactionSet([]Transaction{{Date: date(2024, 3, 5), Amount: 10}})
	featured := ts.WithFeatures()

	if ts.Transactions[0].Month != "" {
		t.Error("Expected original set untouched")
	}
	if featured.Transactions[0].Month != "2024-03" {
		t.Errorf("Expected month key, got %q", featured.Transactions[0].Month)
	}
}

func TestTransactionSetAggregates(t *testing.T) {
	ts := NewTransactionSet([]Transaction{
		{Kind: Inflow, Amount: 1000, Date: date(2024, 1, 1), Category: "Receitas"},
		{Kind: Outflow, Amount: 200, Date: date(2024, 1, 3), Category: "Mercado"},
		{Kind: Outflow, Amount: 300, Date: date(2024, 2, 7), Category: "Aluguel"},
		{Kind: Outflow, Amount: 50, Date: date(2023, 2, 1), Category: "Mercado"},
	}).WithFeatures()

	outflows := ts.FilterByKind(Outflow)
	if outflows.Len() != 3 || outflows.SumAmount() != 550 {
		t.Errorf("Expected 3 outflows totaling 550, got %d / %v", outflows.Len(), outflows.SumAmount())
	}

	monthly := outflows.MonthlyTotals()
	if monthly["2024-01"] != 200 || monthly["2024-02"] != 300 || monthly["2023-02"] != 50 {
		t.Errorf("Unexpected monthly totals: %v", monthly)
	}

	calendar := outflows.CalendarMonthTotals()
	if calendar[2] != 350 || calendar[1] != 200 {
		t.Errorf("Unexpected calendar month totals: %v", calendar)
	}

	weekdays, present := outflows.WeekdayTotals()
	// 2024-01-03 Wednesday, 2024-02-07 Wednesday, 2023-02-01 Wednesday
	if weekdays[2] != 550 {
		t.Errorf("Expected all outflows on Wednesday, got %v", weekdays)
	}
	if !present[2] || present[0] {
		t.Errorf("Unexpected weekday presence: %v", present)
	}

	if got := ts.Months(); len(got) != 3 || got[0] != "2023-02" || got[2] != "2024-02" {
		t.Errorf("Unexpected months: %v", got)
	}
	if got := ts.Categories(); len(got) != 3 || got[0] != "Aluguel" {
		t.Errorf("Unexpected categories: %v", got)
	}
	if got := ts.FilterByCategory("Mercado").Len(); got != 2 {
		t.Errorf("Expected 2 Mercado rows, got %d", got)
	}
	if !ts.MinDate().Equal(date(2023, 2, 1)) || !ts.MaxDate().Equal(date(2024, 2, 7)) {
		t.Errorf("Unexpected date range %v - %v", ts.MinDate(), ts.MaxDate())
	}
}

func TestAggregatesReadDerivedFields(t *testing.T) {
	tx := Transaction{Kind: Outflow, Amount: 40, Date: date(2024, 3, 4)}
	tx.ComputeDerivedFields()
	tx.Month = "1999-01"
	tx.MonthNum = 1
	tx.Weekday = 5
	ts := NewTransactionSet([]Transaction{tx})

	if got := ts.Months(); len(got) != 1 || got[0] != "1999-01" {
		t.Errorf("Expected months from the derived key, got %v", got)
	}
	if got := ts.MonthlyTotals()["1999-01"]; got != 40 {
		t.Errorf("Expected monthly total keyed by derived month, got %v", ts.MonthlyTotals())
	}
	if got := ts.CalendarMonthTotals()[1]; got != 40 {
		t.Errorf("Expected calendar total under month 1, got %v", ts.CalendarMonthTotals())
	}
	weekdays, present := ts.WeekdayTotals()
	if weekdays[5] != 40 || !present[5] || present[0] {
		t.Errorf("Expected weekday 5 from derived field, got %v %v", weekdays, present)
	}
}

func TestEmptyTransactionSet(t *testing.T) {
	var ts *TransactionSet
	if !ts.IsEmpty() || ts.SumAmount() != 0 || ts.FilterByKind(Inflow).Len() != 0 {
		t.Error("Expected nil set to behave as empty")
	}
	if !NewTransactionSet(nil).MinDate().IsZero() {
		t.Error("Expected zero MinDate for empty set")
	}
}

func TestSortCanonical(t *testing.T) {
	ts := NewTransactionSet([]Transaction{
		{ID: "b", Kind: Outflow, Amount: 10, Date: date(2024, 1, 2), Category: "A"},
		{ID: "a", Kind: Outflow, Amount: 10, Date: date(2024, 1, 2), Category: "A"},
		{ID: "c", Kind: Inflow, Amount: 99, Date: date(2024, 1, 2), Category: "Z"},
		{ID: "d", Kind: Outflow, Amount: 5, Date: date(2024, 1, 1), Category: "Z"},
		{ID: "e", Kind: Outflow, Amount: 1, Date: date(2024, 1, 2), Category: "B"},
	})

	sorted := ts.SortCanonical()
	want := []string{"d", "c", "a", "b", "e"}
	for i, id := range want {
		if sorted.Transactions[i].ID != id {
			t.Fatalf("Position %d: expected %s, got %s", i, id, sorted.Transactions[i].ID)
		}
	}
	if ts.Transactions[0].ID != "b" {
		t.Error("Expected SortCanonical to leave the receiver untouched")
	}
}

func TestDebtSet(t *testing.T) {
	ds := NewDebtSet([]Debt{
		{ID: "1", Remaining: 300, Status: DebtActive},
		{ID: "2", Remaining: 700, Status: DebtOverdue},
		{ID: "3", Remaining: 0, Status: DebtPaid},
	})

	if ds.Len() != 3 || ds.TotalRemaining() != 1000 {
		t.Errorf("Expected 3 debts with 1000 remaining, got %d / %v", ds.Len(), ds.TotalRemaining())
	}
	overdue := ds.Overdue()
	if overdue.Len() != 1 || overdue.TotalRemaining() != 700 {
		t.Errorf("Expected one overdue debt of 700, got %+v", overdue.Debts)
	}

	var empty *DebtSet
	if empty.Len() != 0 || empty.TotalRemaining() != 0 || empty.Overdue().Len() != 0 {
		t.Error("Expected nil debt set to behave as empty")
	}
}

func TestReportEnsureLists(t *testing.T) {
	r := &Report{}
	r.EnsureLists()
	if r.Patterns == nil || r.Insights == nil || r.Forecast == nil || r.Recommendations == nil {
		t.Errorf("Expected non-nil lists, got %+v", r)
	}
}
