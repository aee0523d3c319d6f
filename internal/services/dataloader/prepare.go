package dataloader

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cashpulse/internal/models"
	"cashpulse/internal/services/classifier"
)

// ErrInvalidInput marks records that cannot be normalized: a missing or
// unparseable amount or date, or an unknown transaction kind
var ErrInvalidInput = errors.New("invalid input")

// transactionFields maps canonical transaction fields to accepted keys.
// The first key present with a non-null value wins.
var transactionFields = map[string][]string{
	"id":          {"id", "_id", "ID"},
	"kind":        {"tipo", "kind", "type"},
	"amount":      {"valor", "amount", "value"},
	"date":        {"data", "date"},
	"category":    {"categoria", "category"},
	"description": {"descricao", "description", "descrição"},
}

// debtFields maps canonical debt fields to accepted keys
var debtFields = map[string][]string{
	"id":        {"id", "_id", "ID"},
	"name":      {"nome", "name", "descricao", "description"},
	"amount":    {"valor", "amount", "original_amount", "valorOriginal"},
	"remaining": {"valorRestante", "remaining_amount", "remainingAmount", "valor_restante"},
	"due":       {"vencimento", "due_date", "dueDate", "dataVencimento"},
	"status":    {"status", "situacao"},
}

// dateLayouts lists the accepted date layouts in priority order. Day-first
// slashed dates are tried before month-first ones.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Prepare normalizes raw transaction and debt records into typed sets.
// Either input may be empty. The input maps are never modified. The
// returned transactions carry calendar features and are sorted canonically.
func Prepare(rawTransactions, rawDebts []map[string]any) (*models.TransactionSet, *models.DebtSet, error) {
	transactions := make([]models.Transaction, 0, len(rawTransactions))
	for i, raw := range rawTransactions {
		t, err := parseTransaction(i, raw)
		if err != nil {
			return nil, nil, err
		}
		transactions = append(transactions, t)
	}

	debts := make([]models.Debt, 0, len(rawDebts))
	for i, raw := range rawDebts {
		d, err := parseDebt(i, raw)
		if err != nil {
			return nil, nil, err
		}
		debts = append(debts, d)
	}

	ts := models.NewTransactionSet(transactions).SortCanonical().WithFeatures()
	return ts, models.NewDebtSet(debts), nil
}

func parseTransaction(i int, raw map[string]any) (models.Transaction, error) {
	var t models.Transaction

	kindVal, ok := lookup(raw, transactionFields["kind"])
	if !ok {
		return t, invalid("transaction", i, "tipo", errors.New("missing value"))
	}
	kind, ok := classifier.NormalizeKind(fmt.Sprint(kindVal))
	if !ok {
		return t, invalid("transaction", i, "tipo", fmt.Errorf("unknown kind %q", fmt.Sprint(kindVal)))
	}
	t.Kind = kind

	amountVal, ok := lookup(raw, transactionFields["amount"])
	if !ok {
		return t, invalid("transaction", i, "valor", errors.New("missing value"))
	}
	amount, err := ParseAmount(amountVal)
	if err != nil {
		return t, invalid("transaction", i, "valor", err)
	}
	t.Amount = amount.Abs().InexactFloat64()

	dateVal, ok := lookup(raw, transactionFields["date"])
	if !ok {
		return t, invalid("transaction", i, "data", errors.New("missing value"))
	}
	date, err := ParseDate(dateVal)
	if err != nil {
		return t, invalid("transaction", i, "data", err)
	}
	t.Date = date

	t.Category = models.DefaultCategory
	if v, ok := lookup(raw, transactionFields["category"]); ok {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			t.Category = s
		}
	}
	if v, ok := lookup(raw, transactionFields["description"]); ok {
		t.Description = strings.TrimSpace(fmt.Sprint(v))
	}

	if v, ok := lookup(raw, transactionFields["id"]); ok {
		t.ID = strings.TrimSpace(fmt.Sprint(v))
	}
	if t.ID == "" {
		t.ID = computeHash(t)
	}

	return t, nil
}

func parseDebt(i int, raw map[string]any) (models.Debt, error) {
	var d models.Debt

	if v, ok := lookup(raw, debtFields["id"]); ok {
		d.ID = strings.TrimSpace(fmt.Sprint(v))
	}
	if v, ok := lookup(raw, debtFields["name"]); ok {
		d.Name = strings.TrimSpace(fmt.Sprint(v))
	}

	if v, ok := lookup(raw, debtFields["amount"]); ok {
		amount, err := ParseAmount(v)
		if err != nil {
			return d, invalid("debt", i, "valor", err)
		}
		d.Amount = nonNegative(amount)
	}

	// Remaining falls back to the original amount, then to zero
	d.Remaining = d.Amount
	if v, ok := lookup(raw, debtFields["remaining"]); ok {
		remaining, err := ParseAmount(v)
		if err != nil {
			return d, invalid("debt", i, "valorRestante", err)
		}
		d.Remaining = nonNegative(remaining)
	}

	if v, ok := lookup(raw, debtFields["due"]); ok {
		if s, isString := v.(string); !isString || strings.TrimSpace(s) != "" {
			due, err := ParseDate(v)
			if err != nil {
				return d, invalid("debt", i, "vencimento", err)
			}
			d.DueDate = &due
		}
	}

	status := ""
	if v, ok := lookup(raw, debtFields["status"]); ok {
		status = fmt.Sprint(v)
	}
	d.Status = classifier.NormalizeStatus(status)

	if d.ID == "" {
		d.ID = fmt.Sprintf("debt-%d", i)
	}
	return d, nil
}

// lookup returns the first non-null value among the given keys
func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ParseAmount converts a JSON number, Go number or numeric string into a
// decimal. Strings may carry a currency symbol, thousands separators in
// either the Brazilian or US style, and accounting parentheses. Values that
// overflow a float64 or are NaN are rejected.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, err
		}
		return checkFinite(d)
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case decimal.Decimal:
		return checkFinite(n)
	case string:
		return parseAmountString(n)
	}
	return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("non-finite amount %v", f)
	}
	return decimal.NewFromFloat(f), nil
}

// checkFinite rejects decimals whose float64 form would be infinite
func checkFinite(d decimal.Decimal) (decimal.Decimal, error) {
	if f := d.InexactFloat64(); math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("amount %s out of range", d.String())
	}
	return d, nil
}

func parseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return checkFinite(d)
}

// ParseDate converts a date string or time value into a calendar date at
// midnight UTC. Time-of-day and offset are dropped after parsing.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return truncateDay(d), nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, errors.New("empty date")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDay(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return time.Time{}, fmt.Errorf("unsupported date type %T", v)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nonNegative(d decimal.Decimal) float64 {
	if d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// computeHash generates a stable id for records that arrive without one
func computeHash(t models.Transaction) string {
	input := fmt.Sprintf("%s|%s|%s|%.2f|%s",
		t.Date.Format("2006-01-02"), t.Kind, t.Category, t.Amount,
		strings.ToLower(strings.TrimSpace(t.Description)))
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}

func invalid(record string, index int, field string, cause error) error {
	return fmt.Errorf("%w: %s %d: %s: %v", ErrInvalidInput, record, index, field, cause)
}
