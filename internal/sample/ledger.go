// Package sample generates a small, realistic ledger used by the smoke-test
// CLI, the offline CLI's demo mode and tests.
package sample

import (
	"fmt"
	"time"

	"cashpulse/internal/models"
)

// OutflowCategories are cycled through by the generated outflows
var OutflowCategories = []string{"Aluguel", "Alimentação", "Transporte", "Contas", "Diversos"}

// Ledger returns ten inflows every ten days and twenty outflows every five
// days counting back from now, plus one active and one overdue debt. The
// balance is inflows minus outflows.
func Ledger(now time.Time) *models.AnalysisRequest {
	var transactions []map[string]any
	var inflow, outflow float64

	for i := 0; i < 10; i++ {
		amount := 5000 + float64(i)*500
		inflow += amount
		transactions = append(transactions, map[string]any{
			"id":        fmt.Sprintf("ent-%d", i),
			"tipo":      string(models.Inflow),
			"valor":     amount,
			"data":      now.AddDate(0, 0, -10*i).Format("2006-01-02T15:04:05"),
			"categoria": "Receitas",
			"descricao": fmt.Sprintf("Entrada %d", i),
		})
	}

	for i := 0; i < 20; i++ {
		amount := 1000 + float64(i)*100
		outflow += amount
		transactions = append(transactions, map[string]any{
			"id":        fmt.Sprintf("sai-%d", i),
			"tipo":      string(models.Outflow),
			"valor":     amount,
			"data":      now.AddDate(0, 0, -5*i).Format("2006-01-02T15:04:05"),
			"categoria": OutflowCategories[i%len(OutflowCategories)],
			"descricao": fmt.Sprintf("Saída %d", i),
		})
	}

	debts := []map[string]any{
		{
			"id":            "div-1",
			"nome":          "Cartão Crédito",
			"valor":         5000.0,
			"valorRestante": 3000.0,
			"vencimento":    now.AddDate(0, 0, 10).Format("2006-01-02T15:04:05"),
			"status":        string(models.DebtActive),
		},
		{
			"id":            "div-2",
			"nome":          "Empréstimo",
			"valor":         10000.0,
			"valorRestante": 8000.0,
			"vencimento":    now.AddDate(0, 0, -5).Format("2006-01-02T15:04:05"),
			"status":        string(models.DebtOverdue),
		},
	}

	totalDebt := 11000.0
	return &models.AnalysisRequest{
		Transactions:   transactions,
		Debts:          debts,
		CurrentBalance: inflow - outflow,
		TotalDebt:      &totalDebt,
	}
}
