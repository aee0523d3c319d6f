package classifier

import (
	"testing"

	"cashpulse/internal/models"
)

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		raw    string
		want   models.TransactionKind
		wantOK bool
	}{
		{"entrada", models.Inflow, true},
		{"Entrada", models.Inflow, true},
		{"  income ", models.Inflow, true},
		{"credit", models.Inflow, true},
		{"Crédito", models.Inflow, true},
		{"saida", models.Outflow, true},
		{"Saída", models.Outflow, true},
		{"expense", models.Outflow, true},
		{"débito", models.Outflow, true},
		{"", "", false},
		{"transfer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeKind(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeKind(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.DebtStatus
	}{
		{"vencida", models.DebtOverdue},
		{"Overdue", models.DebtOverdue},
		{"past due", models.DebtOverdue},
		{"em atraso", models.DebtOverdue},
		{"ativa", models.DebtActive},
		{"", models.DebtActive},
		{"Quitada", models.DebtPaid},
		{"Renegociada", models.DebtStatus("renegociada")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		name        string
		description string
		category    string
		amount      float64
		want        models.TransactionKind
	}{
		{"negative amount", "MERCADO LIVRE", "Compras", -120, models.Outflow},
		{"salary keyword", "SALARIO EMPRESA X", "", 5000, models.Inflow},
		{"income category", "ACME", "Receitas", 5000, models.Inflow},
		{"never income wins", "Refund fee", "", 10, models.Outflow},
		{"positive unknown", "Loja", "Diversos", 50, models.Outflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferKind(tt.description, tt.category, tt.amount); got != tt.want {
				t.Errorf("InferKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInternalTransfer(t *testing.T) {
	if !IsInternalTransfer("Transferência entre contas 1234") {
		t.Error("expected transfer between own accounts to be internal")
	}
	if IsInternalTransfer("PIX recebido Fulano") {
		t.Error("expected received PIX not to be internal")
	}
}
