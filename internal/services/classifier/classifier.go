package classifier

import (
	"strings"

	"cashpulse/internal/models"
)

// Inflow kind spellings (lowercase, accents stripped)
var InflowKinds = []string{
	"entrada", "entradas", "receita", "receitas",
	"inflow", "income", "credit", "credito",
	"deposit", "deposito", "in",
}

// Outflow kind spellings (lowercase, accents stripped)
var OutflowKinds = []string{
	"saida", "saidas", "despesa", "despesas", "gasto", "gastos",
	"outflow", "expense", "debit", "debito",
	"withdrawal", "saque", "out",
}

// Income detection keywords used when a record carries no kind at all
var IncomeKeywords = []string{
	"payroll", "salary", "paycheck", "direct deposit",
	"refund", "cashback", "dividend", "interest earned",
	"bonus", "rebate", "reimbursement", "commission",
	"salario", "pagamento recebido", "recebimento", "reembolso",
	"rendimento", "pix recebido", "transferencia recebida",
}

// Keywords that should NEVER be income
var NeverIncomeKeywords = []string{
	"credit card payment", "card payment", "loan payment",
	"bill payment", "autopay", "withdrawal", "fee", "subscription",
	"fatura", "boleto", "tarifa", "pix enviado", "transferencia enviada",
}

// Internal transfer patterns to filter
var InternalTransferPatterns = []string{
	"internal transfer",
	"transferencia entre contas",
	"automatic payment - thank you",
	"aplicacao automatica",
	"resgate automatico",
}

// Overdue status spellings
var OverdueStatuses = []string{
	"vencida", "vencido", "atrasada", "atrasado", "em atraso",
	"overdue", "late", "past due", "past_due", "delinquent",
}

// Active status spellings
var ActiveStatuses = []string{
	"ativa", "ativo", "em dia", "aberta", "pendente",
	"active", "open", "current", "pending",
}

// Paid status spellings
var PaidStatuses = []string{
	"paga", "pago", "quitada", "quitado", "liquidada",
	"paid", "settled", "closed",
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// fold lowercases, trims and strips Portuguese accents
func fold(s string) string {
	return accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeKind maps a raw kind spelling onto a canonical kind.
// The second result is false when the spelling is not recognized.
func NormalizeKind(raw string) (models.TransactionKind, bool) {
	k := fold(raw)
	if k == "" {
		return "", false
	}
	if containsExact(k, InflowKinds) {
		return models.Inflow, true
	}
	if containsExact(k, OutflowKinds) {
		return models.Outflow, true
	}
	return "", false
}

// InferKind classifies a record that arrived without an explicit kind,
// typically a bank CSV export. Negative amounts are outflows; positive
// amounts are inflows only when the description or category looks like income.
func InferKind(description, category string, amount float64) models.TransactionKind {
	descLower := fold(description)
	catLower := fold(category)

	if containsAny(descLower, NeverIncomeKeywords) {
		return models.Outflow
	}
	if amount < 0 {
		return models.Outflow
	}
	if k, ok := NormalizeKind(catLower); ok {
		return k
	}
	if containsAny(descLower, IncomeKeywords) || containsAny(catLower, IncomeKeywords) {
		return models.Inflow
	}
	return models.Outflow
}

// NormalizeStatus maps a raw debt status onto a canonical status.
// Unrecognized spellings are kept lowercased so callers can still inspect them.
func NormalizeStatus(raw string) models.DebtStatus {
	s := fold(raw)
	switch {
	case s == "":
		return models.DebtActive
	case containsExact(s, OverdueStatuses):
		return models.DebtOverdue
	case containsExact(s, ActiveStatuses):
		return models.DebtActive
	case containsExact(s, PaidStatuses):
		return models.DebtPaid
	}
	return models.DebtStatus(s)
}

// IsInternalTransfer checks if a description looks like a movement between
// the holder's own accounts, which would double count cash
func IsInternalTransfer(description string) bool {
	return containsAny(fold(description), InternalTransferPatterns)
}

// containsExact checks if text equals any of the values
func containsExact(text string, values []string) bool {
	for _, v := range values {
		if text == v {
			return true
		}
	}
	return false
}

// containsAny checks if text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
