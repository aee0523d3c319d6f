package analysis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Catalog holds the user-facing copy for one locale. Templates use fmt verbs.
type Catalog struct {
	Locale            string
	Weekdays          [7]string // Monday first
	Months            [12]string
	NotAvailable      string
	DefaultActiveTime string
	MoneyFormat       string

	AnomalyTitle           string
	AnomalyDescription     string
	LowBalanceTitle        string
	LowBalanceDescription  string
	HighBalanceTitle       string
	HighBalanceDescription string
	OverdueTitle           string
	OverdueDescription     string
	DebtRatioHighTitle     string
	DebtRatioHighDesc      string
	DebtRatioLowTitle      string
	DebtRatioLowDesc       string
	SavingsHighTitle       string
	SavingsHighDescription string
	SavingsLowTitle        string
	SavingsLowDescription  string
	GrowthTitle            string
	GrowthDescription      string
	SeasonalTitle          string
	SeasonalDescription    string

	RecCriticalDebt     [2]string
	RecCriticalHealth   [2]string
	RecMonitor          [2]string
	RecHealthy          string
	RecSurplus          string
	RecManyRising       string
	RecEmergencyReserve string
}

// Money formats an amount with two decimals
func (c *Catalog) Money(v float64) string {
	return fmt.Sprintf(c.MoneyFormat, decimal.NewFromFloat(v).StringFixed(2))
}

// PortugueseBR is the default catalog, matching the existing front end
var PortugueseBR = Catalog{
	Locale:            "pt-BR",
	Weekdays:          [7]string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"},
	Months:            [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"},
	NotAvailable:      "N/A",
	DefaultActiveTime: "Manhã",
	MoneyFormat:       "R$ %s",

	AnomalyTitle:           "%d transação(ões) anômala(s) detectada(s)",
	AnomalyDescription:     "Valores significativamente acima do padrão. Média: %s",
	LowBalanceTitle:        "Saldo em caixa crítico",
	LowBalanceDescription:  "Seu saldo atual de %s está muito baixo. Priorize entradas.",
	HighBalanceTitle:       "Saldo saudável em caixa",
	HighBalanceDescription: "Saldo de %s. Considere investir o excedente.",
	OverdueTitle:           "%d dívida(s) vencida(s)",
	OverdueDescription:     "Total de %s em atraso. Priorize pagamentos imediatamente.",
	DebtRatioHighTitle:     "Dívidas excedem saldo em caixa",
	DebtRatioHighDesc:      "Suas dívidas são %.0f%% do seu saldo. Risco financeiro alto.",
	DebtRatioLowTitle:      "Dívidas sob controle",
	DebtRatioLowDesc:       "Suas dívidas representam apenas %.0f%% do saldo. Boa gestão!",
	SavingsHighTitle:       "Excelente taxa de economia",
	SavingsHighDescription: "Você está economizando %.1f%% das receitas. Continue assim!",
	SavingsLowTitle:        "Taxa de economia baixa",
	SavingsLowDescription:  "Apenas %.1f%% de economia. Reduza saídas não essenciais.",
	GrowthTitle:            "%s em forte expansão",
	GrowthDescription:      "Crescimento de %.1f%%. Previsão: %s",
	SeasonalTitle:          "Padrão sazonal detectado",
	SeasonalDescription:    "Meses com saídas elevadas: %s. Reserve caixa para esses períodos.",

	RecCriticalDebt: [2]string{
		"🚨 Dívidas críticas! Priorize quitação de débitos vencidos.",
		"💡 Renegocie prazos e busque reduzir juros.",
	},
	RecCriticalHealth: [2]string{
		"📉 Saúde financeira crítica. Reduza saídas imediatas.",
		"💰 Foque em aumentar entradas e controlar fluxo de caixa.",
	},
	RecMonitor: [2]string{
		"📊 Monitore categorias com maior crescimento de saídas.",
		"🎯 Busque equilibrar entradas e saídas mensais.",
	},
	RecHealthy:          "✅ Ótima gestão financeira! Continue monitorando o caixa.",
	RecSurplus:          "💎 Considere quitar dívidas antecipadamente ou investir excedente.",
	RecManyRising:       "📈 Múltiplas categorias crescendo. Avalie sustentabilidade.",
	RecEmergencyReserve: "💼 Mantenha reserva de emergência (3 meses de gastos).",
}

// English mirrors PortugueseBR for English-speaking clients
var English = Catalog{
	Locale:            "en",
	Weekdays:          [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	Months:            [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	NotAvailable:      "N/A",
	DefaultActiveTime: "Morning",
	MoneyFormat:       "R$ %s",

	AnomalyTitle:           "%d anomalous transaction(s) detected",
	AnomalyDescription:     "Amounts well above the usual pattern. Average: %s",
	LowBalanceTitle:        "Critical cash balance",
	LowBalanceDescription:  "Your current balance of %s is very low. Prioritize inflows.",
	HighBalanceTitle:       "Healthy cash balance",
	HighBalanceDescription: "Balance of %s. Consider investing the surplus.",
	OverdueTitle:           "%d overdue debt(s)",
	OverdueDescription:     "%s past due. Prioritize these payments now.",
	DebtRatioHighTitle:     "Debts exceed cash balance",
	DebtRatioHighDesc:      "Your debts are %.0f%% of your balance. High financial risk.",
	DebtRatioLowTitle:      "Debts under control",
	DebtRatioLowDesc:       "Your debts are only %.0f%% of your balance. Well managed!",
	SavingsHighTitle:       "Excellent savings rate",
	SavingsHighDescription: "You are keeping %.1f%% of your inflows. Keep it up!",
	SavingsLowTitle:        "Low savings rate",
	SavingsLowDescription:  "Only %.1f%% saved. Cut non-essential outflows.",
	GrowthTitle:            "%s growing fast",
	GrowthDescription:      "Growth of %.1f%%. Forecast: %s",
	SeasonalTitle:          "Seasonal pattern detected",
	SeasonalDescription:    "Months with high outflows: %s. Set cash aside for them.",

	RecCriticalDebt: [2]string{
		"🚨 Critical debt! Pay off overdue obligations first.",
		"💡 Renegotiate terms and look for lower interest.",
	},
	RecCriticalHealth: [2]string{
		"📉 Critical financial health. Cut outflows right away.",
		"💰 Focus on raising inflows and controlling cash flow.",
	},
	RecMonitor: [2]string{
		"📊 Watch the categories whose outflows grow fastest.",
		"🎯 Aim to balance monthly inflows and outflows.",
	},
	RecHealthy:          "✅ Great financial management! Keep monitoring your cash.",
	RecSurplus:          "💎 Consider prepaying debts or investing the surplus.",
	RecManyRising:       "📈 Several categories are growing. Check they are sustainable.",
	RecEmergencyReserve: "💼 Keep an emergency reserve (3 months of spending).",
}

// CatalogFor returns the catalog for a locale tag. An empty tag selects
// Portuguese.
func CatalogFor(locale string) (*Catalog, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "pt", "pt-br", "pt_br":
		c := PortugueseBR
		return &c, nil
	case "en", "en-us", "en_us", "en-gb":
		c := English
		return &c, nil
	}
	return nil, fmt.Errorf("unsupported locale %q", locale)
}
