package models

// Trend classifies the month-over-month direction of a category's spending
type Trend string

const (
	TrendRising  Trend = "crescente"
	TrendFalling Trend = "decrescente"
	TrendStable  Trend = "estavel"
)

// CategoryPattern summarizes the monthly spending of one outflow category
type CategoryPattern struct {
	Category          string  `json:"categoria"`
	AverageMonthly    float64 `json:"mediaGastoMensal"`
	Trend             Trend   `json:"tendencia"`
	Variation         float64 `json:"variacao"`
	NextMonthForecast float64 `json:"previsaoProximoMes"`
	Confidence        float64 `json:"confianca"`
	StdDev            float64 `json:"desvio_padrao"`
}

// InsightKind is the family an insight belongs to
type InsightKind string

const (
	InsightAlert       InsightKind = "alerta"
	InsightOpportunity InsightKind = "oportunidade"
	InsightForecast    InsightKind = "previsao"
)

// Impact ranks how much an insight matters
type Impact string

const (
	ImpactHigh   Impact = "alto"
	ImpactMedium Impact = "medio"
)

// Insight is a single natural-language finding
type Insight struct {
	ID          string      `json:"id"`
	Kind        InsightKind `json:"tipo"`
	Title       string      `json:"titulo"`
	Description string      `json:"descricao"`
	Impact      Impact      `json:"impacto"`
	Amount      *float64    `json:"valor,omitempty"`
	Category    string      `json:"categoria,omitempty"`
	Icon        string      `json:"icon"`
	Color       string      `json:"cor"`
}

// ForecastPoint is one month of the projected cash flow
type ForecastPoint struct {
	Month      string  `json:"mes"`
	Inflow     float64 `json:"previsaoEntrada"`
	Outflow    float64 `json:"previsaoSaida"`
	Balance    float64 `json:"saldoPrevisto"`
	Confidence float64 `json:"confianca"`
}

// BehaviorProfile holds descriptive spending statistics
type BehaviorProfile struct {
	PeakWeekday      string  `json:"diaMaisGastos"`
	MostActiveTime   string  `json:"horarioMaisAtivo"`
	DominantCategory string  `json:"categoriaDominante"`
	Seasonal         bool    `json:"padraoSazonal"`
	Efficiency       float64 `json:"eficienciaFinanceira"`
}

// Report is the complete result of one analysis
type Report struct {
	Patterns        []CategoryPattern `json:"padroesPorCategoria"`
	Insights        []Insight         `json:"insights"`
	Forecast        []ForecastPoint   `json:"previsaoFluxoCaixa"`
	Behavior        BehaviorProfile   `json:"analiseComportamento"`
	HealthScore     int               `json:"saudeFinanceira"`
	Recommendations []string          `json:"recomendacoes"`
	Success         bool              `json:"sucesso"`
}

// EnsureLists replaces nil slices with empty ones so they encode as []
func (r *Report) EnsureLists() {
	if r.Patterns == nil {
		r.Patterns = []CategoryPattern{}
	}
	if r.Insights == nil {
		r.Insights = []Insight{}
	}
	if r.Forecast == nil {
		r.Forecast = []ForecastPoint{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
}

// AnalysisRequest is the raw request body. Records stay loosely typed until
// the data loader normalizes them.
type AnalysisRequest struct {
	Transactions   []map[string]any `json:"transacoes"`
	Debts          []map[string]any `json:"dividas"`
	CurrentBalance float64          `json:"saldo_atual"`
	TotalDebt      *float64         `json:"total_dividas,omitempty"`
}

// ErrorResponse is returned when an analysis cannot be produced
type ErrorResponse struct {
	Success bool   `json:"sucesso"`
	Error   string `json:"erro"`
}
