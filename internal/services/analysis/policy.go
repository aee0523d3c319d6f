package analysis

import (
	"encoding/json"
	"fmt"
	"os"

	"cashpulse/internal/services/regression"
)

// BalanceTier awards points when the current balance exceeds Above
type BalanceTier struct {
	Above  float64 `json:"above"`
	Points float64 `json:"points"`
}

// DebtTier applies points when debt/balance exceeds RatioAbove
type DebtTier struct {
	RatioAbove float64 `json:"ratio_above"`
	Points     float64 `json:"points"`
}

// Policy holds every heuristic threshold used by the analyzer. The values
// are tuning knobs, not derived quantities.
type Policy struct {
	// Category patterns
	MinPatternMonths   int     `json:"min_pattern_months"`
	TrendSlopeRatio    float64 `json:"trend_slope_ratio"`
	ForecastWindow     int     `json:"forecast_window"`
	VariationMonths    int     `json:"variation_months"`
	FallbackConfidence float64 `json:"fallback_confidence"`
	Estimator          string  `json:"estimator"`
	ForestTrees        int     `json:"forest_trees"`
	Seed               int64   `json:"seed"`

	// Insights
	AnomalyZ             float64 `json:"anomaly_z"`
	AnomalyMinRows       int     `json:"anomaly_min_rows"`
	AnomalyHighCount     int     `json:"anomaly_high_count"`
	LowBalance           float64 `json:"low_balance"`
	HighBalance          float64 `json:"high_balance"`
	DebtRatioAlert       float64 `json:"debt_ratio_alert"`
	DebtRatioOpportunity float64 `json:"debt_ratio_opportunity"`
	SavingsRateHigh      float64 `json:"savings_rate_high"`
	SavingsRateLow       float64 `json:"savings_rate_low"`
	GrowthVariation      float64 `json:"growth_variation"`
	SeasonalMinRows      int     `json:"seasonal_min_rows"`
	SeasonalFactor       float64 `json:"seasonal_factor"`
	SeasonalMaxMonths    int     `json:"seasonal_max_months"`
	MaxInsights          int     `json:"max_insights"`

	// Cash-flow forecast
	ForecastMonths          int     `json:"forecast_months"`
	ForecastMinMonths       int     `json:"forecast_min_months"`
	ForecastGrowthRate      float64 `json:"forecast_growth_rate"`
	ConfidenceStart         float64 `json:"confidence_start"`
	ConfidenceStep          float64 `json:"confidence_step"`
	ConfidenceFloor         float64 `json:"confidence_floor"`
	LegacyCumulativeBalance bool    `json:"legacy_cumulative_balance"`

	// Health score
	HealthBase            float64       `json:"health_base"`
	LiquidityCap          float64       `json:"liquidity_cap"`
	BalanceTiers          []BalanceTier `json:"balance_tiers"`
	NegativeBalancePoints float64       `json:"negative_balance_points"`
	DebtTiers             []DebtTier    `json:"debt_tiers"`
	LowDebtRatio          float64       `json:"low_debt_ratio"`
	LowDebtPoints         float64       `json:"low_debt_points"`
	UnbackedDebtThreshold float64       `json:"unbacked_debt_threshold"`
	UnbackedDebtPoints    float64       `json:"unbacked_debt_points"`
	ConsistencyMax        float64       `json:"consistency_max"`
	ConsistencyWeight     float64       `json:"consistency_weight"`
	TrendWeight           float64       `json:"trend_weight"`

	// Recommendations
	CriticalDebtMultiple  float64 `json:"critical_debt_multiple"`
	HealthCritical        int     `json:"health_critical"`
	HealthFair            int     `json:"health_fair"`
	SurplusMultiple       float64 `json:"surplus_multiple"`
	RisingCategoriesLimit int     `json:"rising_categories_limit"`
	MaxRecommendations    int     `json:"max_recommendations"`
}

// DefaultPolicy returns the stock thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinPatternMonths:   2,
		TrendSlopeRatio:    0.05,
		ForecastWindow:     3,
		VariationMonths:    3,
		FallbackConfidence: 50,
		Estimator:          regression.EstimatorForest,
		ForestTrees:        50,
		Seed:               42,

		AnomalyZ:             2,
		AnomalyMinRows:       10,
		AnomalyHighCount:     3,
		LowBalance:           1000,
		HighBalance:          10000,
		DebtRatioAlert:       200,
		DebtRatioOpportunity: 50,
		SavingsRateHigh:      30,
		SavingsRateLow:       10,
		GrowthVariation:      20,
		SeasonalMinRows:      20,
		SeasonalFactor:       1.3,
		SeasonalMaxMonths:    3,
		MaxInsights:          10,

		ForecastMonths:     6,
		ForecastMinMonths:  6,
		ForecastGrowthRate: 0.02,
		ConfidenceStart:    95,
		ConfidenceStep:     8,
		ConfidenceFloor:    50,

		HealthBase:   50,
		LiquidityCap: 25,
		BalanceTiers: []BalanceTier{
			{Above: 5000, Points: 15},
			{Above: 2000, Points: 10},
			{Above: 500, Points: 5},
		},
		NegativeBalancePoints: -20,
		DebtTiers: []DebtTier{
			{RatioAbove: 5, Points: -30},
			{RatioAbove: 2, Points: -20},
			{RatioAbove: 1, Points: -10},
		},
		LowDebtRatio:          0.5,
		LowDebtPoints:         5,
		UnbackedDebtThreshold: 10000,
		UnbackedDebtPoints:    -25,
		ConsistencyMax:        10,
		ConsistencyWeight:     5,
		TrendWeight:           10,

		CriticalDebtMultiple:  2,
		HealthCritical:        40,
		HealthFair:            70,
		SurplusMultiple:       2,
		RisingCategoriesLimit: 3,
		MaxRecommendations:    6,
	}
}

// LoadPolicy reads a JSON file over the defaults. Keys absent from the file
// keep their default value.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("error reading policy file: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("error parsing policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid policy file %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects settings the algorithms cannot run with
func (p Policy) Validate() error {
	switch {
	case p.MinPatternMonths < 2:
		return fmt.Errorf("min_pattern_months must be at least 2")
	case p.ForecastWindow < 1:
		return fmt.Errorf("forecast_window must be positive")
	case p.VariationMonths < 1:
		return fmt.Errorf("variation_months must be positive")
	case p.ForecastMonths < 0:
		return fmt.Errorf("forecast_months cannot be negative")
	case p.ForestTrees < 1:
		return fmt.Errorf("forest_trees must be positive")
	case p.MaxInsights < 0 || p.MaxRecommendations < 0:
		return fmt.Errorf("list caps cannot be negative")
	}
	if _, err := regression.NewEstimator(p.Estimator, p.ForecastWindow, p.ForestTrees, p.Seed); err != nil {
		return err
	}
	return nil
}
