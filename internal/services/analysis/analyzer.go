// Package analysis turns a cash ledger into a financial-health report:
// category patterns, insights, a cash-flow forecast, a health score, a
// behavior profile and recommendations.
package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cashpulse/internal/logging"
	"cashpulse/internal/models"
	"cashpulse/internal/services/dataloader"
	"cashpulse/internal/services/metrics"
	"cashpulse/internal/services/regression"
)

// Analyzer runs the full pipeline. It holds only immutable configuration,
// so one instance can serve concurrent requests.
type Analyzer struct {
	policy    Policy
	catalog   *Catalog
	logger    *logrus.Logger
	clock     func() time.Time
	metrics   *metrics.Service
	estimator regression.Estimator
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithPolicy overrides the default thresholds
func WithPolicy(p Policy) Option {
	return func(a *Analyzer) {
		a.policy = p
	}
}

// WithCatalog selects the user-facing copy
func WithCatalog(c *Catalog) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.catalog = c
		}
	}
}

// WithLogger sets the logger used for analysis summaries
func WithLogger(l *logrus.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock sets the time source used to label forecast months
func WithClock(clock func() time.Time) Option {
	return func(a *Analyzer) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// New creates an Analyzer
func New(opts ...Option) (*Analyzer, error) {
	pt := PortugueseBR
	a := &Analyzer{
		policy:  DefaultPolicy(),
		catalog: &pt,
		logger:  logging.Discard(),
		clock:   time.Now,
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	est, err := regression.NewEstimator(a.policy.Estimator, a.policy.ForecastWindow, a.policy.ForestTrees, a.policy.Seed)
	if err != nil {
		return nil, err
	}
	a.estimator = est
	return a, nil
}

// Policy returns the thresholds in use
func (a *Analyzer) Policy() Policy {
	return a.policy
}

// Analyze runs the pipeline under a fresh analysis id
func (a *Analyzer) Analyze(req *models.AnalysisRequest) (*models.Report, error) {
	return a.AnalyzeWithID(uuid.NewString(), req)
}

// AnalyzeWithID runs the pipeline and tags the summary log line with id.
// Malformed records fail the whole request with an error wrapping
// dataloader.ErrInvalidInput; no partial report is returned.
func (a *Analyzer) AnalyzeWithID(id string, req *models.AnalysisRequest) (*models.Report, error) {
	if req == nil {
		req = &models.AnalysisRequest{}
	}
	start := time.Now()

	ts, debts, err := dataloader.Prepare(req.Transactions, req.Debts)
	if err != nil {
		return nil, err
	}

	balance := metrics.Finite(req.CurrentBalance)
	totalDebt := debts.TotalRemaining()
	if req.TotalDebt != nil {
		totalDebt = metrics.Finite(*req.TotalDebt)
	}

	cashFlow := a.metrics.CalculateCashFlow(ts)
	patterns := a.analyzePatterns(ts)
	insights := a.generateInsights(ts, cashFlow, patterns, balance, totalDebt, debts)
	forecast := a.forecastCashFlow(ts)
	health := a.scoreHealth(ts, cashFlow, patterns, balance, totalDebt)
	behavior := a.profileBehavior(ts, cashFlow)
	recommendations := a.recommend(health.Score, patterns, balance, totalDebt)

	report := &models.Report{
		Patterns:        patterns,
		Insights:        insights,
		Forecast:        forecast,
		Behavior:        behavior,
		HealthScore:     health.Score,
		Recommendations: recommendations,
		Success:         true,
	}
	report.EnsureLists()

	a.logger.WithFields(logrus.Fields{
		"analysis_id":  id,
		"transactions": ts.Len(),
		"debts":        debts.Len(),
		"patterns":     len(report.Patterns),
		"insights":     len(report.Insights),
		"forecast":     len(report.Forecast),
		"score":        report.HealthScore,
		"estimator":    a.estimator.Name(),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Analysis complete")
	a.logger.WithFields(health.fields()).WithField("analysis_id", id).Debug("Health score factors")

	return report, nil
}
