package analysis

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	httputil "cashpulse/internal/http"
	"cashpulse/internal/models"
	analyzer "cashpulse/internal/services/analysis"
	"cashpulse/internal/services/dataloader"
	"cashpulse/internal/version"
)

const healthMessage = "Cash-flow analysis service is running"

var (
	engine       *analyzer.Analyzer
	logger       *logrus.Logger
	maxBodyBytes int64 = 10 << 20
)

// Initialize sets up the analysis package with required dependencies
func Initialize(a *analyzer.Analyzer, l *logrus.Logger, maxBody int64) {
	engine = a
	logger = l
	if maxBody > 0 {
		maxBodyBytes = maxBody
	}
}

// RegisterRoutes registers the analysis and health routes
func RegisterRoutes(r chi.Router) {
	r.Get("/health", handleHealth)
	r.Get("/api/health", handleHealth)
	r.Post("/api/analyze", handleAnalyze)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.JSONResponse(w, map[string]string{
		"status":  "ok",
		"message": healthMessage,
		"version": version.Get().Short(),
	}, http.StatusOK)
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set("X-Analysis-ID", id)
	log := logger.WithField("analysis_id", id)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := dataloader.DecodeRequest(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.WithError(err).Warn("Request body too large")
			httputil.ErrorResponse(w, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		log.WithError(err).Warn("Malformed request body")
		httputil.ErrorResponse(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := runAnalysis(id, req)
	if err != nil {
		if errors.Is(err, dataloader.ErrInvalidInput) {
			log.WithError(err).Warn("Invalid ledger")
			httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("Analysis failed")
		httputil.ErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httputil.JSONResponse(w, report, http.StatusOK)
}

// runAnalysis converts a panic inside the pipeline into an error so the
// caller still receives a JSON body
func runAnalysis(id string, req *models.AnalysisRequest) (report *models.Report, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			report = nil
			err = fmt.Errorf("analysis panicked: %v", rec)
		}
	}()
	return engine.AnalyzeWithID(id, req)
}
