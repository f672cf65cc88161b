package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wonny/rvscan/internal/brain"
	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/internal/portfolio"
	"github.com/wonny/rvscan/internal/report"
	"github.com/wonny/rvscan/pkg/logger"
)

// ScanRunner starts scans and serves the latest result
type ScanRunner interface {
	Start(ctx context.Context, budget decimal.Decimal) error
	Latest() *brain.RunResult
	Running() bool
}

// ReportHandler handles report and scan endpoints
// ⭐ SSOT: report API handlers live in this struct only
type ReportHandler struct {
	runner        ScanRunner
	defaultBudget string // PORTFOLIO_SIZE, used when the request names none
	scanCtx       context.Context
	logger        *logger.Logger
}

// NewReportHandler creates a new report handler.
// Background scans run under ctx, not under the request that started them.
func NewReportHandler(ctx context.Context, runner ScanRunner, defaultBudget string, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		runner:        runner,
		defaultBudget: defaultBudget,
		scanCtx:       ctx,
		logger:        log,
	}
}

// RunSummary is the JSON view of a run without the per-ticker detail
type RunSummary struct {
	RunID        string                     `json:"run_id"`
	StartedAt    time.Time                  `json:"started_at"`
	DurationMS   int64                      `json:"duration_ms"`
	Universe     int                        `json:"universe"`
	Collected    int                        `json:"collected"`
	Shortlisted  int                        `json:"shortlisted"`
	Dropped      int                        `json:"dropped"`
	Excluded     map[string]string          `json:"excluded"`
	PositionSize string                     `json:"position_size"`
	Invested     string                     `json:"invested"`
	Quality      float64                    `json:"quality_score"`
	Stages       []contracts.PipelineResult `json:"stages"`
}

// ReportResponse is the body of GET /api/report
type ReportResponse struct {
	Run     RunSummary `json:"run"`
	Running bool       `json:"running"`
	Columns []string   `json:"columns"`
	Rows    [][]any    `json:"rows"`
}

// RecordResponse is the body of GET /api/report/{symbol}
type RecordResponse struct {
	RunID  string                  `json:"run_id"`
	Record *contracts.TickerRecord `json:"record"`
	Band   *contracts.PriceBand    `json:"band,omitempty"`
}

// ScanRequest is the body of POST /api/scan
type ScanRequest struct {
	Portfolio string `json:"portfolio"`
}

// GetReport returns the latest shortlist
// GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	result := h.runner.Latest()
	if result == nil {
		respondError(w, http.StatusNotFound, "No scan has completed yet")
		return
	}

	respondJSON(w, http.StatusOK, ReportResponse{
		Run:     summarize(result),
		Running: h.runner.Running(),
		Columns: report.Headers(),
		Rows:    report.Rows(result.Shortlist),
	})
}

// GetRecord returns one shortlisted ticker of the latest run
// GET /api/report/{symbol}
func (h *ReportHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	result := h.runner.Latest()
	if result == nil {
		respondError(w, http.StatusNotFound, "No scan has completed yet")
		return
	}

	for _, rec := range result.Shortlist {
		if rec.Symbol == symbol {
			respondJSON(w, http.StatusOK, RecordResponse{
				RunID:  result.RunID,
				Record: rec,
				Band:   result.Bands[symbol],
			})
			return
		}
	}

	respondError(w, http.StatusNotFound, "Symbol not in the latest shortlist")
}

// StartScan triggers a background scan
// POST /api/scan
func (h *ReportHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount := strings.TrimSpace(req.Portfolio)
	if amount == "" {
		amount = h.defaultBudget
	}

	budget, err := portfolio.ParseBudget(amount)
	if errors.Is(err, portfolio.ErrNotANumber) {
		respondError(w, http.StatusBadRequest, "portfolio must be a number")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "portfolio must be positive")
		return
	}

	if err := h.runner.Start(h.scanCtx, budget); err != nil {
		if errors.Is(err, brain.ErrRunInProgress) {
			respondError(w, http.StatusConflict, "A scan is already running")
			return
		}
		h.logger.WithError(err).Error("Failed to start scan")
		respondError(w, http.StatusInternalServerError, "Failed to start scan")
		return
	}

	h.logger.WithField("portfolio", budget.String()).Info("Scan triggered")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":    "accepted",
		"portfolio": budget.String(),
	})
}

func summarize(result *brain.RunResult) RunSummary {
	s := RunSummary{
		RunID:        result.RunID,
		StartedAt:    result.StartedAt,
		DurationMS:   result.Duration.Milliseconds(),
		Collected:    result.Collected,
		Shortlisted:  len(result.Shortlist),
		Dropped:      len(result.Dropped),
		Excluded:     result.Excluded,
		PositionSize: result.PositionSize.StringFixed(2),
		Stages:       result.Stages,
	}
	if result.Universe != nil {
		s.Universe = result.Universe.Count()
	}
	if result.Allocation != nil {
		s.Invested = result.Allocation.Invested().StringFixed(2)
	}
	if result.Quality != nil {
		s.Quality = result.Quality.QualityScore
	}
	return s
}
