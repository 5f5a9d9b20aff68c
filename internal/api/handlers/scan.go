package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/internal/data"
	"github.com/jsj9346/makenaide/internal/scoring"
	"github.com/jsj9346/makenaide/pkg/logger"
)

const (
	defaultResultLimit = 50
	maxResultLimit     = 500

	// 분석에 필요한 최대 이력 (MA200 + 52주 수익률)
	analyzeLookbackDays = 300
)

// ScanHandler handles scan result and on-demand analysis endpoints
// ⭐ SSOT: 스캔 API 핸들러는 이 구조체에서만
type ScanHandler struct {
	results *data.ResultRepository
	ohlcv   contracts.OHLCVRepository
	engine  *scoring.Engine
	logger  *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(
	results *data.ResultRepository,
	ohlcv contracts.OHLCVRepository,
	engine *scoring.Engine,
	log *logger.Logger,
) *ScanHandler {
	return &ScanHandler{
		results: results,
		ohlcv:   ohlcv,
		engine:  engine,
		logger:  log,
	}
}

// GetResults returns the latest scan run results, best score first
// GET /api/results?limit=50
func (h *ScanHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected positive integer)")
			return
		}
		if parsed > maxResultLimit {
			parsed = maxResultLimit
		}
		limit = parsed
	}

	rows, err := h.results.LatestResults(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest results")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scan results")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(rows),
		"results": rows,
	})
}

// AnalyzeRequest represents an on-demand analysis request
type AnalyzeRequest struct {
	Ticker string `json:"ticker"` // e.g. "KRW-BTC"
}

// Analyze scores a single ticker on demand (no persistence)
// POST /api/analyze
func (h *ScanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Field 'ticker' is required")
		return
	}

	series, err := h.ohlcv.GetSeries(ctx, ticker, analyzeLookbackDays)
	if err != nil {
		h.logger.WithField("ticker", ticker).WithError(err).Error("Failed to load series")
		respondError(w, http.StatusInternalServerError, "Failed to load price data")
		return
	}
	if series.Len() == 0 {
		respondError(w, http.StatusNotFound, "No price data for ticker")
		return
	}

	result := h.engine.Analyze(ctx, ticker, series)
	respondJSON(w, http.StatusOK, result)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
