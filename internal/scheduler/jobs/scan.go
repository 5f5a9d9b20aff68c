package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/internal/scoring"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// scanLookbackDays covers MA200 plus the 52-week relative-strength window.
const scanLookbackDays = 300

// ScanJob scores every active ticker and persists the run results
type ScanJob struct {
	repo     contracts.OHLCVRepository
	results  contracts.ResultRepository
	engine   *scoring.Engine
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates a market scan job
func NewScanJob(
	repo contracts.OHLCVRepository,
	results contracts.ResultRepository,
	engine *scoring.Engine,
	schedule string,
	log *logger.Logger,
) *ScanJob {
	return &ScanJob{
		repo:     repo,
		results:  results,
		engine:   engine,
		schedule: schedule,
		logger:   log.Named("scan_job"),
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron schedule (기본: 매일 22:30 KST, 수집 완료 후)
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run scores all active tickers as a single run
func (j *ScanJob) Run(ctx context.Context) error {
	tickers, err := j.repo.ActiveTickers(ctx)
	if err != nil {
		return fmt.Errorf("list active tickers: %w", err)
	}
	if len(tickers) == 0 {
		j.logger.Warn("No active tickers to scan")
		return nil
	}

	// 시리즈 로딩 실패도 결과에 포함 (빈 시리즈 → 필수 조건 탈락)
	items := make([]contracts.TickerSeries, 0, len(tickers))
	for _, ticker := range tickers {
		series, err := j.repo.GetSeries(ctx, ticker, scanLookbackDays)
		if err != nil {
			j.logger.WithField("ticker", ticker).WithError(err).Warn("Failed to load series")
			series = &contracts.IndicatorSeries{Ticker: ticker}
		}
		items = append(items, contracts.TickerSeries{Ticker: ticker, Series: series})
	}

	results := j.engine.AnalyzeBatch(ctx, items)

	runID := uuid.NewString()
	if err := j.results.SaveResults(ctx, runID, results); err != nil {
		return fmt.Errorf("save scan results: %w", err)
	}

	passed := 0
	var totalScore float64
	for _, result := range results {
		if result.Passed {
			passed++
		}
		totalScore += result.TotalScore
	}

	avgScore := 0.0
	if len(results) > 0 {
		avgScore = totalScore / float64(len(results))
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"scanned":   len(results),
		"passed":    passed,
		"avg_score": fmt.Sprintf("%.1f", avgScore),
	}).Info("Daily scan completed")

	return nil
}
