package scoring

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/internal/trend"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// defaultBatchConcurrency bounds parallel per-ticker analysis
const defaultBatchConcurrency = 8

// Engine is the composite technical scoring engine. It combines the five
// sub-analyzers into a weighted 0-100 score with grade and recommendation.
// Analyze is deterministic: the same series yields bit-identical results.
// ⭐ SSOT: 종합 점수 산출은 여기서만
type Engine struct {
	config     Config
	stage      *trend.StageClassifier
	alignment  *trend.AlignmentScorer
	volume     *trend.VolumeDetector
	momentum   *trend.MomentumScorer
	rater      contracts.RelativeStrengthRater
	logger     *logger.Logger
	batchLimit int
}

// NewEngine creates a scoring engine. Config violations fail construction;
// nothing else does.
func NewEngine(cfg Config, rater contracts.RelativeStrengthRater, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	if rater == nil {
		return nil, ConfigurationError{Field: "rater", Message: "relative strength rater is required"}
	}

	return &Engine{
		config:     cfg,
		stage:      trend.NewStageClassifier(trend.DefaultStageConfig(), log),
		alignment:  trend.NewAlignmentScorer(log),
		volume:     trend.NewVolumeDetector(trend.DefaultVolumeConfig(), log),
		momentum:   trend.NewMomentumScorer(log),
		rater:      rater,
		logger:     log.Named("scoring_engine"),
		batchLimit: defaultBatchConcurrency,
	}, nil
}

// Analyze scores a single ticker. Data-quality problems degrade to
// conservative defaults; the returned result is always well-formed.
func (e *Engine) Analyze(ctx context.Context, ticker string, series *contracts.IndicatorSeries) *contracts.ScoringResult {
	// 1. 필수 조건 검사
	if reasons := e.checkMandatory(series); len(reasons) > 0 {
		e.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"reasons": reasons,
		}).Info("Mandatory conditions failed")
		return failedResult(ticker, reasons)
	}

	// 2. 개별 점수 계산 (0.0 ~ 1.0)
	stageResult := e.stage.Classify(series)
	stageScore := stageBase(stageResult.Stage) * stageResult.Confidence
	maScore := e.alignment.Score(series)
	rsResult := e.rater.Rate(ctx, ticker, series)
	rsScore := rsScoreFor(rsResult)
	volumeScore := e.volume.Score(series)
	momentumScore := e.momentum.Score(series)

	// 3. 가중 총점 (0-100)
	totalScore := (stageScore*e.config.StageWeight +
		maScore*e.config.MAWeight +
		rsScore*e.config.RSWeight +
		volumeScore*e.config.VolumeWeight +
		momentumScore*e.config.MomentumWeight) * 100

	// 4. 등급/판정
	grade := gradeFor(totalScore)
	recommendation, confidence := e.recommendationFor(totalScore)
	passed := totalScore >= e.config.PassThreshold

	// 5. 강점/약점/리스크
	strengths, weaknesses, risks := buildNarrative(series, subScores{
		Stage:    stageScore,
		MA:       maScore,
		RS:       rsScore,
		Volume:   volumeScore,
		Momentum: momentumScore,
	})

	result := &contracts.ScoringResult{
		Ticker:           ticker,
		MandatoryPassed:  true,
		MandatoryReasons: []string{},

		StageScore:       stageScore * 25,
		MAAlignmentScore: maScore * 20,
		RSRatingScore:    rsScore * 25,
		VolumeScore:      volumeScore * 15,
		MomentumScore:    momentumScore * 15,

		TotalScore: totalScore,
		Grade:      grade,
		Percentile: percentileFor(totalScore),

		Passed:         passed,
		Recommendation: recommendation,
		Confidence:     confidence,

		Strengths:   strengths,
		Weaknesses:  weaknesses,
		RiskFactors: risks,
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker":         ticker,
		"total_score":    totalScore,
		"grade":          grade,
		"recommendation": recommendation,
	}).Info("Ticker scored")

	return result
}

// AnalyzeBatch scores every requested ticker concurrently and returns exactly
// one result per ticker. Individual failures never drop a ticker.
func (e *Engine) AnalyzeBatch(ctx context.Context, items []contracts.TickerSeries) map[string]*contracts.ScoringResult {
	results := make(map[string]*contracts.ScoringResult, len(items))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.batchLimit)

	for _, item := range items {
		g.Go(func() error {
			result := e.Analyze(gctx, item.Ticker, item.Series)

			mu.Lock()
			results[item.Ticker] = result
			mu.Unlock()
			return nil
		})
	}

	// Analyze never returns an error, so Wait cannot fail
	_ = g.Wait()

	return results
}

// checkMandatory returns failure reasons, empty when all gates pass.
func (e *Engine) checkMandatory(series *contracts.IndicatorSeries) []string {
	var reasons []string

	// 1. 최소 데이터 기간
	if series.Len() < e.config.MandatoryMinDataDays {
		reasons = append(reasons, fmt.Sprintf("데이터 부족 (%d일 < %d일)",
			series.Len(), e.config.MandatoryMinDataDays))
	}

	// 2. 최소 거래량
	avgVolume := series.MeanVolume(0)
	if avgVolume < e.config.MandatoryMinVolume {
		reasons = append(reasons, fmt.Sprintf("거래량 부족 (평균 %.0f < %.0f)",
			avgVolume, e.config.MandatoryMinVolume))
	}

	// 3. 가격 범위
	if last := series.Last(); last != nil && last.Close > e.config.MandatoryMaxPrice {
		reasons = append(reasons, fmt.Sprintf("가격 과도 (%.0f원 > %.0f원)",
			last.Close, e.config.MandatoryMaxPrice))
	}

	return reasons
}

// recommendationFor maps the total score to a verdict with fixed confidence.
func (e *Engine) recommendationFor(score float64) (contracts.Recommendation, float64) {
	switch {
	case score >= e.config.StrongBuyThreshold:
		return contracts.RecommendationStrongBuy, 0.9
	case score >= e.config.BuyThreshold:
		return contracts.RecommendationBuy, 0.8
	case score >= e.config.PassThreshold:
		return contracts.RecommendationHold, 0.6
	default:
		return contracts.RecommendationAvoid, 0.4
	}
}

// stageBase maps a Weinstein stage to its base score before confidence.
func stageBase(stage int) float64 {
	switch stage {
	case 4:
		return 1.0
	case 3:
		return 0.8
	case 2:
		return 0.6
	default:
		return 0.2
	}
}

// rsScoreFor converts an RS rating to the [0,1] sub-score.
func rsScoreFor(result contracts.RSResult) float64 {
	var score float64
	switch {
	case result.Rating >= 90:
		score = 1.0
	case result.Rating >= 80:
		score = 0.8
	case result.Rating >= 70:
		score = 0.6
	case result.Rating >= 50:
		score = 0.4
	default:
		score = 0.1
	}

	// 52주 고점 근접 보너스
	if result.High52WProximity {
		score += 0.1
		if score > 1.0 {
			score = 1.0
		}
	}

	return score
}

// gradeFor maps a total score to a letter grade. F is reserved for
// mandatory-gate failures.
func gradeFor(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C+"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}

// percentileFor approximates the market percentile from the total score.
// TODO: 전체 시장 분포 기반 백분위로 교체 (scoring_results 누적 후)
func percentileFor(score float64) float64 {
	if score > 100 {
		return 100
	}
	return score
}

// failedResult builds the fixed result shape for mandatory-gate failures.
func failedResult(ticker string, reasons []string) *contracts.ScoringResult {
	return &contracts.ScoringResult{
		Ticker:           ticker,
		MandatoryPassed:  false,
		MandatoryReasons: reasons,
		TotalScore:       0,
		Grade:            "F",
		Percentile:       0,
		Passed:           false,
		Recommendation:   contracts.RecommendationAvoid,
		Confidence:       0.9,
		Strengths:        []string{},
		Weaknesses:       reasons,
		RiskFactors:      []string{},
	}
}
