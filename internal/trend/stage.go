package trend

import (
	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// StageConfig holds tunable thresholds for Weinstein stage classification
type StageConfig struct {
	MinDataPoints        int     // Stage 판정 최소 일봉 수
	VolumeSurgeThreshold float64 // 거래량 급증 판정 배수
	Stage1Confidence     float64 // Stage 1 기본 신뢰도
}

// DefaultStageConfig returns the canonical stage thresholds
func DefaultStageConfig() StageConfig {
	return StageConfig{
		MinDataPoints:        100,
		VolumeSurgeThreshold: 1.5,
		Stage1Confidence:     0.4,
	}
}

// StageClassifier detects the Weinstein market stage from an indicator series.
// Stage is derived per call from the tail of the series, never stored.
type StageClassifier struct {
	config StageConfig
	logger *logger.Logger
}

// NewStageClassifier creates a stage classifier
func NewStageClassifier(config StageConfig, log *logger.Logger) *StageClassifier {
	return &StageClassifier{
		config: config,
		logger: log.Named("stage_classifier"),
	}
}

// Classify runs the 4-stage decision over the series tail.
// Short series degrade to a conservative Stage 1, never an error.
func (c *StageClassifier) Classify(series *contracts.IndicatorSeries) contracts.StageResult {
	if series.Len() < c.config.MinDataPoints {
		c.logger.WithFields(map[string]interface{}{
			"ticker": series.Ticker,
			"bars":   series.Len(),
		}).Warn("Insufficient data for stage classification")
		return contracts.StageResult{
			Stage:      1,
			Confidence: 0.1,
			MA200Trend: contracts.TrendSideways,
		}
	}

	last := series.Last()
	price := last.Close

	// MA200 대비 현재가 위치 (%)
	var priceVsMA200 float64
	ma200, hasMA200 := contracts.FloatVal(last.MA200)
	if hasMA200 && ma200 > 0 {
		priceVsMA200 = (price - ma200) / ma200 * 100
	}

	// 거래량 분석: 당일 / 최근 20일 평균
	volumeSurge := 1.0
	if avg20 := series.MeanVolume(20); avg20 > 0 {
		volumeSurge = last.Volume / avg20
	}

	ma200Trend := c.detectMA200Trend(series)
	stage, confidence := c.decideStage(series, price, ma200Trend, volumeSurge)

	return contracts.StageResult{
		Stage:        stage,
		Confidence:   confidence,
		MA200Trend:   ma200Trend,
		PriceVsMA200: priceVsMA200,
		VolumeSurge:  volumeSurge,
	}
}

// detectMA200Trend determines the long-term trend direction with a cascade of
// fallbacks so a partially-null indicator set still yields a direction.
func (c *StageClassifier) detectMA200Trend(series *contracts.IndicatorSeries) string {
	last := series.Last()
	ma200Now, hasMA200 := contracts.FloatVal(last.MA200)

	// 1차: 20일 전 MA200과 비교
	if past := series.BarsAgo(19); past != nil && hasMA200 {
		if ma200Ago, ok := contracts.FloatVal(past.MA200); ok && ma200Ago > 0 {
			switch {
			case ma200Now > ma200Ago*1.02: // 2% 이상 상승
				return contracts.TrendUp
			case ma200Now < ma200Ago*0.98: // 2% 이상 하락
				return contracts.TrendDown
			default:
				return contracts.TrendSideways
			}
		}
	}

	// 2차: MA120과 비교
	if ma120, ok := contracts.FloatVal(last.MA120); ok && ma120 > 0 && hasMA200 {
		switch {
		case ma200Now > ma120*1.05:
			return contracts.TrendUp
		case ma200Now < ma120*0.95:
			return contracts.TrendDown
		default:
			return contracts.TrendSideways
		}
	}

	// 3차: 최근 20일 가격 추세로 대체
	if r, ok := series.Return(19); ok {
		switch {
		case r > 0.10:
			return contracts.TrendUp
		case r < -0.10:
			return contracts.TrendDown
		default:
			return contracts.TrendSideways
		}
	}

	// 4차: MA60 기준 판정
	if ma60, ok := contracts.FloatVal(last.MA60); ok && ma60 > 0 {
		switch {
		case last.Close > ma60*1.05:
			return contracts.TrendUp
		case last.Close < ma60*0.95:
			return contracts.TrendDown
		default:
			return contracts.TrendSideways
		}
	}

	return contracts.TrendSideways
}

// decideStage applies the stage decision table.
func (c *StageClassifier) decideStage(series *contracts.IndicatorSeries, price float64, ma200Trend string, volumeSurge float64) (int, float64) {
	last := series.Last()
	ma200, hasMA200 := contracts.FloatVal(last.MA200)

	// Stage 2: MA200 위 + 상승 추세
	if hasMA200 && price > ma200 && ma200Trend == contracts.TrendUp {
		confidence := 0.6

		// 거래량 급증 시 신뢰도 증가
		if volumeSurge > c.config.VolumeSurgeThreshold {
			confidence += 0.2
		}

		// 돌파 정도에 따른 신뢰도 조정
		if ma200 > 0 {
			breakoutPct := (price - ma200) / ma200 * 100
			if breakoutPct > 5 {
				confidence += 0.10
			} else if breakoutPct > 2 {
				confidence += 0.05
			}
		}

		// 건전한 RSI 범위 (과매수 아닌 경우)
		if rsi, ok := contracts.FloatVal(last.RSI); ok && rsi >= 40 && rsi <= 70 {
			confidence += 0.05
		}

		if confidence > 1.0 {
			confidence = 1.0
		}
		return 2, confidence
	}

	// Stage 4: MA200 아래 + 하락 추세
	if hasMA200 && price < ma200 && ma200Trend == contracts.TrendDown {
		return 4, 0.7
	}

	// Stage 3: MA200 근처에서 횡보 (고점 근처)
	if ma200Trend == contracts.TrendSideways && hasMA200 && price > ma200*0.95 {
		return 3, 0.5
	}

	// Stage 1: 기본값 (바닥 구축)
	return 1, c.config.Stage1Confidence
}
