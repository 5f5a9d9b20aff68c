package scoring

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/config"
	"github.com/jsj9346/makenaide/pkg/logger"
)

type stubRater struct {
	result contracts.RSResult
}

func (r stubRater) Rate(ctx context.Context, ticker string, series *contracts.IndicatorSeries) contracts.RSResult {
	return r.result
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func newTestEngine(t *testing.T, rs contracts.RSResult) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), stubRater{result: rs}, testLogger())
	require.NoError(t, err)
	return engine
}

// flatSeries builds n bars with constant close and volume, no indicators.
func flatSeries(ticker string, n int, close, volume float64) *contracts.IndicatorSeries {
	bars := make([]contracts.Bar, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   close,
			High:   close,
			Low:    close,
			Close:  close,
			Volume: volume,
		}
	}
	return &contracts.IndicatorSeries{Ticker: ticker, Bars: bars}
}

// strongSeries builds a 250-bar series that passes every gate and scores high:
// 상승 스테이지, 완전 정배열, 거래량 급증.
func strongSeries(ticker string) *contracts.IndicatorSeries {
	series := flatSeries(ticker, 250, 100, 2_000_000)
	last := &series.Bars[249]
	last.Close = 120
	last.High = 120
	last.Volume = 6_000_000
	last.MA5 = contracts.FloatPtr(115)
	last.MA20 = contracts.FloatPtr(110)
	last.MA60 = contracts.FloatPtr(105)
	last.MA120 = contracts.FloatPtr(102)
	last.MA200 = contracts.FloatPtr(100)
	last.RSI = contracts.FloatPtr(65)
	series.Bars[249-19].MA200 = contracts.FloatPtr(97)
	series.Bars[249-9].MA20 = contracts.FloatPtr(100)
	return series
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StageWeight = 0.9

	_, err := NewEngine(cfg, stubRater{}, testLogger())
	assert.Error(t, err)
}

func TestNewEngine_RequiresRater(t *testing.T) {
	_, err := NewEngine(DefaultConfig(), nil, testLogger())
	assert.Error(t, err)
}

func TestEngine_MandatoryGateShortSeries(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 80})

	series := flatSeries("KRW-BTC", 50, 100, 2_000_000)
	result := engine.Analyze(context.Background(), "KRW-BTC", series)

	assert.False(t, result.MandatoryPassed)
	assert.Equal(t, "F", result.Grade)
	assert.Equal(t, contracts.RecommendationAvoid, result.Recommendation)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Zero(t, result.TotalScore)
	assert.Zero(t, result.StageScore)
	assert.False(t, result.Passed)
	require.Len(t, result.MandatoryReasons, 1)
	assert.Contains(t, result.MandatoryReasons[0], "데이터 부족")
	assert.Equal(t, result.MandatoryReasons, result.Weaknesses)
}

func TestEngine_MandatoryGateLowVolume(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 80})

	series := flatSeries("KRW-XYZ", 150, 100, 500)
	result := engine.Analyze(context.Background(), "KRW-XYZ", series)

	assert.False(t, result.MandatoryPassed)
	require.Len(t, result.MandatoryReasons, 1)
	assert.Contains(t, result.MandatoryReasons[0], "거래량 부족")
}

func TestEngine_MandatoryGateExcessivePrice(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 80})

	series := flatSeries("KRW-BTC", 150, 2_000_000, 2_000_000)
	result := engine.Analyze(context.Background(), "KRW-BTC", series)

	assert.False(t, result.MandatoryPassed)
	require.Len(t, result.MandatoryReasons, 1)
	assert.Contains(t, result.MandatoryReasons[0], "가격 과도")
}

func TestEngine_MandatoryGateAccumulatesReasons(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 80})

	// 짧고, 거래량 없고, 과도한 가격
	series := flatSeries("KRW-BAD", 30, 5_000_000, 10)
	result := engine.Analyze(context.Background(), "KRW-BAD", series)

	assert.False(t, result.MandatoryPassed)
	assert.Len(t, result.MandatoryReasons, 3)
}

func TestEngine_StrongTickerScoring(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 99, High52WProximity: true})

	series := strongSeries("KRW-BTC")
	result := engine.Analyze(context.Background(), "KRW-BTC", series)

	require.True(t, result.MandatoryPassed)

	// Stage 2 신뢰도 0.95 → 0.6*0.95 = 0.57 → 14.25/25
	assert.InDelta(t, 14.25, result.StageScore, 1e-9)
	// 완전 정배열 + 기울기 보너스 → 1.0 → 20/20
	assert.InDelta(t, 20.0, result.MAAlignmentScore, 1e-9)
	// RS 99 + 고점 근접 → 1.0 → 25/25
	assert.InDelta(t, 25.0, result.RSRatingScore, 1e-9)
	// spike 0.4 + 추세 0.2 + 기본 0.3 → 0.9 → 13.5/15
	assert.InDelta(t, 13.5, result.VolumeScore, 1e-9)
	// RSI 0.4 + 5일 0.3 + 20일 0.3 → 1.0 → 15/15
	assert.InDelta(t, 15.0, result.MomentumScore, 1e-9)

	assert.InDelta(t, 87.75, result.TotalScore, 1e-9)
	assert.Equal(t, "B+", result.Grade)
	assert.Equal(t, contracts.RecommendationBuy, result.Recommendation)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.True(t, result.Passed)
	assert.InDelta(t, 87.75, result.Percentile, 1e-9)

	// 정성 분석: 이평선/상대강도/거래량/모멘텀 강점, 약점 없음
	assert.Len(t, result.Strengths, 4)
	assert.Empty(t, result.Weaknesses)
	// 5일 수익률 +20% → 단기 급등 리스크
	require.Len(t, result.RiskFactors, 1)
	assert.True(t, strings.Contains(result.RiskFactors[0], "급등"))
}

func TestEngine_Deterministic(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 85})

	series := strongSeries("KRW-BTC")
	first := engine.Analyze(context.Background(), "KRW-BTC", series)
	second := engine.Analyze(context.Background(), "KRW-BTC", series)

	require.Equal(t, first, second)
}

func TestEngine_WeakTickerAvoided(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 20})

	// 게이트는 통과하지만 전 항목 저조
	series := flatSeries("KRW-ZRX", 150, 100, 2_000_000)
	result := engine.Analyze(context.Background(), "KRW-ZRX", series)

	assert.True(t, result.MandatoryPassed)
	assert.False(t, result.Passed)
	assert.Equal(t, contracts.RecommendationAvoid, result.Recommendation)
	assert.InDelta(t, 0.4, result.Confidence, 1e-9)
	assert.Equal(t, "D", result.Grade)
	assert.NotEmpty(t, result.Weaknesses)
}

func TestEngine_AnalyzeBatchCompleteness(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 85})

	items := []contracts.TickerSeries{
		{Ticker: "KRW-BTC", Series: strongSeries("KRW-BTC")},
		{Ticker: "KRW-ETH", Series: flatSeries("KRW-ETH", 150, 100, 2_000_000)},
		{Ticker: "KRW-BAD", Series: flatSeries("KRW-BAD", 10, 100, 100)},
		{Ticker: "KRW-NIL", Series: nil},
	}

	results := engine.AnalyzeBatch(context.Background(), items)

	// 요청 ticker당 정확히 하나의 결과
	require.Len(t, results, len(items))
	for _, item := range items {
		require.Contains(t, results, item.Ticker)
	}

	assert.True(t, results["KRW-BTC"].MandatoryPassed)
	assert.False(t, results["KRW-BAD"].MandatoryPassed)
	assert.False(t, results["KRW-NIL"].MandatoryPassed)
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		grade string
	}{
		{97, "A+"},
		{95, "A+"},
		{94.999, "A"},
		{90, "A"},
		{89.999, "B+"},
		{85, "B+"},
		{80, "B"},
		{75, "C+"},
		{70, "C+"},
		{65, "C"},
		{60, "C"},
		{59.999, "D"},
		{0, "D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, gradeFor(tt.score), "score %.3f", tt.score)
	}
}

func TestRecommendationTiers(t *testing.T) {
	engine := newTestEngine(t, contracts.RSResult{Rating: 85})

	tests := []struct {
		score      float64
		rec        contracts.Recommendation
		confidence float64
	}{
		{95, contracts.RecommendationStrongBuy, 0.9},
		{90, contracts.RecommendationStrongBuy, 0.9},
		{85, contracts.RecommendationBuy, 0.8},
		{80, contracts.RecommendationBuy, 0.8},
		{70, contracts.RecommendationHold, 0.6},
		{60, contracts.RecommendationHold, 0.6},
		{59.999, contracts.RecommendationAvoid, 0.4},
	}

	for _, tt := range tests {
		rec, conf := engine.recommendationFor(tt.score)
		assert.Equal(t, tt.rec, rec, "score %.3f", tt.score)
		assert.InDelta(t, tt.confidence, conf, 1e-9, "score %.3f", tt.score)
	}
}

func TestRSScoreConsumption(t *testing.T) {
	tests := []struct {
		name     string
		result   contracts.RSResult
		expected float64
	}{
		{"excellent_with_proximity", contracts.RSResult{Rating: 95, High52WProximity: true}, 1.0},
		{"excellent", contracts.RSResult{Rating: 92}, 1.0},
		{"good", contracts.RSResult{Rating: 85}, 0.8},
		{"good_with_proximity", contracts.RSResult{Rating: 85, High52WProximity: true}, 0.9},
		{"fair", contracts.RSResult{Rating: 72}, 0.6},
		{"average", contracts.RSResult{Rating: 55}, 0.4},
		{"weak", contracts.RSResult{Rating: 30}, 0.1},
		{"weak_with_proximity", contracts.RSResult{Rating: 30, High52WProximity: true}, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, rsScoreFor(tt.result), 1e-9)
		})
	}
}

func TestStageBaseMapping(t *testing.T) {
	assert.InDelta(t, 0.2, stageBase(1), 1e-9)
	assert.InDelta(t, 0.6, stageBase(2), 1e-9)
	assert.InDelta(t, 0.8, stageBase(3), 1e-9)
	assert.InDelta(t, 1.0, stageBase(4), 1e-9)
}
