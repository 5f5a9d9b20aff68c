package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsj9346/makenaide/internal/contracts"
)

func TestStageClassifier_ShortSeries(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	series := flatSeries("KRW-BTC", 50, 100, 1000)
	result := classifier.Classify(series)

	assert.Equal(t, 1, result.Stage)
	assert.InDelta(t, 0.1, result.Confidence, 1e-9)
	assert.Equal(t, contracts.TrendSideways, result.MA200Trend)
}

func TestStageClassifier_Stage2Strong(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	// 250일 시리즈: 현재가 120, MA200 100 (20% 돌파), MA200 20일간 3% 상승,
	// RSI 55, 당일 거래량 급증
	series := flatSeries("KRW-BTC", 250, 120, 1000)
	lastBar(series).Volume = 3000
	lastBar(series).MA200 = contracts.FloatPtr(100)
	lastBar(series).RSI = contracts.FloatPtr(55)
	barAgo(series, 19).MA200 = contracts.FloatPtr(97)

	result := classifier.Classify(series)

	require.Equal(t, 2, result.Stage)
	assert.Equal(t, contracts.TrendUp, result.MA200Trend)
	// 0.6 기본 + 0.2 거래량 + 0.10 돌파>5% + 0.05 RSI
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.InDelta(t, 20.0, result.PriceVsMA200, 1e-9)
	// 3000 / ((19*1000 + 3000) / 20)
	assert.Greater(t, result.VolumeSurge, 1.5)
}

func TestStageClassifier_Stage2ConfidenceClamped(t *testing.T) {
	cfg := DefaultStageConfig()
	cfg.VolumeSurgeThreshold = 0.5 // 항상 급증 판정
	classifier := NewStageClassifier(cfg, testLogger())

	series := flatSeries("KRW-ETH", 250, 200, 1000)
	lastBar(series).Volume = 10000
	lastBar(series).MA200 = contracts.FloatPtr(100)
	lastBar(series).RSI = contracts.FloatPtr(55)
	barAgo(series, 19).MA200 = contracts.FloatPtr(90)

	result := classifier.Classify(series)

	assert.Equal(t, 2, result.Stage)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestStageClassifier_Stage4(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	// 현재가 90 < MA200 100, MA200 20일간 약 5% 하락
	series := flatSeries("KRW-XRP", 250, 90, 1000)
	lastBar(series).MA200 = contracts.FloatPtr(100)
	barAgo(series, 19).MA200 = contracts.FloatPtr(105)

	result := classifier.Classify(series)

	assert.Equal(t, 4, result.Stage)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Equal(t, contracts.TrendDown, result.MA200Trend)
}

func TestStageClassifier_Stage3(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	// MA200 횡보, 현재가가 MA200의 95% 초과
	series := flatSeries("KRW-ADA", 250, 98, 1000)
	lastBar(series).MA200 = contracts.FloatPtr(100)
	barAgo(series, 19).MA200 = contracts.FloatPtr(100)

	result := classifier.Classify(series)

	assert.Equal(t, 3, result.Stage)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Equal(t, contracts.TrendSideways, result.MA200Trend)
}

func TestStageClassifier_NullMA200FallsBackToStage1(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	// MA200 전면 결측: 횡보 가격 → sideways, MA200 없으므로 Stage 3 불가
	series := flatSeries("KRW-DOGE", 150, 100, 1000)
	result := classifier.Classify(series)

	assert.Equal(t, 1, result.Stage)
	assert.InDelta(t, 0.4, result.Confidence, 1e-9)
	assert.Equal(t, contracts.TrendSideways, result.MA200Trend)
}

func TestStageClassifier_TrendFallbackToMA120(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	// 20일 전 MA200 결측 → MA120 비교로 강등: MA200 110 > MA120 100 * 1.05
	series := flatSeries("KRW-SOL", 250, 120, 1000)
	lastBar(series).MA200 = contracts.FloatPtr(110)
	lastBar(series).MA120 = contracts.FloatPtr(100)

	result := classifier.Classify(series)

	assert.Equal(t, contracts.TrendUp, result.MA200Trend)
	assert.Equal(t, 2, result.Stage)
}

func TestStageClassifier_TrendFallbackToPrice(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	// MA 전면 결측 → 최근 20일 가격 추세: 100 → 115 (+15% > 10%)
	closes := make([]float64, 150)
	for i := range closes {
		closes[i] = 100
	}
	for i := 0; i < 20; i++ {
		closes[130+i] = 100 + float64(i)
	}
	series := seriesWithCloses("KRW-AVAX", closes, 1000)

	result := classifier.Classify(series)

	assert.Equal(t, contracts.TrendUp, result.MA200Trend)
	// MA200 결측이므로 Stage 2 불가 → Stage 1
	assert.Equal(t, 1, result.Stage)
}

func TestStageClassifier_VolumeSurgeRatio(t *testing.T) {
	classifier := NewStageClassifier(DefaultStageConfig(), testLogger())

	series := flatSeries("KRW-BTC", 250, 100, 1000)
	lastBar(series).Volume = 3000

	result := classifier.Classify(series)

	// 3000 / ((19*1000 + 3000) / 20) = 3000 / 1100
	assert.InDelta(t, 3000.0/1100.0, result.VolumeSurge, 1e-9)
}
