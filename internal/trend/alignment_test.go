package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsj9346/makenaide/internal/contracts"
)

func TestAlignmentScorer_PerfectStack(t *testing.T) {
	scorer := NewAlignmentScorer(testLogger())

	series := flatSeries("KRW-BTC", 250, 120, 1000)
	last := lastBar(series)
	last.MA5 = contracts.FloatPtr(115)
	last.MA20 = contracts.FloatPtr(110)
	last.MA60 = contracts.FloatPtr(105)
	last.MA120 = contracts.FloatPtr(100)
	last.MA200 = contracts.FloatPtr(95)
	// 기울기 보너스: MA20 +10%, MA200 +5.6%
	barAgo(series, 9).MA20 = contracts.FloatPtr(99)
	barAgo(series, 19).MA200 = contracts.FloatPtr(90)

	score := scorer.Score(series)

	// 5/5 정배열 + 보너스 0.2 → 1.0으로 클램프
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestAlignmentScorer_PartialStack(t *testing.T) {
	scorer := NewAlignmentScorer(testLogger())

	// 현재가 > MA5 > MA20 만족, MA20 < MA60 (역배열 진입)
	series := flatSeries("KRW-ETH", 250, 120, 1000)
	last := lastBar(series)
	last.MA5 = contracts.FloatPtr(115)
	last.MA20 = contracts.FloatPtr(110)
	last.MA60 = contracts.FloatPtr(112)
	last.MA120 = contracts.FloatPtr(100)
	last.MA200 = contracts.FloatPtr(95)

	score := scorer.Score(series)

	// 4/5 (MA20 > MA60 불충족), 기울기 보너스 없음
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestAlignmentScorer_MissingMAsCountAsUnaligned(t *testing.T) {
	scorer := NewAlignmentScorer(testLogger())

	series := flatSeries("KRW-XRP", 250, 120, 1000)
	last := lastBar(series)
	last.MA5 = contracts.FloatPtr(115) // 나머지 결측

	score := scorer.Score(series)

	// 현재가 > MA5 하나만 충족
	assert.InDelta(t, 0.2, score, 1e-9)
}

func TestAlignmentScorer_EmptySeries(t *testing.T) {
	scorer := NewAlignmentScorer(testLogger())

	score := scorer.Score(&contracts.IndicatorSeries{Ticker: "KRW-BTC"})

	assert.InDelta(t, 0.2, score, 1e-9)
}

func TestAlignmentScorer_SlopeBonusOnly(t *testing.T) {
	scorer := NewAlignmentScorer(testLogger())

	// 역배열이지만 MA200 기울기만 양호
	series := flatSeries("KRW-ADA", 250, 90, 1000)
	last := lastBar(series)
	last.MA200 = contracts.FloatPtr(100)
	barAgo(series, 19).MA200 = contracts.FloatPtr(95)

	score := scorer.Score(series)

	// 0/5 정배열 + MA200 기울기 보너스 0.1
	assert.InDelta(t, 0.1, score, 1e-9)
}
