package trend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsj9346/makenaide/internal/contracts"
)

type staticUniverse struct {
	returns []float64
	err     error
}

func (u *staticUniverse) YearReturns(ctx context.Context) ([]float64, error) {
	return u.returns, u.err
}

func risingSeries(ticker string, n int, start, end float64) *contracts.IndicatorSeries {
	closes := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return seriesWithCloses(ticker, closes, 1000)
}

func TestRater_TopPercentile(t *testing.T) {
	universe := &staticUniverse{returns: []float64{-10, -5, 0, 2, 4, 6, 8, 10, 12, 15, 20, 25}}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	// 100 → 150: 연 수익률 +50%, 유니버스 전체를 상회
	series := risingSeries("KRW-BTC", 260, 100, 150)
	result := rater.Rate(context.Background(), "KRW-BTC", series)

	assert.Equal(t, 99, result.Rating) // 100 percentile → 99로 클램프
	assert.InDelta(t, 100.0, result.MarketPercentile, 1e-9)
	assert.Greater(t, result.YearReturn, 40.0)
	assert.True(t, result.High52WProximity)
}

func TestRater_BottomClampedToOne(t *testing.T) {
	universe := &staticUniverse{returns: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	// 100 → 60: 연 수익률 -40%, 유니버스 최하위
	series := risingSeries("KRW-LUNA", 260, 100, 60)
	result := rater.Rate(context.Background(), "KRW-LUNA", series)

	assert.Equal(t, 1, result.Rating)
	assert.InDelta(t, 0.0, result.MarketPercentile, 1e-9)
}

func TestRater_MidPercentile(t *testing.T) {
	universe := &staticUniverse{returns: []float64{-20, -10, 0, 5, 10, 20, 30, 40, 60, 80}}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	// 연 수익률 약 +15% → 10개 중 5개 이하 → 50 percentile
	series := risingSeries("KRW-ETH", 260, 100, 115)
	result := rater.Rate(context.Background(), "KRW-ETH", series)

	assert.Equal(t, 50, result.Rating)
}

func TestRater_UniverseErrorDegradesNeutral(t *testing.T) {
	universe := &staticUniverse{err: errors.New("db down")}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	series := risingSeries("KRW-BTC", 260, 100, 150)
	result := rater.Rate(context.Background(), "KRW-BTC", series)

	assert.Equal(t, 50, result.Rating)
	assert.InDelta(t, 50.0, result.MarketPercentile, 1e-9)
}

func TestRater_SmallUniverseDegradesNeutral(t *testing.T) {
	universe := &staticUniverse{returns: []float64{1, 2, 3}}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	series := risingSeries("KRW-BTC", 260, 100, 150)
	result := rater.Rate(context.Background(), "KRW-BTC", series)

	assert.Equal(t, 50, result.Rating)
}

func TestRater_ShortSeriesNoHighProximity(t *testing.T) {
	universe := &staticUniverse{returns: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	// 200일 미만이면 52주 고점 근접 플래그는 항상 false
	series := risingSeries("KRW-BTC", 150, 100, 150)
	result := rater.Rate(context.Background(), "KRW-BTC", series)

	assert.False(t, result.High52WProximity)
	// 수익률은 가용 기간(149일)으로 축소 계산
	assert.InDelta(t, 50.0, result.YearReturn, 1.0)
}

func TestRater_FarBelowHighNoProximity(t *testing.T) {
	universe := &staticUniverse{returns: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}
	rater := NewRater(DefaultRSConfig(), universe, testLogger())

	// 고점 200 대비 현재가 100 (50% < 75%)
	closes := make([]float64, 260)
	for i := range closes {
		closes[i] = 100
	}
	closes[100] = 200
	series := seriesWithCloses("KRW-BTC", closes, 1000)

	result := rater.Rate(context.Background(), "KRW-BTC", series)

	assert.False(t, result.High52WProximity)
}
