package trend

import (
	"context"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// RSConfig holds relative-strength thresholds
type RSConfig struct {
	ReturnPeriod      int     // 수익률 산출 기간 (거래일)
	High52WThreshold  float64 // 52주 고점 근접 판정 비율
	MinUniverseSize   int     // percentile 계산 최소 표본 수
	NeutralPercentile float64 // 표본 부족 시 중립 백분위
}

// DefaultRSConfig returns the canonical RS thresholds
func DefaultRSConfig() RSConfig {
	return RSConfig{
		ReturnPeriod:      252,
		High52WThreshold:  0.75,
		MinUniverseSize:   10,
		NeutralPercentile: 50.0,
	}
}

// Rater computes an IBD-style RS Rating by ranking a ticker's trailing-year
// return against the whole-market return universe.
// Rating is always within [1,99]; data problems degrade to a neutral rating.
type Rater struct {
	config   RSConfig
	universe contracts.ReturnUniverse
	logger   *logger.Logger
}

var _ contracts.RelativeStrengthRater = (*Rater)(nil)

// NewRater creates an RS rater backed by a return universe
func NewRater(config RSConfig, universe contracts.ReturnUniverse, log *logger.Logger) *Rater {
	return &Rater{
		config:   config,
		universe: universe,
		logger:   log.Named("rs_rater"),
	}
}

// Rate computes the RS rating for one ticker.
func (r *Rater) Rate(ctx context.Context, ticker string, series *contracts.IndicatorSeries) contracts.RSResult {
	yearReturn := r.trailingReturn(series)
	percentile := r.marketPercentile(ctx, ticker, yearReturn)

	rating := int(percentile)
	if rating < 1 {
		rating = 1
	}
	if rating > 99 {
		rating = 99
	}

	return contracts.RSResult{
		Rating:           rating,
		YearReturn:       yearReturn,
		MarketPercentile: percentile,
		High52WProximity: r.near52WeekHigh(series),
	}
}

// trailingReturn computes the 1-year return (%), shrinking the window to the
// available history.
func (r *Rater) trailingReturn(series *contracts.IndicatorSeries) float64 {
	period := r.config.ReturnPeriod
	if avail := series.Len() - 1; avail < period {
		period = avail
	}
	if period <= 0 {
		return 0.0
	}

	ret, ok := series.Return(period)
	if !ok {
		return 0.0
	}
	return ret * 100
}

// marketPercentile ranks the return against the universe.
// 유니버스 조회 실패나 표본 부족 시 중립값으로 강등.
func (r *Rater) marketPercentile(ctx context.Context, ticker string, yearReturn float64) float64 {
	returns, err := r.universe.YearReturns(ctx)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Warn("Return universe unavailable, using neutral percentile")
		return r.config.NeutralPercentile
	}
	if len(returns) < r.config.MinUniverseSize {
		return r.config.NeutralPercentile
	}

	below := 0
	for _, ret := range returns {
		if ret <= yearReturn {
			below++
		}
	}

	percentile := float64(below) / float64(len(returns)) * 100
	if percentile < 0 {
		percentile = 0
	}
	if percentile > 100 {
		percentile = 100
	}
	return percentile
}

// near52WeekHigh checks whether the last close sits within the configured
// proximity of the 52-week high. Requires at least 200 bars.
func (r *Rater) near52WeekHigh(series *contracts.IndicatorSeries) bool {
	if series.Len() < 200 {
		return false
	}

	period := r.config.ReturnPeriod
	if series.Len() < period {
		period = series.Len()
	}

	high52w := series.MaxHigh(period)
	last := series.Last()
	if high52w <= 0 || last == nil {
		return false
	}

	return last.Close >= high52w*r.config.High52WThreshold
}
