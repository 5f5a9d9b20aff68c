package trend

import (
	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// MomentumScorer scores short-term momentum from RSI and recent returns.
type MomentumScorer struct {
	logger *logger.Logger
}

// NewMomentumScorer creates a momentum scorer
func NewMomentumScorer(log *logger.Logger) *MomentumScorer {
	return &MomentumScorer{logger: log.Named("momentum")}
}

// Score returns the momentum sub-score in [0,1].
// RSI 결측 시 중립(50)으로 간주. 조회 구간이 부족하면 가용 구간으로 축소.
func (m *MomentumScorer) Score(series *contracts.IndicatorSeries) float64 {
	last := series.Last()
	if last == nil {
		return 0.3
	}

	rsi := 50.0
	if v, ok := contracts.FloatVal(last.RSI); ok {
		rsi = v
	}

	var rsiScore float64
	switch {
	case rsi >= 60 && rsi <= 80: // 적정 상승 모멘텀
		rsiScore = 0.4
	case rsi >= 50 && rsi < 60: // 중립적 모멘텀
		rsiScore = 0.3
	case rsi > 80: // 과매수 (리스크)
		rsiScore = 0.2
	default: // 약세 모멘텀
		rsiScore = 0.1
	}

	// 가격 모멘텀 (최근 상승률)
	var priceScore float64
	if r5, ok := m.lookbackReturn(series, 5); ok {
		if r5 > 0.05 { // 5일간 5% 상승
			priceScore += 0.3
		} else if r5 > 0 {
			priceScore += 0.1
		}
	}
	if r20, ok := m.lookbackReturn(series, 20); ok {
		if r20 > 0.10 { // 20일간 10% 상승
			priceScore += 0.3
		} else if r20 > 0 {
			priceScore += 0.1
		}
	}

	score := rsiScore + priceScore
	if score > 1.0 {
		score = 1.0
	}

	m.logger.WithFields(map[string]interface{}{
		"ticker": series.Ticker,
		"rsi":    rsi,
		"score":  score,
	}).Debug("Momentum scored")

	return score
}

// lookbackReturn shrinks the window to the available history.
func (m *MomentumScorer) lookbackReturn(series *contracts.IndicatorSeries, n int) (float64, bool) {
	if avail := series.Len() - 1; avail < n {
		n = avail
	}
	if n <= 0 {
		return 0, false
	}
	return series.Return(n)
}
