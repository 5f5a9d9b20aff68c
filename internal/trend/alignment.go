package trend

import (
	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// AlignmentScorer scores the bullish stacked ordering of moving averages.
type AlignmentScorer struct {
	logger *logger.Logger
}

// NewAlignmentScorer creates an alignment scorer
func NewAlignmentScorer(log *logger.Logger) *AlignmentScorer {
	return &AlignmentScorer{logger: log.Named("ma_alignment")}
}

// Score returns the MA alignment sub-score in [0,1].
// 정배열 5개 조건 비율 + 기울기 보너스. 결측 이평선 조건은 불충족으로 처리.
func (a *AlignmentScorer) Score(series *contracts.IndicatorSeries) float64 {
	last := series.Last()
	if last == nil {
		return 0.2
	}

	ma5, ok5 := contracts.FloatVal(last.MA5)
	ma20, ok20 := contracts.FloatVal(last.MA20)
	ma60, ok60 := contracts.FloatVal(last.MA60)
	ma120, ok120 := contracts.FloatVal(last.MA120)
	ma200, ok200 := contracts.FloatVal(last.MA200)

	// 정배열 조건 체크
	aligned := 0
	if ok5 && last.Close > ma5 {
		aligned++ // 현재가 > 5일선
	}
	if ok5 && ok20 && ma5 > ma20 {
		aligned++ // 5일선 > 20일선
	}
	if ok20 && ok60 && ma20 > ma60 {
		aligned++ // 20일선 > 60일선
	}
	if ok60 && ok120 && ma60 > ma120 {
		aligned++ // 60일선 > 120일선
	}
	if ok120 && ok200 && ma120 > ma200 {
		aligned++ // 120일선 > 200일선
	}

	score := float64(aligned) / 5.0

	// 이평선 기울기 보너스
	if ok20 && ma20 > 0 {
		if past := series.BarsAgo(9); past != nil {
			if ma20Ago, ok := contracts.FloatVal(past.MA20); ok {
				if (ma20-ma20Ago)/ma20*100 > 2 { // 10일간 2% 이상 상승
					score += 0.1
				}
			}
		}
	}
	if ok200 && ma200 > 0 {
		if past := series.BarsAgo(19); past != nil {
			if ma200Ago, ok := contracts.FloatVal(past.MA200); ok {
				if (ma200-ma200Ago)/ma200*100 > 1 { // 20일간 1% 이상 상승
					score += 0.1
				}
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	a.logger.WithFields(map[string]interface{}{
		"ticker":  series.Ticker,
		"aligned": aligned,
		"score":   score,
	}).Debug("MA alignment scored")

	return score
}
