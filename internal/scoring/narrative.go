package scoring

import (
	"github.com/jsj9346/makenaide/internal/contracts"
)

// Narrative thresholds: sub-scores above strengthThreshold read as strengths,
// below weaknessThreshold as weaknesses.
const (
	strengthThreshold = 0.8
	weaknessThreshold = 0.4
)

// subScores carries the normalized [0,1] sub-scores into narrative analysis.
type subScores struct {
	Stage    float64
	MA       float64
	RS       float64
	Volume   float64
	Momentum float64
}

// buildNarrative derives operator-facing strengths, weaknesses and risk
// factors from the sub-scores and the series tail.
func buildNarrative(series *contracts.IndicatorSeries, scores subScores) (strengths, weaknesses, risks []string) {
	strengths = []string{}
	weaknesses = []string{}
	risks = []string{}

	// 강점 분석
	if scores.Stage > strengthThreshold {
		strengths = append(strengths, "강력한 상승 스테이지 추세")
	}
	if scores.MA > strengthThreshold {
		strengths = append(strengths, "완벽한 이평선 정배열")
	}
	if scores.RS > strengthThreshold {
		strengths = append(strengths, "시장 대비 우수한 상대강도")
	}
	if scores.Volume > strengthThreshold {
		strengths = append(strengths, "건전한 거래량 패턴")
	}
	if scores.Momentum > strengthThreshold {
		strengths = append(strengths, "강력한 상승 모멘텀")
	}

	// 약점 분석
	if scores.Stage < weaknessThreshold {
		weaknesses = append(weaknesses, "Stage 1 기반 구축 단계")
	}
	if scores.MA < weaknessThreshold {
		weaknesses = append(weaknesses, "이평선 정배열 미흡")
	}
	if scores.RS < weaknessThreshold {
		weaknesses = append(weaknesses, "시장 대비 상대적 약세")
	}
	if scores.Volume < weaknessThreshold {
		weaknesses = append(weaknesses, "거래량 패턴 부족")
	}
	if scores.Momentum < weaknessThreshold {
		weaknesses = append(weaknesses, "상승 모멘텀 약화")
	}

	// 리스크 분석
	if last := series.Last(); last != nil {
		if rsi, ok := contracts.FloatVal(last.RSI); ok && rsi > 80 {
			risks = append(risks, "RSI 과매수 구간")
		}
	}
	if r5, ok := series.Return(5); ok && r5 > 0.15 {
		risks = append(risks, "단기 급등 후 조정 리스크")
	}

	return strengths, weaknesses, risks
}
