package contracts

// MA200 trend directions used by the stage classifier.
const (
	TrendUp       = "up"
	TrendDown     = "down"
	TrendSideways = "sideways"
)

// StageResult is the outcome of Weinstein 4-stage classification.
// Stage: 1 바닥 구축, 2 상승, 3 천장, 4 하락.
type StageResult struct {
	Stage        int     `json:"stage"`          // 1-4
	Confidence   float64 `json:"confidence"`     // 0.0-1.0
	MA200Trend   string  `json:"ma200_trend"`    // up | down | sideways
	PriceVsMA200 float64 `json:"price_vs_ma200"` // MA200 대비 현재가 위치 (%)
	VolumeSurge  float64 `json:"volume_surge"`   // 최근 거래량 / 20일 평균
}

// RSResult is the outcome of relative-strength rating.
type RSResult struct {
	Rating           int     `json:"rs_rating"`          // 1-99
	YearReturn       float64 `json:"year_return"`        // 1년 수익률 (%)
	MarketPercentile float64 `json:"market_percentile"`  // 시장 대비 백분위
	High52WProximity bool    `json:"high_52w_proximity"` // 52주 고점 75% 이내
}

// Volume pattern labels.
const (
	VolumePatternVDU           = "VDU"
	VolumePatternSpike         = "SPIKE"
	VolumePatternModerateSpike = "MODERATE_SPIKE"
	VolumePatternNormal        = "NORMAL"
	VolumePatternInsufficient  = "INSUFFICIENT_DATA"
)

// VolumePatternResult is the outcome of volume regime detection.
// IsVDU and IsSpike are independent predicates over the same series,
// not mutually exclusive states.
type VolumePatternResult struct {
	IsVDU      bool    `json:"is_vdu"`
	IsSpike    bool    `json:"is_spike"`
	VDURatio   float64 `json:"vdu_ratio"`   // 최근 5일 평균 / 50일 평균
	SpikeRatio float64 `json:"spike_ratio"` // 당일 거래량 / 50일 평균
	Pattern    string  `json:"pattern"`
}

// Recommendation is the engine's final verdict for a ticker.
type Recommendation string

const (
	RecommendationStrongBuy Recommendation = "STRONG_BUY"
	RecommendationBuy       Recommendation = "BUY"
	RecommendationHold      Recommendation = "HOLD"
	RecommendationAvoid     Recommendation = "AVOID"
)

// ScoringResult is the composite scoring engine's output for one ticker.
// It is immutable once produced; a fresh value is created on every analysis.
// ⭐ SSOT: 점수제 분석 결과 계약은 여기서만 정의
type ScoringResult struct {
	Ticker string `json:"ticker"`

	// 필수 조건 (하나라도 실패하면 자동 AVOID)
	MandatoryPassed  bool     `json:"mandatory_passed"`
	MandatoryReasons []string `json:"mandatory_reasons"`

	// 개별 점수 (고정 스케일)
	StageScore       float64 `json:"stage_score"`        // 0-25
	MAAlignmentScore float64 `json:"ma_alignment_score"` // 0-20
	RSRatingScore    float64 `json:"rs_rating_score"`    // 0-25
	VolumeScore      float64 `json:"volume_score"`       // 0-15
	MomentumScore    float64 `json:"momentum_score"`     // 0-15

	// 총점 및 등급
	TotalScore float64 `json:"total_score"` // 0-100
	Grade      string  `json:"grade"`       // A+, A, B+, B, C+, C, D, F
	Percentile float64 `json:"percentile"`  // 0-100 (근사치)

	// 최종 판정
	Passed         bool           `json:"passed"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"` // 추천 등급별 고정값

	// 정성 분석
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	RiskFactors []string `json:"risk_factors"`
}
