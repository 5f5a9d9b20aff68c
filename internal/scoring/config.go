package scoring

import (
	"fmt"
	"math"
)

// ConfigurationError 설정 제약 위반 (엔진 생성 시점에만 발생)
type ConfigurationError struct {
	Field   string
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Config holds the composite scoring engine's tunable constants.
// Immutable after engine construction.
// ⭐ SSOT: 점수제 상수는 여기서만 정의
type Config struct {
	// 필수 조건 (하나라도 실패하면 자동 탈락)
	MandatoryMinDataDays int     // 최소 일봉 수
	MandatoryMinVolume   float64 // 최소 평균 거래량
	MandatoryMaxPrice    float64 // 최대 가격 (저유동성 고가 코인 제외)

	// 가중치 (합이 1.0이어야 함)
	StageWeight    float64
	MAWeight       float64
	RSWeight       float64
	VolumeWeight   float64
	MomentumWeight float64

	// 통과 기준
	PassThreshold      float64 // HOLD 이상
	BuyThreshold       float64
	StrongBuyThreshold float64
}

// DefaultConfig returns the canonical scoring constants
func DefaultConfig() Config {
	return Config{
		MandatoryMinDataDays: 100,
		MandatoryMinVolume:   1_000_000,
		MandatoryMaxPrice:    1_000_000,

		StageWeight:    0.25,
		MAWeight:       0.20,
		RSWeight:       0.25,
		VolumeWeight:   0.15,
		MomentumWeight: 0.15,

		PassThreshold:      60,
		BuyThreshold:       80,
		StrongBuyThreshold: 90,
	}
}

// Validate checks weight and threshold constraints.
func (c Config) Validate() error {
	sum := c.StageWeight + c.MAWeight + c.RSWeight + c.VolumeWeight + c.MomentumWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return ConfigurationError{
			Field:   "weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.6f", sum),
		}
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"StageWeight", c.StageWeight},
		{"MAWeight", c.MAWeight},
		{"RSWeight", c.RSWeight},
		{"VolumeWeight", c.VolumeWeight},
		{"MomentumWeight", c.MomentumWeight},
	} {
		if w.value < 0 {
			return ConfigurationError{Field: w.name, Message: "must not be negative"}
		}
	}

	if c.PassThreshold > c.BuyThreshold || c.BuyThreshold > c.StrongBuyThreshold {
		return ConfigurationError{
			Field:   "thresholds",
			Message: "must satisfy pass <= buy <= strong_buy",
		}
	}

	if c.MandatoryMinDataDays <= 0 {
		return ConfigurationError{Field: "MandatoryMinDataDays", Message: "must be positive"}
	}

	return nil
}
