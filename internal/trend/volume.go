package trend

import (
	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// VolumeConfig holds volume pattern thresholds
type VolumeConfig struct {
	VDUThreshold   float64 // 최근 5일 평균 / 50일 평균 이 값 미만이면 VDU
	SpikeThreshold float64 // 당일 거래량 / 50일 평균 이 값 이상이면 spike
}

// DefaultVolumeConfig returns the canonical volume thresholds
func DefaultVolumeConfig() VolumeConfig {
	return VolumeConfig{
		VDUThreshold:   0.8,
		SpikeThreshold: 1.5,
	}
}

// VolumeDetector detects VDU and breakout-spike volume regimes.
// VDU(Volume Dry-Up)는 돌파 직전 매물 소화 구간의 특징적 신호.
type VolumeDetector struct {
	config VolumeConfig
	logger *logger.Logger
}

// NewVolumeDetector creates a volume pattern detector
func NewVolumeDetector(config VolumeConfig, log *logger.Logger) *VolumeDetector {
	return &VolumeDetector{
		config: config,
		logger: log.Named("volume_detector"),
	}
}

// Detect classifies the volume pattern over the series tail.
// Series shorter than 50 bars degrade to INSUFFICIENT_DATA with neutral ratios.
func (d *VolumeDetector) Detect(series *contracts.IndicatorSeries) contracts.VolumePatternResult {
	if series.Len() < 50 {
		return contracts.VolumePatternResult{
			IsVDU:      false,
			IsSpike:    false,
			VDURatio:   1.0,
			SpikeRatio: 1.0,
			Pattern:    contracts.VolumePatternInsufficient,
		}
	}

	isVDU, vduRatio := d.detectDryUp(series)
	isSpike, spikeRatio := d.detectSpike(series)

	var pattern string
	switch {
	case isSpike && spikeRatio >= 2.0:
		pattern = contracts.VolumePatternSpike
	case isVDU && vduRatio <= 0.6:
		pattern = contracts.VolumePatternVDU
	case isSpike:
		pattern = contracts.VolumePatternModerateSpike
	default:
		pattern = contracts.VolumePatternNormal
	}

	return contracts.VolumePatternResult{
		IsVDU:      isVDU,
		IsSpike:    isSpike,
		VDURatio:   vduRatio,
		SpikeRatio: spikeRatio,
		Pattern:    pattern,
	}
}

// Score returns the volume sub-score in [0,1].
func (d *VolumeDetector) Score(series *contracts.IndicatorSeries) float64 {
	if series.Len() == 0 {
		return 0.3
	}

	result := d.Detect(series)

	score := 0.3 // 기본 점수

	if result.IsVDU {
		score += 0.3
	}
	if result.IsSpike {
		score += 0.4
	}

	// 최근 거래량 추세: 최근 5일 vs 직전 15일
	if series.Len() >= 20 {
		recent := series.MeanVolume(5)
		var past float64
		n := series.Len()
		for i := n - 20; i < n-5; i++ {
			past += series.Bars[i].Volume
		}
		past /= 15
		if past > 0 && recent > past*1.2 { // 20% 증가
			score += 0.2
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	d.logger.WithFields(map[string]interface{}{
		"ticker":  series.Ticker,
		"pattern": result.Pattern,
		"score":   score,
	}).Debug("Volume pattern scored")

	return score
}

// detectDryUp: 최근 5일 평균 < 50일 평균 * VDUThreshold
func (d *VolumeDetector) detectDryUp(series *contracts.IndicatorSeries) (bool, float64) {
	avg50 := series.MeanVolume(50)
	recent := series.MeanVolume(5)
	if avg50 <= 0 {
		return false, 1.0
	}

	ratio := recent / avg50
	return ratio < d.config.VDUThreshold, ratio
}

// detectSpike: 당일 거래량 >= 50일 평균 * SpikeThreshold
func (d *VolumeDetector) detectSpike(series *contracts.IndicatorSeries) (bool, float64) {
	avg50 := series.MeanVolume(50)
	last := series.Last()
	if avg50 <= 0 || last == nil {
		return false, 1.0
	}

	ratio := last.Volume / avg50
	return ratio >= d.config.SpikeThreshold, ratio
}
