package collector

import (
	"math"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// Indicator periods
const (
	rsiPeriod       = 14
	adxPeriod       = 14
	macdFastPeriod  = 12
	macdSlowPeriod  = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerWidth  = 2.0
	volumeMAPeriod  = 20
)

var smaPeriods = []int{5, 20, 60, 120, 200}

// Enricher computes the indicator columns of the series contract.
// Bars without enough history keep nil indicators.
// ⭐ SSOT: 기술적 지표 계산은 여기서만
type Enricher struct {
	logger *logger.Logger
}

// NewEnricher creates an indicator enricher
func NewEnricher(log *logger.Logger) *Enricher {
	return &Enricher{logger: log.Named("indicator_enricher")}
}

// Enrich fills the indicator fields of every bar in place. Input bars must be
// ordered oldest first.
func (e *Enricher) Enrich(bars []contracts.Bar) {
	n := len(bars)
	if n == 0 {
		return
	}

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	// 이동평균선
	for _, period := range smaPeriods {
		sma := rollingMean(closes, period)
		for i := range bars {
			if v, ok := sma[i]; ok {
				switch period {
				case 5:
					bars[i].MA5 = contracts.FloatPtr(v)
				case 20:
					bars[i].MA20 = contracts.FloatPtr(v)
				case 60:
					bars[i].MA60 = contracts.FloatPtr(v)
				case 120:
					bars[i].MA120 = contracts.FloatPtr(v)
				case 200:
					bars[i].MA200 = contracts.FloatPtr(v)
				}
			}
		}
	}

	// RSI
	for i := rsiPeriod; i < n; i++ {
		bars[i].RSI = contracts.FloatPtr(rsiAt(closes, i, rsiPeriod))
	}

	// MACD 히스토그램
	e.enrichMACD(bars, closes)

	// 볼린저 밴드
	e.enrichBollinger(bars, closes)

	// ADX
	e.enrichADX(bars)

	// 거래량 20일 평균
	for i := volumeMAPeriod - 1; i < n; i++ {
		var sum float64
		for j := i - volumeMAPeriod + 1; j <= i; j++ {
			sum += bars[j].Volume
		}
		bars[i].Volume20MA = contracts.FloatPtr(sum / volumeMAPeriod)
	}
}

// rollingMean returns the simple moving average per index; missing entries
// have no value.
func rollingMean(values []float64, period int) map[int]float64 {
	out := make(map[int]float64, len(values))
	if len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// rsiAt computes a simple-average RSI for index i over the given period.
func rsiAt(closes []float64, i, period int) float64 {
	var gains, losses float64
	for j := i - period + 1; j <= i; j++ {
		change := closes[j] - closes[j-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100.0
	}

	rs := gains / losses
	return 100 - (100 / (1 + rs))
}

// emaSeries computes an EMA sequence seeded with the SMA of the first period.
// Indices before period-1 have no value (NaN).
func emaSeries(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if n < period {
		return out
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[period-1] = sum / float64(period)

	k := 2.0 / (float64(period) + 1.0)
	for i := period; i < n; i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

func (e *Enricher) enrichMACD(bars []contracts.Bar, closes []float64) {
	n := len(closes)
	if n < macdSlowPeriod {
		return
	}

	fast := emaSeries(closes, macdFastPeriod)
	slow := emaSeries(closes, macdSlowPeriod)

	macd := make([]float64, 0, n-macdSlowPeriod+1)
	for i := macdSlowPeriod - 1; i < n; i++ {
		macd = append(macd, fast[i]-slow[i])
	}

	signal := emaSeries(macd, macdSignal)
	for j, s := range signal {
		if math.IsNaN(s) {
			continue
		}
		i := j + macdSlowPeriod - 1
		bars[i].MACDHist = contracts.FloatPtr(macd[j] - s)
	}
}

func (e *Enricher) enrichBollinger(bars []contracts.Bar, closes []float64) {
	n := len(closes)
	for i := bollingerPeriod - 1; i < n; i++ {
		var sum float64
		for j := i - bollingerPeriod + 1; j <= i; j++ {
			sum += closes[j]
		}
		mean := sum / bollingerPeriod

		var variance float64
		for j := i - bollingerPeriod + 1; j <= i; j++ {
			d := closes[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / bollingerPeriod)

		bars[i].BBUpper = contracts.FloatPtr(mean + bollingerWidth*std)
		bars[i].BBLower = contracts.FloatPtr(mean - bollingerWidth*std)
	}
}

// enrichADX computes Wilder's ADX.
func (e *Enricher) enrichADX(bars []contracts.Bar) {
	n := len(bars)
	if n < 2*adxPeriod+1 {
		return
	}

	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 1; i < n; i++ {
		highDiff := bars[i].High - bars[i-1].High
		lowDiff := bars[i-1].Low - bars[i].Low

		if highDiff > lowDiff && highDiff > 0 {
			plusDM[i] = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			minusDM[i] = lowDiff
		}

		tr[i] = math.Max(bars[i].High-bars[i].Low,
			math.Max(math.Abs(bars[i].High-bars[i-1].Close),
				math.Abs(bars[i].Low-bars[i-1].Close)))
	}

	// Wilder smoothing 초기값: 첫 period 합
	var trSum, plusSum, minusSum float64
	for i := 1; i <= adxPeriod; i++ {
		trSum += tr[i]
		plusSum += plusDM[i]
		minusSum += minusDM[i]
	}

	dx := make([]float64, 0, n)
	for i := adxPeriod; i < n; i++ {
		if i > adxPeriod {
			trSum = trSum - trSum/adxPeriod + tr[i]
			plusSum = plusSum - plusSum/adxPeriod + plusDM[i]
			minusSum = minusSum - minusSum/adxPeriod + minusDM[i]
		}

		if trSum == 0 {
			dx = append(dx, 0)
			continue
		}

		plusDI := plusSum / trSum * 100
		minusDI := minusSum / trSum * 100
		if plusDI+minusDI == 0 {
			dx = append(dx, 0)
			continue
		}
		dx = append(dx, math.Abs(plusDI-minusDI)/(plusDI+minusDI)*100)
	}

	// ADX = DX의 Wilder 평활
	if len(dx) < adxPeriod {
		return
	}
	var adx float64
	for i := 0; i < adxPeriod; i++ {
		adx += dx[i]
	}
	adx /= adxPeriod

	// dx[j]는 bar index j+adxPeriod에 해당
	bars[2*adxPeriod-1].ADX = contracts.FloatPtr(adx)
	for j := adxPeriod; j < len(dx); j++ {
		adx = (adx*(adxPeriod-1) + dx[j]) / adxPeriod
		bars[j+adxPeriod].ADX = contracts.FloatPtr(adx)
	}
}
