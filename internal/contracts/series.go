package contracts

import "time"

// Bar represents a single daily OHLCV bar with precomputed indicator columns.
// Indicator fields are nullable: a nil pointer means the value could not be
// computed for that bar (e.g. not enough history for MA200). Consumers must
// degrade gracefully, never crash, on nil indicators.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`

	// 이동평균선 (종가 단순이평)
	MA5   *float64 `json:"ma5,omitempty"`
	MA20  *float64 `json:"ma20,omitempty"`
	MA60  *float64 `json:"ma60,omitempty"`
	MA120 *float64 `json:"ma120,omitempty"`
	MA200 *float64 `json:"ma200,omitempty"`

	// 보조지표
	RSI        *float64 `json:"rsi,omitempty"`
	ADX        *float64 `json:"adx,omitempty"`
	MACDHist   *float64 `json:"macd_histogram,omitempty"`
	BBUpper    *float64 `json:"bb_upper,omitempty"`
	BBLower    *float64 `json:"bb_lower,omitempty"`
	Volume20MA *float64 `json:"volume_20ma,omitempty"`
}

// IndicatorSeries is a time-ordered series of daily bars for one ticker,
// oldest first. It is produced by the data/indicator pipeline and consumed
// read-only by every analyzer.
// ⭐ SSOT: 분석기 입력 데이터 계약은 여기서만 정의
type IndicatorSeries struct {
	Ticker string `json:"ticker"`
	Bars   []Bar  `json:"bars"`
}

// TickerSeries pairs a ticker with its series for batch analysis.
type TickerSeries struct {
	Ticker string
	Series *IndicatorSeries
}

// Len returns the number of bars in the series.
func (s *IndicatorSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar, or nil for an empty series.
func (s *IndicatorSeries) Last() *Bar {
	if s.Len() == 0 {
		return nil
	}
	return &s.Bars[len(s.Bars)-1]
}

// BarsAgo returns the bar n positions before the last one.
// BarsAgo(0) == Last(). Returns nil when the series is too short.
func (s *IndicatorSeries) BarsAgo(n int) *Bar {
	if n < 0 || s.Len() <= n {
		return nil
	}
	return &s.Bars[len(s.Bars)-1-n]
}

// Return computes the fractional price change over the last n bars
// (last close vs. the close n bars earlier). The second return value is
// false when the lookback is unavailable or the past close is not positive.
func (s *IndicatorSeries) Return(n int) (float64, bool) {
	last := s.Last()
	past := s.BarsAgo(n)
	if last == nil || past == nil || past.Close <= 0 {
		return 0, false
	}
	return last.Close/past.Close - 1, true
}

// MeanVolume returns the mean volume of the last n bars.
// n <= 0 or n > Len() averages the whole series. Empty series → 0.
func (s *IndicatorSeries) MeanVolume(n int) float64 {
	total := s.Len()
	if total == 0 {
		return 0
	}
	if n <= 0 || n > total {
		n = total
	}
	var sum float64
	for i := total - n; i < total; i++ {
		sum += s.Bars[i].Volume
	}
	return sum / float64(n)
}

// MaxHigh returns the maximum high over the last n bars.
// n <= 0 or n > Len() scans the whole series. Empty series → 0.
func (s *IndicatorSeries) MaxHigh(n int) float64 {
	total := s.Len()
	if total == 0 {
		return 0
	}
	if n <= 0 || n > total {
		n = total
	}
	max := s.Bars[total-n].High
	for i := total - n + 1; i < total; i++ {
		if s.Bars[i].High > max {
			max = s.Bars[i].High
		}
	}
	return max
}

// FloatPtr is a convenience constructor for nullable indicator fields.
func FloatPtr(v float64) *float64 {
	return &v
}

// FloatVal dereferences a nullable indicator value.
// Returns (0, false) when the value is missing.
func FloatVal(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
