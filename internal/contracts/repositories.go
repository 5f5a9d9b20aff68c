package contracts

import "context"

// OHLCVRepository provides read/write access to daily bars with indicators.
// ⭐ SSOT: 시세 데이터 저장소 인터페이스는 여기서만 정의
type OHLCVRepository interface {
	// GetSeries returns up to `days` most recent bars for a ticker,
	// oldest first.
	GetSeries(ctx context.Context, ticker string, days int) (*IndicatorSeries, error)

	// ActiveTickers returns tickers with recent data.
	ActiveTickers(ctx context.Context) ([]string, error)

	// SaveBars upserts bars for a ticker.
	SaveBars(ctx context.Context, ticker string, bars []Bar) error
}

// ResultRepository persists scoring results per analysis run.
type ResultRepository interface {
	SaveResults(ctx context.Context, runID string, results map[string]*ScoringResult) error
}

// ReturnUniverse supplies the reference universe of trailing-year returns
// (in %) the relative-strength rater ranks against.
type ReturnUniverse interface {
	YearReturns(ctx context.Context) ([]float64, error)
}

// RelativeStrengthRater is the injected capability computing an RS rating
// for a ticker. Implementations must return Rating within [1,99] and must
// not fail for data-quality reasons (degrade to a neutral rating instead).
type RelativeStrengthRater interface {
	Rate(ctx context.Context, ticker string, series *IndicatorSeries) RSResult
}
