package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsj9346/makenaide/internal/contracts"
)

// OHLCVRepository persists and reads daily bars with indicator columns.
// ⭐ SSOT: ohlcv_daily 테이블 접근은 여기서만
type OHLCVRepository struct {
	db *pgxpool.Pool
}

var _ contracts.OHLCVRepository = (*OHLCVRepository)(nil)

// NewOHLCVRepository creates an OHLCV repository
func NewOHLCVRepository(db *pgxpool.Pool) *OHLCVRepository {
	return &OHLCVRepository{db: db}
}

// GetSeries returns up to `days` most recent bars for a ticker, oldest first.
func (r *OHLCVRepository) GetSeries(ctx context.Context, ticker string, days int) (*contracts.IndicatorSeries, error) {
	query := `
		SELECT
			date, open, high, low, close, volume,
			ma5, ma20, ma60, ma120, ma200,
			rsi, adx, macd_histogram, bb_upper, bb_lower, volume_20ma
		FROM ohlcv_daily
		WHERE ticker = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, ticker, days)
	if err != nil {
		return nil, fmt.Errorf("query ohlcv for %s: %w", ticker, err)
	}
	defer rows.Close()

	var bars []contracts.Bar
	for rows.Next() {
		var bar contracts.Bar
		err := rows.Scan(
			&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume,
			&bar.MA5, &bar.MA20, &bar.MA60, &bar.MA120, &bar.MA200,
			&bar.RSI, &bar.ADX, &bar.MACDHist, &bar.BBUpper, &bar.BBLower, &bar.Volume20MA,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ohlcv row: %w", err)
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ohlcv rows: %w", err)
	}

	// DESC 조회를 오래된 순으로 뒤집음
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return &contracts.IndicatorSeries{Ticker: ticker, Bars: bars}, nil
}

// ActiveTickers returns tickers that have bars in the last 30 days.
func (r *OHLCVRepository) ActiveTickers(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT ticker
		FROM ohlcv_daily
		WHERE date >= CURRENT_DATE - INTERVAL '30 days'
		ORDER BY ticker
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}

// SaveBars upserts bars for a ticker in one batch.
func (r *OHLCVRepository) SaveBars(ctx context.Context, ticker string, bars []contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO ohlcv_daily (
			ticker, date, open, high, low, close, volume,
			ma5, ma20, ma60, ma120, ma200,
			rsi, adx, macd_histogram, bb_upper, bb_lower, volume_20ma
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (ticker, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			ma5 = EXCLUDED.ma5,
			ma20 = EXCLUDED.ma20,
			ma60 = EXCLUDED.ma60,
			ma120 = EXCLUDED.ma120,
			ma200 = EXCLUDED.ma200,
			rsi = EXCLUDED.rsi,
			adx = EXCLUDED.adx,
			macd_histogram = EXCLUDED.macd_histogram,
			bb_upper = EXCLUDED.bb_upper,
			bb_lower = EXCLUDED.bb_lower,
			volume_20ma = EXCLUDED.volume_20ma
	`

	batch := &pgx.Batch{}
	for _, bar := range bars {
		batch.Queue(query,
			ticker, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
			bar.MA5, bar.MA20, bar.MA60, bar.MA120, bar.MA200,
			bar.RSI, bar.ADX, bar.MACDHist, bar.BBUpper, bar.BBLower, bar.Volume20MA,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert bars for %s: %w", ticker, err)
		}
	}
	return nil
}

// YearReturns computes the trailing-year return (%) for every ticker with
// recent data, filtering extreme values. This is the RS reference universe.
func (r *OHLCVRepository) YearReturns(ctx context.Context) ([]float64, error) {
	// 티커별 최초/최종 종가로 1년 수익률 근사 (-95% ~ +1000% 극단값 제거)
	query := `
		WITH price_window AS (
			SELECT
				ticker,
				FIRST_VALUE(close) OVER w AS start_price,
				LAST_VALUE(close) OVER (
					PARTITION BY ticker ORDER BY date ASC
					ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING
				) AS end_price
			FROM ohlcv_daily
			WHERE date >= CURRENT_DATE - INTERVAL '400 days'
				AND close > 0
			WINDOW w AS (PARTITION BY ticker ORDER BY date ASC)
		)
		SELECT DISTINCT
			ticker,
			(end_price / start_price - 1) * 100 AS year_return
		FROM price_window
		WHERE start_price > 0
			AND (end_price / start_price - 1) * 100 BETWEEN -95 AND 1000
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query year returns: %w", err)
	}
	defer rows.Close()

	var returns []float64
	for rows.Next() {
		var ticker string
		var yearReturn float64
		if err := rows.Scan(&ticker, &yearReturn); err != nil {
			return nil, fmt.Errorf("scan year return: %w", err)
		}
		returns = append(returns, yearReturn)
	}
	return returns, rows.Err()
}
