package collector

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/internal/external/upbit"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// MarketDataSource is the exchange-facing surface the collector needs.
type MarketDataSource interface {
	KRWMarkets(ctx context.Context) ([]upbit.Market, error)
	DailyCandles(ctx context.Context, market string, count int) ([]contracts.Bar, error)
}

// Config holds collection parameters
type Config struct {
	CandleDays  int // ticker당 수집 일봉 수
	Concurrency int // 동시 수집 ticker 수
}

// DefaultConfig returns the canonical collection parameters.
// 300일이면 MA200 + 52주 수익률 계산에 충분.
func DefaultConfig() Config {
	return Config{
		CandleDays:  300,
		Concurrency: 4,
	}
}

// Collector fetches daily candles, enriches them with indicators and persists
// the result.
// ⭐ SSOT: 시세 수집 파이프라인은 여기서만
type Collector struct {
	config   Config
	source   MarketDataSource
	repo     contracts.OHLCVRepository
	enricher *Enricher
	logger   *logger.Logger
}

// New creates a collector
func New(config Config, source MarketDataSource, repo contracts.OHLCVRepository, log *logger.Logger) *Collector {
	return &Collector{
		config:   config,
		source:   source,
		repo:     repo,
		enricher: NewEnricher(log),
		logger:   log.Named("collector"),
	}
}

// CollectTicker fetches, enriches and stores one ticker's daily bars.
func (c *Collector) CollectTicker(ctx context.Context, ticker string) error {
	bars, err := c.source.DailyCandles(ctx, ticker, c.config.CandleDays)
	if err != nil {
		return fmt.Errorf("collect %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		c.logger.WithField("ticker", ticker).Warn("No candles returned")
		return nil
	}

	c.enricher.Enrich(bars)

	if err := c.repo.SaveBars(ctx, ticker, bars); err != nil {
		return fmt.Errorf("save %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Info("Ticker collected")

	return nil
}

// CollectAll collects every KRW market concurrently. Per-ticker failures are
// logged and counted, never abort the whole run.
func (c *Collector) CollectAll(ctx context.Context) (collected, failed int, err error) {
	markets, err := c.source.KRWMarkets(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list markets: %w", err)
	}

	var okCount, failCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Concurrency)

	for _, market := range markets {
		g.Go(func() error {
			if err := c.CollectTicker(gctx, market.Market); err != nil {
				c.logger.WithError(err).WithField("ticker", market.Market).Error("Collection failed")
				failCount.Add(1)
				return nil // 개별 실패는 전체를 중단시키지 않음
			}
			okCount.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	c.logger.WithFields(map[string]interface{}{
		"collected": okCount.Load(),
		"failed":    failCount.Load(),
	}).Info("Collection run finished")

	return int(okCount.Load()), int(failCount.Load()), nil
}
