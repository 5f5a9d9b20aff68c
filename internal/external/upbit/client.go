package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/config"
	"github.com/jsj9346/makenaide/pkg/httputil"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// 업비트 일봉 API는 요청당 최대 200개
const maxCandlesPerRequest = 200

// Client is the Upbit public REST API client
// ⭐ SSOT: 업비트 호출은 이 클라이언트를 통해서만
type Client struct {
	baseURL string
	http    *httputil.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// Market is one entry of /v1/market/all
type Market struct {
	Market      string `json:"market"`
	KoreanName  string `json:"korean_name"`
	EnglishName string `json:"english_name"`
}

// dayCandle is one entry of /v1/candles/days
type dayCandle struct {
	Market           string  `json:"market"`
	CandleDateTime   string  `json:"candle_date_time_utc"`
	OpeningPrice     float64 `json:"opening_price"`
	HighPrice        float64 `json:"high_price"`
	LowPrice         float64 `json:"low_price"`
	TradePrice       float64 `json:"trade_price"`
	AccTradeVolume   float64 `json:"candle_acc_trade_volume"`
	PrevClosingPrice float64 `json:"prev_closing_price"`
}

// New creates an Upbit client with the public-API rate limit applied.
func New(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Upbit.BaseURL, "/"),
		http:    httputil.NewWithTimeout(log, 10*time.Second),
		limiter: rate.NewLimiter(rate.Limit(cfg.Upbit.RateLimitPerSec), cfg.Upbit.RateLimitBurst),
		logger:  log.Named("upbit_client"),
	}
}

// KRWMarkets returns all KRW-quoted markets.
func (c *Client) KRWMarkets(ctx context.Context) ([]Market, error) {
	var all []Market
	if err := c.getJSON(ctx, "/v1/market/all?isDetails=false", &all); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	markets := make([]Market, 0, len(all))
	for _, m := range all {
		if strings.HasPrefix(m.Market, "KRW-") {
			markets = append(markets, m)
		}
	}

	c.logger.WithField("count", len(markets)).Debug("Fetched KRW markets")
	return markets, nil
}

// DailyCandles fetches up to `count` daily candles for a market, oldest
// first. Pagination walks backwards with the `to` cursor.
func (c *Client) DailyCandles(ctx context.Context, market string, count int) ([]contracts.Bar, error) {
	bars := make([]contracts.Bar, 0, count)
	cursor := "" // 빈 값이면 최신 봉부터

	for len(bars) < count {
		batch := count - len(bars)
		if batch > maxCandlesPerRequest {
			batch = maxCandlesPerRequest
		}

		candles, err := c.fetchCandlePage(ctx, market, batch, cursor)
		if err != nil {
			return nil, err
		}
		if len(candles) == 0 {
			break // 상장 이전 구간
		}

		for _, candle := range candles {
			bar, err := candle.toBar()
			if err != nil {
				return nil, err
			}
			bars = append(bars, bar)
		}

		// 응답은 최신순: 마지막 항목이 가장 오래된 봉
		cursor = candles[len(candles)-1].CandleDateTime
	}

	// 오래된 순으로 정렬
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"bars":   len(bars),
	}).Debug("Fetched daily candles")

	return bars, nil
}

func (c *Client) fetchCandlePage(ctx context.Context, market string, count int, to string) ([]dayCandle, error) {
	params := url.Values{}
	params.Set("market", market)
	params.Set("count", fmt.Sprintf("%d", count))
	if to != "" {
		params.Set("to", to)
	}

	var candles []dayCandle
	if err := c.getJSON(ctx, "/v1/candles/days?"+params.Encode(), &candles); err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", market, err)
	}
	return candles, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.http.Get(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upbit returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (d dayCandle) toBar() (contracts.Bar, error) {
	date, err := time.Parse("2006-01-02T15:04:05", d.CandleDateTime)
	if err != nil {
		return contracts.Bar{}, fmt.Errorf("parse candle time %q: %w", d.CandleDateTime, err)
	}

	return contracts.Bar{
		Date:   date,
		Open:   d.OpeningPrice,
		High:   d.HighPrice,
		Low:    d.LowPrice,
		Close:  d.TradePrice,
		Volume: d.AccTradeVolume,
	}, nil
}
