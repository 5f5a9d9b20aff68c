package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsj9346/makenaide/pkg/config"
	"github.com/jsj9346/makenaide/pkg/logger"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Upbit: config.UpbitConfig{
			BaseURL:         baseURL,
			RateLimitPerSec: 1000, // 테스트에서는 사실상 무제한
			RateLimitBurst:  1000,
		},
	}
	return New(cfg, logger.New(cfg))
}

func candleJSON(market string, day time.Time, close float64) map[string]interface{} {
	return map[string]interface{}{
		"market":                  market,
		"candle_date_time_utc":    day.Format("2006-01-02T15:04:05"),
		"opening_price":           close - 1,
		"high_price":              close + 2,
		"low_price":               close - 2,
		"trade_price":             close,
		"candle_acc_trade_volume": 1234.5,
	}
}

func TestKRWMarkets_FiltersQuoteCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/market/all", r.URL.Path)
		json.NewEncoder(w).Encode([]Market{
			{Market: "KRW-BTC", KoreanName: "비트코인", EnglishName: "Bitcoin"},
			{Market: "BTC-ETH", KoreanName: "이더리움", EnglishName: "Ethereum"},
			{Market: "KRW-ETH", KoreanName: "이더리움", EnglishName: "Ethereum"},
			{Market: "USDT-XRP", KoreanName: "리플", EnglishName: "Ripple"},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	markets, err := client.KRWMarkets(context.Background())

	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, "KRW-BTC", markets[0].Market)
	assert.Equal(t, "KRW-ETH", markets[1].Market)
}

func TestDailyCandles_SinglePage(t *testing.T) {
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/candles/days", r.URL.Path)
		assert.Equal(t, "KRW-BTC", r.URL.Query().Get("market"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))

		// 최신순 응답
		payload := []map[string]interface{}{
			candleJSON("KRW-BTC", base, 120),
			candleJSON("KRW-BTC", base.AddDate(0, 0, -1), 110),
			candleJSON("KRW-BTC", base.AddDate(0, 0, -2), 100),
		}
		json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := testClient(server.URL)
	bars, err := client.DailyCandles(context.Background(), "KRW-BTC", 3)

	require.NoError(t, err)
	require.Len(t, bars, 3)
	// 오래된 순으로 정렬되어야 함
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 110.0, bars[1].Close)
	assert.Equal(t, 120.0, bars[2].Close)
	assert.True(t, bars[0].Date.Before(bars[2].Date))
	assert.Equal(t, 1234.5, bars[0].Volume)
}

func TestDailyCandles_Pagination(t *testing.T) {
	base := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		to := r.URL.Query().Get("to")
		requests = append(requests, to)

		start := base
		if to != "" {
			parsed, err := time.Parse("2006-01-02T15:04:05", to)
			require.NoError(t, err)
			start = parsed.AddDate(0, 0, -1) // to는 exclusive
		}

		count := 0
		fmt.Sscanf(r.URL.Query().Get("count"), "%d", &count)

		payload := make([]map[string]interface{}, 0, count)
		for i := 0; i < count; i++ {
			day := start.AddDate(0, 0, -i)
			payload = append(payload, candleJSON("KRW-BTC", day, 100+float64(day.Day())))
		}
		json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := testClient(server.URL)
	bars, err := client.DailyCandles(context.Background(), "KRW-BTC", 250)

	require.NoError(t, err)
	require.Len(t, bars, 250)
	// 첫 요청은 커서 없이, 두 번째는 첫 페이지의 최구봉을 커서로
	require.Len(t, requests, 2)
	assert.Empty(t, requests[0])
	assert.NotEmpty(t, requests[1])

	// 연속된 날짜, 오래된 순
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i-1].Date.Before(bars[i].Date))
	}
}

func TestDailyCandles_StopsWhenHistoryExhausted(t *testing.T) {
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// 상장 직후라 5개만 존재
			payload := make([]map[string]interface{}, 0, 5)
			for i := 0; i < 5; i++ {
				payload = append(payload, candleJSON("KRW-NEW", base.AddDate(0, 0, -i), 100))
			}
			json.NewEncoder(w).Encode(payload)
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer server.Close()

	client := testClient(server.URL)
	bars, err := client.DailyCandles(context.Background(), "KRW-NEW", 250)

	require.NoError(t, err)
	assert.Len(t, bars, 5)
	assert.Equal(t, 2, calls)
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.KRWMarkets(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
