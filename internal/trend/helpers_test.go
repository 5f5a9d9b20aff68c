package trend

import (
	"time"

	"github.com/jsj9346/makenaide/internal/contracts"
	"github.com/jsj9346/makenaide/pkg/config"
	"github.com/jsj9346/makenaide/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

// flatSeries builds n bars with constant close and volume, no indicators.
func flatSeries(ticker string, n int, close, volume float64) *contracts.IndicatorSeries {
	bars := make([]contracts.Bar, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   close,
			High:   close,
			Low:    close,
			Close:  close,
			Volume: volume,
		}
	}
	return &contracts.IndicatorSeries{Ticker: ticker, Bars: bars}
}

// seriesWithCloses builds bars from explicit closes, constant volume.
func seriesWithCloses(ticker string, closes []float64, volume float64) *contracts.IndicatorSeries {
	bars := make([]contracts.Bar, len(closes))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: volume,
		}
	}
	return &contracts.IndicatorSeries{Ticker: ticker, Bars: bars}
}

func lastBar(s *contracts.IndicatorSeries) *contracts.Bar {
	return &s.Bars[len(s.Bars)-1]
}

func barAgo(s *contracts.IndicatorSeries, n int) *contracts.Bar {
	return &s.Bars[len(s.Bars)-1-n]
}
