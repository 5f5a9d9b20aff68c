package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [ticker...]",
	Short: "일봉 데이터 수집",
	Long: `Upbit KRW 마켓의 일봉 데이터를 수집하고 기술적 지표를 계산합니다.

이 명령어는:
- KRW 마켓 목록 조회 (ticker 인자가 없으면 전체)
- ticker당 최근 300일 일봉 수집
- MA/RSI/MACD/볼린저/ADX 지표 계산 후 저장

Example:
  go run ./cmd/makenaide collect
  go run ./cmd/makenaide collect KRW-BTC KRW-ETH`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Makenaide Data Collection ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()

	// Specific tickers only
	if len(args) > 0 {
		for _, ticker := range args {
			if err := d.collector.CollectTicker(ctx, ticker); err != nil {
				d.log.WithField("ticker", ticker).WithError(err).Error("Collection failed")
				continue
			}
			fmt.Printf("  ✅ %s\n", ticker)
		}
		return nil
	}

	// Full market sweep
	collected, failed, err := d.collector.CollectAll(ctx)
	if err != nil {
		return fmt.Errorf("collect all: %w", err)
	}

	fmt.Printf("\n✅ Collection completed: %d collected, %d failed\n", collected, failed)
	return nil
}
