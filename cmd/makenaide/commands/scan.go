package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsj9346/makenaide/internal/data"
	"github.com/jsj9346/makenaide/internal/scheduler/jobs"
)

// 스캔 후 출력할 상위 결과 수
const scanTopN = 20

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "전체 마켓 스캔 및 점수화",
	Long: `저장된 일봉 데이터로 전체 마켓을 스캔하고 결과를 저장합니다.

이 명령어는:
- 최근 데이터가 있는 모든 ticker 조회
- Stage/정배열/상대강도/거래량/모멘텀 5팩터 점수화
- 결과를 run 단위로 scoring_results에 저장

Example:
  go run ./cmd/makenaide scan`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Makenaide Market Scan ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()

	// 스케줄 작업과 동일한 플로우를 1회 실행
	job := jobs.NewScanJob(d.ohlcvRepo, d.resultRepo, d.engine, d.cfg.Scheduler.ScanSpec, d.log)
	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	rows, err := d.resultRepo.LatestResults(ctx, scanTopN)
	if err != nil {
		return fmt.Errorf("load scan results: %w", err)
	}

	printResultTable(rows)

	fmt.Println("\n✅ Scan completed")
	return nil
}

// printResultTable prints the top results of the latest run
func printResultTable(rows []data.ScanResultRow) {
	if len(rows) == 0 {
		fmt.Println("\nNo results to display")
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %-12s %6s  %-3s %-11s %4s\n", "TICKER", "SCORE", "GRD", "RECOMMEND", "PASS")
	fmt.Println("───────────────────────────────────────────────────────────")

	for _, row := range rows {
		r := row.Result
		pass := "-"
		if r.Passed {
			pass = "✅"
		}
		fmt.Printf("  %-12s %6.1f  %-3s %-11s %4s\n",
			r.Ticker, r.TotalScore, r.Grade, r.Recommendation, pass)
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
}
