package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsj9346/makenaide/internal/scheduler"
	"github.com/jsj9346/makenaide/internal/scheduler/jobs"
)

// 재시도 간격 (작업 실패 시)
const jobRetryDelay = time.Minute

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- daily_collection: 매일 22:00 (일봉 수집, SCHEDULE_COLLECT)
- daily_scan:       매일 22:30 (전체 스캔, SCHEDULE_SCAN)

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/makenaide scheduler start
  go run ./cmd/makenaide scheduler run daily_scan`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Makenaide Scheduler ===")

	d, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()

	// 종료 시 작업 통계 출력
	for jobName, stat := range sched.GetJobStats() {
		fmt.Printf("  %s: %d runs, %.1f%% success\n", jobName, stat.TotalRuns, stat.SuccessRate*100)
	}

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	d, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	d, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.close()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	// RunJob은 비동기라 완료를 기다림 (단발 실행용)
	waitForIdle(sched, jobName)
	return nil
}

// waitForIdle polls job history until the triggered run finishes
func waitForIdle(sched *scheduler.Scheduler, jobName string) {
	for {
		time.Sleep(500 * time.Millisecond)
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return
		}
		if len(history.Results) > 0 {
			latest := history.GetLatestResults(1)[0]
			if latest.Success {
				fmt.Println("✅ Job completed")
			} else {
				fmt.Printf("❌ Job failed: %s\n", latest.Error)
			}
			return
		}
	}
}

func initScheduler() (*deps, *scheduler.Scheduler, error) {
	d, err := initDeps()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(d.log, d.cfg.Scheduler.JobRetries, jobRetryDelay)

	// Register jobs
	if err := sched.AddJob(jobs.NewCollectJob(d.collector, d.cfg.Scheduler.CollectSpec, d.log)); err != nil {
		d.close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewScanJob(d.ohlcvRepo, d.resultRepo, d.engine, d.cfg.Scheduler.ScanSpec, d.log)); err != nil {
		d.close()
		return nil, nil, err
	}

	return d, sched, nil
}
