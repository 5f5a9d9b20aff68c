package jobs

import (
	"context"
	"fmt"

	"github.com/jsj9346/makenaide/internal/collector"
	"github.com/jsj9346/makenaide/pkg/logger"
)

// CollectJob refreshes daily candles and indicators for all KRW markets
type CollectJob struct {
	collector *collector.Collector
	schedule  string
	logger    *logger.Logger
}

// NewCollectJob creates a data collection job
func NewCollectJob(c *collector.Collector, schedule string, log *logger.Logger) *CollectJob {
	return &CollectJob{
		collector: c,
		schedule:  schedule,
		logger:    log.Named("collect_job"),
	}
}

// Name returns the job name
func (j *CollectJob) Name() string {
	return "daily_collection"
}

// Schedule returns the cron schedule (기본: 매일 22:00 KST, 일봉 확정 후)
func (j *CollectJob) Schedule() string {
	return j.schedule
}

// Run collects candles for every active market
func (j *CollectJob) Run(ctx context.Context) error {
	collected, failed, err := j.collector.CollectAll(ctx)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"collected": collected,
		"failed":    failed,
	}).Info("Daily collection completed")

	// 전부 실패면 상위 재시도 로직을 태움
	if collected == 0 && failed > 0 {
		return fmt.Errorf("all %d tickers failed to collect", failed)
	}
	return nil
}
