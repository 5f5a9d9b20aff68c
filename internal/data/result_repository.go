package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsj9346/makenaide/internal/contracts"
)

// ScanResultRow is a persisted scoring result with run metadata.
type ScanResultRow struct {
	RunID  string                   `json:"run_id"`
	Result *contracts.ScoringResult `json:"result"`
}

// ResultRepository persists scoring results per analysis run.
// 분석 시각은 DB created_at이 기록; 결과 자체는 결정론 유지를 위해 무시각.
type ResultRepository struct {
	db *pgxpool.Pool
}

var _ contracts.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates a result repository
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResults stores every result of a scan run.
func (r *ResultRepository) SaveResults(ctx context.Context, runID string, results map[string]*contracts.ScoringResult) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO scoring_results (
			run_id, ticker,
			mandatory_passed, mandatory_reasons,
			stage_score, ma_alignment_score, rs_rating_score,
			volume_score, momentum_score,
			total_score, grade, percentile,
			passed, recommendation, confidence,
			strengths, weaknesses, risk_factors,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18, NOW()
		)
		ON CONFLICT (run_id, ticker) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, result := range results {
		batch.Queue(query,
			runID, result.Ticker,
			result.MandatoryPassed, result.MandatoryReasons,
			result.StageScore, result.MAAlignmentScore, result.RSRatingScore,
			result.VolumeScore, result.MomentumScore,
			result.TotalScore, result.Grade, result.Percentile,
			result.Passed, string(result.Recommendation), result.Confidence,
			result.Strengths, result.Weaknesses, result.RiskFactors,
		)
	}

	batchResults := r.db.SendBatch(ctx, batch)
	defer batchResults.Close()

	for range results {
		if _, err := batchResults.Exec(); err != nil {
			return fmt.Errorf("insert scoring result: %w", err)
		}
	}
	return nil
}

// LatestResults returns the results of the most recent scan run, best first.
func (r *ResultRepository) LatestResults(ctx context.Context, limit int) ([]ScanResultRow, error) {
	query := `
		SELECT
			run_id, ticker,
			mandatory_passed, mandatory_reasons,
			stage_score, ma_alignment_score, rs_rating_score,
			volume_score, momentum_score,
			total_score, grade, percentile,
			passed, recommendation, confidence,
			strengths, weaknesses, risk_factors
		FROM scoring_results
		WHERE run_id = (
			SELECT run_id FROM scoring_results
			ORDER BY created_at DESC LIMIT 1
		)
		ORDER BY total_score DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest results: %w", err)
	}
	defer rows.Close()

	var out []ScanResultRow
	for rows.Next() {
		var row ScanResultRow
		var result contracts.ScoringResult
		var recommendation string

		err := rows.Scan(
			&row.RunID, &result.Ticker,
			&result.MandatoryPassed, &result.MandatoryReasons,
			&result.StageScore, &result.MAAlignmentScore, &result.RSRatingScore,
			&result.VolumeScore, &result.MomentumScore,
			&result.TotalScore, &result.Grade, &result.Percentile,
			&result.Passed, &recommendation, &result.Confidence,
			&result.Strengths, &result.Weaknesses, &result.RiskFactors,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}

		result.Recommendation = contracts.Recommendation(recommendation)
		row.Result = &result
		out = append(out, row)
	}
	return out, rows.Err()
}
