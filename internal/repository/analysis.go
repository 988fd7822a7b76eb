// Package repository persists AnalysisResult records for audit trails, per
// spec.md 1's note that durable storage sits outside the analytical core
// and is wired in by an adapter satisfying domain.AnalysisRepository.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/domain"
)

// AnalysisRepository persists domain.AnalysisResult records to Postgres,
// storing the biomarker, cluster, and insight slices as JSONB.
type AnalysisRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewAnalysisRepository builds an AnalysisRepository.
func NewAnalysisRepository(db *pgxpool.Pool, log *logrus.Logger) *AnalysisRepository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AnalysisRepository{db: db, log: log}
}

// Save upserts an AnalysisResult, satisfying domain.AnalysisRepository.
func (r *AnalysisRepository) Save(ctx context.Context, result domain.AnalysisResult) error {
	biomarkersJSON, err := json.Marshal(result.Biomarkers)
	if err != nil {
		return fmt.Errorf("repository: marshal biomarkers: %w", err)
	}
	clustersJSON, err := json.Marshal(result.Clusters)
	if err != nil {
		return fmt.Errorf("repository: marshal clusters: %w", err)
	}
	insightsJSON, err := json.Marshal(result.Insights)
	if err != nil {
		return fmt.Errorf("repository: marshal insights: %w", err)
	}

	query := `
		INSERT INTO analysis_results (
			id, overall_score, biomarkers, clusters, insights, result_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			biomarkers = EXCLUDED.biomarkers,
			clusters = EXCLUDED.clusters,
			insights = EXCLUDED.insights,
			result_version = EXCLUDED.result_version`

	createdAt, err := parseCreatedAt(result.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: parse created_at: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		result.AnalysisID,
		result.OverallScore,
		biomarkersJSON,
		clustersJSON,
		insightsJSON,
		result.ResultVersion,
		createdAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{"analysis_id": result.AnalysisID, "error": err}).Error("repository: failed to save analysis result")
		return fmt.Errorf("repository: saving analysis result: %w", err)
	}

	r.log.WithField("analysis_id", result.AnalysisID).Info("repository: analysis result saved")
	return nil
}

// GetByID retrieves an AnalysisResult by its id, satisfying
// domain.AnalysisRepository. Returns domain.ErrNotFound when absent.
func (r *AnalysisRepository) GetByID(ctx context.Context, analysisID string) (domain.AnalysisResult, error) {
	query := `
		SELECT id, overall_score, biomarkers, clusters, insights, result_version, created_at
		FROM analysis_results
		WHERE id = $1`

	var result domain.AnalysisResult
	var biomarkersJSON, clustersJSON, insightsJSON []byte
	var createdAt time.Time

	err := r.db.QueryRow(ctx, query, analysisID).Scan(
		&result.AnalysisID,
		&result.OverallScore,
		&biomarkersJSON,
		&clustersJSON,
		&insightsJSON,
		&result.ResultVersion,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnalysisResult{}, domain.ErrNotFound
		}
		r.log.WithFields(logrus.Fields{"analysis_id": analysisID, "error": err}).Error("repository: failed to get analysis result")
		return domain.AnalysisResult{}, fmt.Errorf("repository: getting analysis result: %w", err)
	}

	if err := json.Unmarshal(biomarkersJSON, &result.Biomarkers); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("repository: unmarshal biomarkers: %w", err)
	}
	if err := json.Unmarshal(clustersJSON, &result.Clusters); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("repository: unmarshal clusters: %w", err)
	}
	if err := json.Unmarshal(insightsJSON, &result.Insights); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("repository: unmarshal insights: %w", err)
	}

	result.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return result, nil
}

func parseCreatedAt(iso string) (time.Time, error) {
	if iso == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, iso)
}
