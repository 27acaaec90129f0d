package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-verifier/internal/types"
)

// SaveReport stores a risk report with its evidence bundle and returns the
// report ID. Flags and evidence are stored as JSONB.
func (db *DB) SaveReport(ctx context.Context, candidateID uuid.UUID, report *types.RiskReport, evidence *types.EvidenceBundle) (uuid.UUID, error) {
	flagsJSON, err := json.Marshal(report.Flags)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal flags: %w", err)
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal evidence: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO reports (candidate_id, trust_score, risk_level, flags, evidence)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		candidateID, report.TrustScore, string(report.RiskLevel), flagsJSON, evidenceJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves a report by ID
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	var r Report
	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_id, trust_score, risk_level, flags, evidence, created_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.CandidateID, &r.TrustScore, &r.RiskLevel, &r.Flags, &r.Evidence, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &r, nil
}

// LatestReportForCandidate retrieves the most recent report for a candidate
func (db *DB) LatestReportForCandidate(ctx context.Context, candidateID uuid.UUID) (*Report, error) {
	var r Report
	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_id, trust_score, risk_level, flags, evidence, created_at
		 FROM reports WHERE candidate_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		candidateID,
	).Scan(&r.ID, &r.CandidateID, &r.TrustScore, &r.RiskLevel, &r.Flags, &r.Evidence, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return &r, nil
}

// ListReportsForCandidate retrieves all reports for a candidate, newest first
func (db *DB) ListReportsForCandidate(ctx context.Context, candidateID uuid.UUID) ([]Report, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, trust_score, risk_level, flags, evidence, created_at
		 FROM reports WHERE candidate_id = $1
		 ORDER BY created_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.CandidateID, &r.TrustScore, &r.RiskLevel, &r.Flags, &r.Evidence, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
