package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateCandidate inserts a candidate record and returns its ID
func (db *DB) CreateCandidate(ctx context.Context, name, email, sourceFile string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, email, source_file)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, email, sourceFile,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return id, nil
}

// GetCandidate retrieves a candidate by ID
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	var c Candidate
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(email, ''), COALESCE(source_file, ''), created_at
		 FROM candidates WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.SourceFile, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &c, nil
}

// CandidateFilters holds optional filters for listing candidates
type CandidateFilters struct {
	Name  string
	Limit int
}

// ListCandidates retrieves candidates with optional filters, newest first
func (db *DB) ListCandidates(ctx context.Context, filters CandidateFilters) ([]Candidate, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, name, COALESCE(email, ''), COALESCE(source_file, ''), created_at
		FROM candidates WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Name+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.SourceFile, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// DeleteCandidate deletes a candidate and its reports (via cascade)
func (db *DB) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", id)
	}
	return nil
}
