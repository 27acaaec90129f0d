// Package server provides the HTTP REST API for the resume verifier.
package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-verifier/internal/db"
	"github.com/jonathan/resume-verifier/internal/types"
)

// Store is the persistence surface the API needs. It is satisfied by the
// Postgres-backed db.DB and by db.Memory, which the server falls back to
// when no DATABASE_URL is configured.
type Store interface {
	// Candidates
	CreateCandidate(ctx context.Context, name, email, sourceFile string) (uuid.UUID, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*db.Candidate, error)
	ListCandidates(ctx context.Context, filters db.CandidateFilters) ([]db.Candidate, error)
	DeleteCandidate(ctx context.Context, id uuid.UUID) error

	// Reports
	SaveReport(ctx context.Context, candidateID uuid.UUID, report *types.RiskReport, evidence *types.EvidenceBundle) (uuid.UUID, error)
	GetReport(ctx context.Context, id uuid.UUID) (*db.Report, error)
	LatestReportForCandidate(ctx context.Context, candidateID uuid.UUID) (*db.Report, error)
	ListReportsForCandidate(ctx context.Context, candidateID uuid.UUID) ([]db.Report, error)

	// Reviewer accounts
	CreateUser(ctx context.Context, name, email string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	Ping(ctx context.Context) error
	Close()
}

var (
	_ Store = (*db.DB)(nil)
	_ Store = (*db.Memory)(nil)
)
