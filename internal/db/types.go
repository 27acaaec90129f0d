package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Candidate represents one analyzed resume subject
type Candidate struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	SourceFile string    `json:"source_file,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Report represents one stored risk analysis for a candidate. Flags and
// evidence are kept as raw JSON so stored reports replay byte-for-byte.
type Report struct {
	ID          uuid.UUID       `json:"id"`
	CandidateID uuid.UUID       `json:"candidate_id"`
	TrustScore  int             `json:"trust_score"`
	RiskLevel   string          `json:"risk_level"`
	Flags       json.RawMessage `json:"flags"`
	Evidence    json.RawMessage `json:"evidence,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// User represents a reviewer account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
}
