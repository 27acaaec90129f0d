package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-verifier/internal/types"
)

// Memory is an in-memory store used when no DATABASE_URL is configured.
// It mirrors the DB method set so the API layer works without Postgres;
// data does not survive a restart.
type Memory struct {
	mu         sync.RWMutex
	candidates map[uuid.UUID]Candidate
	order      []uuid.UUID
	reports    map[uuid.UUID]Report
	byCand     map[uuid.UUID][]uuid.UUID
	users      map[uuid.UUID]User
	byEmail    map[string]uuid.UUID
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		candidates: make(map[uuid.UUID]Candidate),
		reports:    make(map[uuid.UUID]Report),
		byCand:     make(map[uuid.UUID][]uuid.UUID),
		users:      make(map[uuid.UUID]User),
		byEmail:    make(map[string]uuid.UUID),
	}
}

// Close is a no-op for the in-memory store
func (m *Memory) Close() {}

// Ping always succeeds for the in-memory store
func (m *Memory) Ping(_ context.Context) error { return nil }

// CreateCandidate inserts a candidate record and returns its ID
func (m *Memory) CreateCandidate(_ context.Context, name, email, sourceFile string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := Candidate{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		SourceFile: sourceFile,
		CreatedAt:  time.Now(),
	}
	m.candidates[c.ID] = c
	m.order = append(m.order, c.ID)
	return c.ID, nil
}

// GetCandidate retrieves a candidate by ID
func (m *Memory) GetCandidate(_ context.Context, id uuid.UUID) (*Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.candidates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ListCandidates retrieves candidates with optional filters, newest first
func (m *Memory) ListCandidates(_ context.Context, filters CandidateFilters) ([]Candidate, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}
	nameFilter := strings.ToLower(filters.Name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []Candidate
	for i := len(m.order) - 1; i >= 0 && len(candidates) < filters.Limit; i-- {
		c, ok := m.candidates[m.order[i]]
		if !ok {
			continue
		}
		if nameFilter != "" && !strings.Contains(strings.ToLower(c.Name), nameFilter) {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// DeleteCandidate deletes a candidate and its reports
func (m *Memory) DeleteCandidate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.candidates[id]; !ok {
		return fmt.Errorf("candidate not found: %s", id)
	}
	delete(m.candidates, id)
	for _, reportID := range m.byCand[id] {
		delete(m.reports, reportID)
	}
	delete(m.byCand, id)
	return nil
}

// SaveReport stores a risk report with its evidence bundle and returns the
// report ID
func (m *Memory) SaveReport(_ context.Context, candidateID uuid.UUID, report *types.RiskReport, evidence *types.EvidenceBundle) (uuid.UUID, error) {
	flagsJSON, err := json.Marshal(report.Flags)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal flags: %w", err)
	}
	evidenceJSON, err := json.Marshal(evidence)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal evidence: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r := Report{
		ID:          uuid.New(),
		CandidateID: candidateID,
		TrustScore:  report.TrustScore,
		RiskLevel:   string(report.RiskLevel),
		Flags:       flagsJSON,
		Evidence:    evidenceJSON,
		CreatedAt:   time.Now(),
	}
	m.reports[r.ID] = r
	m.byCand[candidateID] = append(m.byCand[candidateID], r.ID)
	return r.ID, nil
}

// GetReport retrieves a report by ID
func (m *Memory) GetReport(_ context.Context, id uuid.UUID) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// LatestReportForCandidate retrieves the most recent report for a candidate
func (m *Memory) LatestReportForCandidate(_ context.Context, candidateID uuid.UUID) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byCand[candidateID]
	if len(ids) == 0 {
		return nil, nil
	}
	r := m.reports[ids[len(ids)-1]]
	return &r, nil
}

// ListReportsForCandidate retrieves all reports for a candidate, newest first
func (m *Memory) ListReportsForCandidate(_ context.Context, candidateID uuid.UUID) ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byCand[candidateID]
	var reports []Report
	for i := len(ids) - 1; i >= 0; i-- {
		reports = append(reports, m.reports[ids[i]])
	}
	return reports, nil
}

// CreateUser inserts a reviewer account and returns its ID
func (m *Memory) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return uuid.Nil, fmt.Errorf("failed to create user: email already registered")
	}

	u := User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	m.users[u.ID] = u
	m.byEmail[email] = u.ID
	return u.ID, nil
}

// GetUser retrieves a user by ID
func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := m.users[id]
	return &u, nil
}

// CheckEmailExists reports whether a user with the email is registered
func (m *Memory) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byEmail[email]
	return ok, nil
}

// UpdatePassword sets the password hash for a user
func (m *Memory) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.PasswordHash = passwordHash
	m.users[userID] = u
	return nil
}
