package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-verifier/internal/assistant"
	"github.com/jonathan/resume-verifier/internal/db"
	"github.com/jonathan/resume-verifier/internal/types"
)

// chatContextLimit caps how many stored analyses ride along in the prompt.
const chatContextLimit = 20

// ChatRequest is one recruiter message to the assistant.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// handleChat answers a recruiter question using the stored analyses as
// context. Messages containing a profile URL get a direct verification
// reply instead of a model answer.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	candidates, err := s.chatContext(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load candidate context")
		return
	}

	reply, err := s.assistant.Reply(r.Context(), req.Message, candidates)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{Reply: reply})
}

// chatContext loads recent analyses into the assistant's context shape.
func (s *Server) chatContext(ctx context.Context) ([]assistant.CandidateContext, error) {
	stored, err := s.store.ListCandidates(ctx, db.CandidateFilters{Limit: chatContextLimit})
	if err != nil {
		return nil, err
	}

	contexts := make([]assistant.CandidateContext, 0, len(stored))
	for _, candidate := range stored {
		cc := assistant.CandidateContext{
			Name:  candidate.Name,
			Email: candidate.Email,
		}

		report, err := s.store.LatestReportForCandidate(ctx, candidate.ID)
		if err != nil {
			return nil, err
		}
		if report != nil {
			cc.TrustScore = report.TrustScore
			cc.RiskLevel = report.RiskLevel

			var flags []types.RiskFlag
			if err := json.Unmarshal(report.Flags, &flags); err != nil {
				s.log.Warn("stored flags unreadable",
					zap.String("candidate", candidate.Name), zap.Error(err))
			}
			for _, flag := range flags {
				cc.Flags = append(cc.Flags, string(flag.Code))
			}
		}

		contexts = append(contexts, cc)
	}
	return contexts, nil
}
