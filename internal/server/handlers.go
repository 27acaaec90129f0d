package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-verifier/internal/db"
	"github.com/jonathan/resume-verifier/internal/risk"
	"github.com/jonathan/resume-verifier/internal/schemas"
	"github.com/jonathan/resume-verifier/internal/types"
)

// AnalyzeResponse is the full result of one resume analysis.
type AnalyzeResponse struct {
	CandidateID uuid.UUID             `json:"candidate_id"`
	ReportID    uuid.UUID             `json:"report_id"`
	Report      *types.RiskReport     `json:"report"`
	Evidence    *types.EvidenceBundle `json:"evidence"`
}

// handleAnalyze runs the full pipeline on an uploaded resume: parse, gather
// evidence from public sources, score, persist.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit))
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "multipart field 'resume' is required")
		return
	}
	defer file.Close()

	parsed, err := s.parser.ParseUpload(file, header.Filename)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Refuse unscorable resumes before spending network calls on them
	if err := risk.ValidateResume(parsed, time.Now()); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	bundle := s.verifier.GatherEvidence(r.Context(), parsed)
	s.metrics.ObserveEvidence(bundle)

	report, err := s.engine.Analyze(parsed, bundle)
	if err != nil {
		var vErr *risk.ValidationError
		if errors.As(err, &vErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	candidateID, err := s.store.CreateCandidate(r.Context(), report.CandidateName, parsed.Email, header.Filename)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save candidate")
		return
	}
	reportID, err := s.store.SaveReport(r.Context(), candidateID, report, bundle)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	s.metrics.ObserveAnalysis(report)
	s.jsonResponse(w, http.StatusOK, AnalyzeResponse{
		CandidateID: candidateID,
		ReportID:    reportID,
		Report:      report,
		Evidence:    bundle,
	})
}

// handleScore scores a pre-resolved evidence document without touching the
// network or the store. This is the offline audit path: the same input
// always yields the same report.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds %d bytes", maxErr.Limit))
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := schemas.ValidateScoreInput(body); err != nil {
		var vErr *schemas.ValidationError
		if errors.As(err, &vErr) {
			s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "score input failed validation",
				"fields": vErr.Errors,
			})
			return
		}
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var input types.ScoreInput
	if err := json.Unmarshal(body, &input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to parse score input")
		return
	}

	report, err := s.engine.Analyze(&input.Resume, &input.Evidence)
	if err != nil {
		var vErr *risk.ValidationError
		if errors.As(err, &vErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "scoring failed")
		return
	}

	s.metrics.ObserveAnalysis(report)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleListCandidates lists analyzed candidates, optionally filtered by
// name substring and capped by limit.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	filters := db.CandidateFilters{Name: r.URL.Query().Get("name")}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filters.Limit = limit
	}

	candidates, err := s.store.ListCandidates(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list candidates")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// handleGetCandidate returns one candidate with their most recent report.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get candidate")
		return
	}
	if candidate == nil {
		notFound := &ErrCandidateNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	latest, err := s.store.LatestReportForCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get latest report")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidate":     candidate,
		"latest_report": latest,
	})
}

// handleDeleteCandidate removes a candidate and their stored reports.
func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get candidate")
		return
	}
	if candidate == nil {
		notFound := &ErrCandidateNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	if err := s.store.DeleteCandidate(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete candidate")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "candidate deleted"})
}

// handleListCandidateReports returns every stored report for a candidate,
// newest first.
func (s *Server) handleListCandidateReports(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get candidate")
		return
	}
	if candidate == nil {
		notFound := &ErrCandidateNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	reports, err := s.store.ListReportsForCandidate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// handleGetReport returns one stored report by ID.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get report")
		return
	}
	if report == nil {
		notFound := &ErrReportNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}
