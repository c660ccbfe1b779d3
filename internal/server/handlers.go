package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/types"
)

// uploadField is the multipart form field holding the resume file.
const uploadField = "resume"

// ReportListResponse represents the response for GET /reports
type ReportListResponse struct {
	Reports []types.ScoreReport `json:"reports"`
	Count   int                 `json:"count"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

// upload is a resume read from a multipart request.
type upload struct {
	name string
	mime string
	data []byte
}

// readUpload reads the resume file from a multipart request, enforcing the upload cap.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("upload exceeds %d bytes: %w", s.maxUploadBytes, err)
		}
		return nil, &ErrValidation{Field: uploadField, Message: "expected multipart/form-data: " + err.Error()}
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, &ErrValidation{Field: uploadField, Message: "file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	// Browsers often send octet-stream; let detection use the filename instead.
	mimeType := ingestion.NormalizeMIME(header.Header.Get("Content-Type"))
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}

	return &upload{name: header.Filename, mime: mimeType, data: data}, nil
}

// persist saves a report when history is enabled. Failures are logged, not returned.
func (s *Server) persist(ctx context.Context, report *types.ScoreReport) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveReport(ctx, report); err != nil {
		log.Printf("Warning: Failed to save report %s: %v", report.ID, err)
		s.metrics.ObserveError("store")
	}
}

// handleScoreUpload scores an uploaded resume file
func (s *Server) handleScoreUpload(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	report, err := s.pipeline.ScoreDocument(r.Context(), pipeline.ScoreOptions{
		Data:   up.data,
		Source: up.name,
		MIME:   up.mime,
	})
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.persist(r.Context(), report)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleScoreText scores already-extracted resume text
func (s *Server) handleScoreText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req types.ScoreTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorFromErr(w, err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.pipeline.ScoreText(r.Context(), req.Source, req.Text)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.persist(r.Context(), report)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleScoreStream scores an uploaded resume and streams progress via SSE
func (s *Server) handleScoreStream(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := s.pipeline.ScoreDocument(r.Context(), pipeline.ScoreOptions{
		Data:   up.data,
		Source: up.name,
		MIME:   up.mime,
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.WriteEvent("step", event); err != nil {
				log.Printf("Error writing SSE event: %v", err)
			}
		},
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	s.persist(r.Context(), report)
	sse.WriteComplete(report)
}

// handleKeywords returns the keyword set used for scoring, optionally just one ?category=
func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	ks := s.pipeline.Keywords()
	if v := r.URL.Query().Get("category"); v != "" {
		category, err := types.ParseCategory(v)
		if err != nil {
			s.errorFromErr(w, &ErrValidation{Field: "category", Message: err.Error()})
			return
		}
		ks = ks.Only(category)
	}
	s.jsonResponse(w, http.StatusOK, ks)
}

// handleListReports returns stored reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, ErrStorageUnavailable)
		return
	}

	filters, err := parseReportFilters(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	reports, err := s.store.ListReports(r.Context(), filters)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ReportListResponse{
		Reports: reports,
		Count:   len(reports),
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	})
}

// parseReportFilters reads source, min_total, limit and offset query parameters.
func parseReportFilters(r *http.Request) (db.ReportFilters, error) {
	q := r.URL.Query()
	filters := db.ReportFilters{
		Source: q.Get("source"),
		Limit:  db.DefaultListLimit,
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > db.MaxListLimit {
			return filters, &ErrValidation{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", db.MaxListLimit)}
		}
		filters.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filters, &ErrValidation{Field: "offset", Message: "must be a non-negative integer"}
		}
		filters.Offset = n
	}
	if v := q.Get("min_total"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 100 {
			return filters, &ErrValidation{Field: "min_total", Message: "must be between 0 and 100"}
		}
		filters.MinTotal = f
	}

	return filters, nil
}

// handleGetReport returns a stored report by ID
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, ErrStorageUnavailable)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID format")
		return
	}

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleDeleteReport deletes a stored report
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFromErr(w, ErrStorageUnavailable)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID format")
		return
	}

	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		s.errorFromErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
