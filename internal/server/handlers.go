package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qarag/internal/pipeline"
	"qarag/internal/rank"
)

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type rankedRecord struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Links    []string `json:"links"`
	Score    float64  `json:"score"`
}

type queryResponse struct {
	Answer  string         `json:"answer"`
	Records []rankedRecord `json:"records"`
}

type feedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query must not be empty")
		return
	}
	s.logger.Debug("query request", zap.String("query", req.Query), zap.Int("top_k", req.TopK))
	result, err := s.service.Ask(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	records := make([]rankedRecord, len(result.Records))
	for i, rec := range result.Records {
		records[i] = rankedRecord{
			ID:       rec.Record.ID,
			Question: rec.Record.Question,
			Answer:   rec.Record.Answer,
			Links:    rec.Record.Links,
			Score:    rec.Score,
		}
	}
	s.respondJSON(w, http.StatusOK, queryResponse{Answer: result.Answer, Records: records})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.service.RecordFeedback(req.Question, req.Answer, req.Feedback); err != nil {
		s.logger.Error("feedback append failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Feedback saved."})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError distinguishes caller mistakes from collaborator outages:
// a dimension mismatch or bad k is the caller's problem, a failing external
// service is a bad gateway.
func statusForError(err error) int {
	switch {
	case errors.Is(err, rank.ErrDimensionMismatch), errors.Is(err, rank.ErrInvalidTopK):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrEmbedding), errors.Is(err, pipeline.ErrAnswering):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
