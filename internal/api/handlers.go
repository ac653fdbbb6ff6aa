// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/validation"
	"pro-discovery/internal/discovery"
	"pro-discovery/internal/models"
)

// searchParams are the query parameters copied into the raw filter document.
var searchParams = []string{
	"q", "query", "category", "area", "minPrice", "maxPrice", "priceRange", "minRating",
	"verified", "availableNow", "responseTimeMax", "sortBy", "limit", "offset",
}

type errorResponse struct {
	Error     *apperrors.StandardError `json:"error"`
	RequestID string                   `json:"requestId,omitempty"`
}

type suggestionsResponse struct {
	Suggestions []models.Suggestion `json:"suggestions"`
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) searchProfessionals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	raw := make(map[string]interface{}, len(searchParams))
	for _, key := range searchParams {
		if values, ok := query[key]; ok && len(values) > 0 {
			raw[key] = values[0]
		}
	}

	result, err := validation.Validate(validation.SchemaSearchFilters, raw)
	if err != nil {
		s.writeError(w, r, apperrors.NewInternalError(err))
		return
	}
	if !result.Valid {
		s.writeError(w, r, apperrors.NewInvalidFilterFormatError(strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	req, err := discovery.ParseRawFilters(raw)
	if err != nil {
		s.writeError(w, r, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	found, err := s.discovery.Search(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, found)
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := models.SuggestRequest{
		Query: query.Get("q"),
		Type:  models.SuggestionType(strings.TrimSpace(query.Get("type"))),
	}
	if req.Query == "" {
		req.Query = query.Get("query")
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidSuggestRequestError("limit must be an integer, got "+strconv.Quote(raw)))
			return
		}
		req.Limit = &limit
	}

	suggestions, err := s.discovery.Suggest(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRequest) {
			err = apperrors.NewInvalidSuggestRequestError(err.Error())
		}
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

func (s *Server) facets(w http.ResponseWriter, r *http.Request) {
	facets, err := s.discovery.Facets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, facets)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	resp := readyResponse{Status: "ready", Checks: make(map[string]string, len(s.checks))}
	status := http.StatusOK

	for _, check := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := check.Ping(ctx)
		cancel()

		if err != nil {
			resp.Checks[check.Name] = err.Error()
			resp.Status = "degraded"
			if !check.Optional {
				status = http.StatusServiceUnavailable
			}
			continue
		}
		resp.Checks[check.Name] = "ok"
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Classify(err)
	status := apperrors.HTTPStatus(stdErr)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"path":      r.URL.Path,
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
			"requestId": RequestIDFrom(r.Context()),
		})
	}
	s.writeJSON(w, status, errorResponse{Error: stdErr, RequestID: RequestIDFrom(r.Context())})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}
