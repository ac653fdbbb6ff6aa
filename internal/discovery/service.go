// internal/discovery/service.go
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/common/observability"
	"pro-discovery/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Service runs the search, suggest and facets read paths over the two injected stores.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	profiles   ProfileRepository
	taxonomy   TaxonomyStore
	weights    Weights
	slowSearch time.Duration
	logger     logger.Logger
	tracer     trace.Tracer
	obs        *observability.Observability
}

type Option func(*Service)

func WithWeights(w Weights) Option {
	return func(s *Service) { s.weights = w.withDefaults() }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithSlowSearchThreshold sets the duration above which a search logs a warning.
func WithSlowSearchThreshold(d time.Duration) Option {
	return func(s *Service) { s.slowSearch = d }
}

func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

func NewService(profiles ProfileRepository, taxonomy TaxonomyStore, opts ...Option) *Service {
	s := &Service{
		profiles:   profiles,
		taxonomy:   taxonomy,
		weights:    DefaultWeights(),
		slowSearch: 500 * time.Millisecond,
		logger:     logger.NewNoOpLogger(),
		tracer:     noop.NewTracerProvider().Tracer("discovery"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Weights() Weights {
	return s.weights
}

// Search validates req, fetches coarse candidates, filters, ranks and paginates them.
func (s *Service) Search(ctx context.Context, req models.SearchFilterRequest) (*models.SearchResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "discovery.search")
	defer span.End()

	if err := ValidateSearchRequest(req); err != nil {
		s.finish(ctx, span, metrics.OperationSearch, start, err)
		return nil, err
	}

	candidates, err := s.profiles.FetchProfiles(ctx, CoarseQuery(req))
	if err != nil {
		err = dependencyError("fetch profiles", err)
		s.finish(ctx, span, metrics.OperationSearch, start, err)
		return nil, err
	}

	matched := Filter(candidates, req)
	ranked := Rank(matched, req.EffectiveSort(), s.weights)
	page, pagination := Paginate(ranked, req.EffectiveLimit(), req.EffectiveOffset())

	result := &models.SearchResult{
		Profiles:       page,
		Pagination:     pagination,
		AppliedFilters: AppliedFilters(req),
	}

	metrics.DiscoveryCandidates.Observe(float64(len(candidates)))
	metrics.DiscoveryResults.Observe(float64(pagination.Total))
	span.SetAttributes(
		attribute.Int("discovery.candidates", len(candidates)),
		attribute.Int("discovery.total", pagination.Total),
		attribute.String("discovery.sort", string(req.EffectiveSort())),
	)

	elapsed := time.Since(start)
	fields := map[string]interface{}{
		"candidates":     len(candidates),
		"total":          pagination.Total,
		"returned":       len(page),
		"sortBy":         string(req.EffectiveSort()),
		"appliedFilters": strings.Join(result.AppliedFilters, ","),
		"durationMs":     elapsed.Milliseconds(),
	}
	s.logger.Info("search completed", fields)
	if s.slowSearch > 0 && elapsed > s.slowSearch {
		s.logger.Warn("search exceeded slow threshold", map[string]interface{}{
			"durationMs":  elapsed.Milliseconds(),
			"thresholdMs": s.slowSearch.Milliseconds(),
		})
	}

	s.finish(ctx, span, metrics.OperationSearch, start, nil)
	return result, nil
}

// Suggest returns typeahead suggestions. Stores are only queried for the sources the type needs.
func (s *Service) Suggest(ctx context.Context, req models.SuggestRequest) ([]models.Suggestion, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "discovery.suggest")
	defer span.End()

	if err := ValidateSuggestRequest(req); err != nil {
		s.finish(ctx, span, metrics.OperationSuggest, start, err)
		return nil, err
	}

	var profiles []models.ProfessionalProfile
	if req.Type.Includes(models.SuggestionTypeProfessionals) {
		var err error
		profiles, err = s.profiles.FetchProfiles(ctx, SuggestQuery(req))
		if err != nil {
			err = dependencyError("fetch profiles", err)
			s.finish(ctx, span, metrics.OperationSuggest, start, err)
			return nil, err
		}
	}

	var categories []models.Category
	if req.Type.Includes(models.SuggestionTypeCategories) || req.Type.Includes(models.SuggestionTypeServices) {
		var err error
		categories, err = s.taxonomy.FetchCategories(ctx)
		if err != nil {
			err = dependencyError("fetch categories", err)
			s.finish(ctx, span, metrics.OperationSuggest, start, err)
			return nil, err
		}
	}

	suggestions := Suggest(profiles, categories, req)
	span.SetAttributes(attribute.Int("discovery.suggestions", len(suggestions)))
	s.logger.Debug("suggestions built", map[string]interface{}{
		"query": req.Query,
		"type":  string(req.Type),
		"count": len(suggestions),
	})

	s.finish(ctx, span, metrics.OperationSuggest, start, nil)
	return suggestions, nil
}

// Facets returns the filter options for the current taxonomy.
func (s *Service) Facets(ctx context.Context) (*models.Facets, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "discovery.facets")
	defer span.End()

	categories, err := s.taxonomy.FetchCategories(ctx)
	if err != nil {
		err = dependencyError("fetch categories", err)
		s.finish(ctx, span, metrics.OperationFacets, start, err)
		return nil, err
	}
	areas, err := s.taxonomy.FetchAreas(ctx)
	if err != nil {
		err = dependencyError("fetch areas", err)
		s.finish(ctx, span, metrics.OperationFacets, start, err)
		return nil, err
	}

	facets := BuildFacets(models.Taxonomy{Categories: categories, Areas: areas})
	s.finish(ctx, span, metrics.OperationFacets, start, nil)
	return facets, nil
}

// dependencyError keeps both the sentinel and the collaborator error reachable through errors.Is.
// A candidate overflow is the request's breadth, not an outage, and is passed through.
func dependencyError(op string, err error) error {
	if errors.Is(err, apperrors.ErrCandidateLimitExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrDependencyUnavailable, err)
}

func (s *Service) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrInvalidRequest):
		outcome = metrics.OutcomeInvalidRequest
		s.logger.Debug("request rejected", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	case errors.Is(err, apperrors.ErrCandidateLimitExceeded):
		outcome = metrics.OutcomeTooBroad
		s.logger.Warn("candidate cap exceeded", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	default:
		outcome = metrics.OutcomeDependencyError
		s.logger.Error("discovery operation failed", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}

	elapsed := time.Since(start)
	metrics.ObserveOperation(operation, outcome, elapsed)
	s.obs.Record(ctx, operation, outcome, elapsed)
}
