// internal/workers/discovery/parse-search-filters/handler.go
package parsesearchfilters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/common/validation"
	"pro-discovery/internal/discovery"
)

const TaskType = "parse-search-filters"

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	done := metrics.TrackJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job,
			apperrors.NewInvalidFilterFormatError(fmt.Sprintf("parse input: %v", err)))
		done(string(stdErr.Code))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		done(string(stdErr.Code))
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err != nil {
		done(string(apperrors.ErrCodeInternal))
		return
	}
	done("")
}

// Execute checks the raw document's shape, coerces it into a search request and
// validates the request's bounds.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	raw := input.RawFilters
	if raw == nil {
		raw = map[string]interface{}{}
	}

	result, err := validation.Validate(validation.SchemaSearchFilters, raw)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidFilterFormatError(strings.Join(result.GetErrorMessages(), "; "))
	}

	req, err := discovery.ParseRawFilters(raw)
	if err != nil {
		return nil, apperrors.NewInvalidFilterFormatError(err.Error())
	}
	if err := discovery.ValidateSearchRequest(req); err != nil {
		return nil, apperrors.NewInvalidSearchRequestError(err.Error())
	}

	applied := discovery.AppliedFilters(req)
	h.logger.Info("filters parsed", map[string]interface{}{
		"appliedFilters": applied,
		"sortBy":         string(req.EffectiveSort()),
		"limit":          req.EffectiveLimit(),
		"offset":         req.EffectiveOffset(),
	})

	return &Output{SearchRequest: req, AppliedFilters: applied}, nil
}
