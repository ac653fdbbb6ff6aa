// internal/workers/discovery/search-professionals/handler.go
package searchprofessionals

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/models"
)

const TaskType = "search-professionals"

// Searcher is the discovery read path the worker drives.
type Searcher interface {
	Search(ctx context.Context, req models.SearchFilterRequest) (*models.SearchResult, error)
}

type Handler struct {
	config       *Config
	searcher     Searcher
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, searcher Searcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		searcher:     searcher,
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
			apperrors.NewInvalidSearchRequestError(fmt.Sprintf("parse input: %v", err)))
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

// Execute runs one search. Errors come back classified, so validation failures
// become BPMN errors and store failures are retried.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.searcher.Search(ctx, input.SearchRequest)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	return &Output{
		Profiles:       result.Profiles,
		Pagination:     result.Pagination,
		AppliedFilters: result.AppliedFilters,
	}, nil
}
