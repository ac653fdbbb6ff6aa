// internal/workers/data-access/query-elasticsearch/handler.go
package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/repository"
	"pro-discovery/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidFilterFormatError("input cannot be nil")
	}

	eq := queries.ElasticsearchQuery{
		Index:     input.IndexName,
		QueryType: input.QueryType,
		Filters:   input.Filters,
	}
	if eq.Index == "" {
		eq.Index = h.config.DefaultIndex
	}
	eq.Pagination.From = input.Pagination.From
	eq.Pagination.Size = input.Pagination.Size

	result, err := queries.Execute(ctx, h.client, eq)
	if err != nil {
		return nil, h.mapError(ctx, eq, err)
	}

	h.logger.Debug("search executed", map[string]interface{}{
		"index":     eq.Index,
		"totalHits": result.TotalHits,
		"returned":  len(result.Data),
		"tookMs":    result.Took,
	})

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		Took:      result.Took,
	}, nil
}

func (h *Handler) mapError(ctx context.Context, eq queries.ElasticsearchQuery, err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return apperrors.NewInvalidFilterFormatError(err.Error())
	case errors.Is(err, queries.ErrUnknownQueryType):
		return apperrors.NewInvalidQueryTypeError(eq.QueryType)
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() == context.DeadlineExceeded:
		return apperrors.NewSearchTimeoutError(eq.Index)
	case errors.Is(err, queries.ErrMissingIndex), errors.Is(err, repository.ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(eq.Index)
	case errors.Is(err, repository.ErrSearchQueryFailed):
		return apperrors.NewSearchQueryFailedError(eq.Index, err)
	default:
		return apperrors.NewElasticsearchConnectionFailedError(err)
	}
}
